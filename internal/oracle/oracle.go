// Package oracle defines the boundary between the bridge and the
// source-analysis symbol graph it adapts. The graph itself is treated as an
// opaque collaborator: callers only ever see the eight operations below,
// never the graph's own node types. This keeps the adapter core testable
// against a hand-written fake (see oracle/fake) without depending on any
// concrete symbol-graph implementation.
package oracle

import "fmt"

// QualifiedName identifies a declaration unambiguously within one
// processing round. Equality of declarations is always by QualifiedName,
// never by the Declaration handle's own identity — a real oracle may hand
// back a fresh handle on every call.
type QualifiedName string

// DeclKind classifies a class-like declaration.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclInterface
	DeclEnum
	DeclEnumEntry
	DeclAnnotation
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclEnum:
		return "enum"
	case DeclEnumEntry:
		return "enum-entry"
	case DeclAnnotation:
		return "annotation"
	default:
		return fmt.Sprintf("DeclKind(%d)", int(k))
	}
}

// Declaration is an opaque handle into the symbol graph. Implementations are
// supplied by a concrete oracle (oracle/fake, oracle/protodesc,
// oracle/gosource); the core never downcasts one.
type Declaration interface {
	QualifiedName() QualifiedName
	Kind() DeclKind
}

// BuiltinKind enumerates the built-in declarations every oracle must be able
// to resolve a handle for (spec.md §6 item 7).
type BuiltinKind int

const (
	BuiltinUnit BuiltinKind = iota
	BuiltinBoolean
	BuiltinByte
	BuiltinShort
	BuiltinInt
	BuiltinLong
	BuiltinChar
	BuiltinFloat
	BuiltinDouble
)

// TypeParamRef describes one of a declaration's own generic parameters,
// together with its upper bound (nil when unbounded).
type TypeParamRef struct {
	Name  string
	Bound *TypeRef
}

// TypeRef is a resolved reference to a type, as the oracle hands it back:
// a declaration, a nullability mark, and either explicit type arguments or
// none (raw). A TypeRef may also denote a reference to one of the
// enclosing declaration's own type parameters rather than a concrete
// declaration — IsTypeParam distinguishes the two.
type TypeRef struct {
	Decl        Declaration
	Nullable    bool
	Args        []TypeRef
	IsTypeParam bool
	ParamName   string
}

// ArgKind tags the payload carried by an AnnotationArg.
type ArgKind int

const (
	ArgBool ArgKind = iota
	ArgByte
	ArgShort
	ArgInt
	ArgLong
	ArgChar
	ArgFloat
	ArgDouble
	ArgString
	ArgEnumEntry
	ArgClass
	ArgAnnotation
	ArgList
)

// AnnotationArg is a single raw annotation-argument payload, exactly as
// delivered by the oracle, before AnnotationValueAdapter wraps it.
type AnnotationArg struct {
	Kind      ArgKind
	Bool      bool
	Int       int64
	Float     float64
	Str       string
	EnumEntry Declaration
	Class     TypeRef
	Nested    *RawAnnotation
	List      []AnnotationArg
}

// RawAnnotationAttr is one name/value pair of a raw annotation, in source
// order.
type RawAnnotationAttr struct {
	Name  string
	Value AnnotationArg
}

// RawAnnotation is an annotation instance exactly as the oracle enumerates
// it off a declaration, before any mirror/grouping adaptation.
type RawAnnotation struct {
	Type  Declaration
	Attrs []RawAnnotationAttr
}

// MemberRefKind classifies a member enumerated by MemberOracle.
type MemberRefKind int

const (
	MemberField MemberRefKind = iota
	MemberMethod
	MemberAccessorGetter
	MemberAccessorSetter
	MemberEnumConstant
)

// MemberRef is one enclosed member of a class-like declaration, exactly as
// a MemberOracle enumerates it.
type MemberRef struct {
	Name         string
	Kind         MemberRefKind
	Decl         Declaration
	DeclaredType TypeRef
	Params       []TypeRef
	Return       TypeRef
}

// MemberOracle is an optional extension an Oracle implementation may also
// satisfy to let ClassTypeElement wrappers expose real nested elements and
// enclosed members (spec.md §3's ClassTypeElement attributes). It is kept
// separate from Oracle because spec.md §6 enumerates exactly eight required
// operations and member enumeration is narrow symbol-wrapping boilerplate,
// not part of the adapter core; an Oracle that doesn't implement it simply
// yields elements with no nested/enclosed members.
type MemberOracle interface {
	NestedElements(decl Declaration) []Declaration
	EnclosedMembers(decl Declaration) []MemberRef
}

// Oracle is the full set of operations the bridge requires from the
// source-analysis symbol graph (spec.md §6).
type Oracle interface {
	// LookupByQualifiedName finds a declaration by its fully qualified name.
	LookupByQualifiedName(name QualifiedName) (Declaration, bool)

	// StarProject views a declaration with all type parameters erased to
	// their bounds, for raw-inheritance questions that ignore argument
	// detail.
	StarProject(decl Declaration) TypeRef

	// IsRawAssignable tests assignability between two star-projected
	// types, ignoring type arguments entirely.
	IsRawAssignable(from, to TypeRef) bool

	// DirectSupertypes enumerates a declaration's direct supertype
	// references, in declaration order. Non-class supertype references are
	// never returned here (the caller filters nothing further).
	DirectSupertypes(decl Declaration) []TypeRef

	// TypeParams enumerates a declaration's own generic parameters, in
	// declaration order.
	TypeParams(decl Declaration) []TypeParamRef

	// Annotations enumerates a declaration's annotations and their
	// arguments, in source order.
	Annotations(decl Declaration) []RawAnnotation

	// Builtin resolves the handle for one of the built-in unit/primitive
	// declarations.
	Builtin(kind BuiltinKind) Declaration

	// QualifiedNameOf constructs a QualifiedName from a plain string.
	QualifiedNameOf(s string) QualifiedName
}
