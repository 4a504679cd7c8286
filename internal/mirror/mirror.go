// Package mirror models the legacy, erased/primitive-boxed type system as a
// tagged sum rather than an inheritance tree (spec.md §9's design note):
// TypeUtils pattern-matches on Kind rather than relying on a class
// hierarchy. The legacy javax.lang.model-style interface hierarchy
// downstream generators expect is re-exposed at the boundary by thin
// wrapper methods, not modeled here.
package mirror

import (
	"fmt"
	"strings"

	"github.com/funvibe/typebridge/internal/element"
)

// Kind tags which of the mirror variants a Type value holds.
type Kind int

const (
	KindPrimitive Kind = iota
	KindNoType
	KindNullType
	KindArray
	KindWildcard
	KindTypeVariable
	KindDeclared
	// KindExecutable is not one of spec.md §3's eight data entities; it is
	// the result type of TypeUtils.AsMemberOf for a method or accessor
	// element (spec.md §4.3.9), and is never produced by TypeProjection.
	KindExecutable
)

// Type is the sum type every legacy mirror variant implements.
type Type interface {
	Kind() Kind
	String() string
}

// PrimitiveKind enumerates the eight built-in primitive kinds.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Byte
	Short
	Int
	Long
	Char
	Float
	Double
)

func (k PrimitiveKind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Char:
		return "char"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// AllPrimitiveKinds lists the eight kinds in a stable order. It is an array
// so that its length is a constant; the projection cache sizes its
// primitive table by it.
var AllPrimitiveKinds = [...]PrimitiveKind{Boolean, Byte, Short, Int, Long, Char, Float, Double}

// PrimitiveType is a leaf mirror for one of the eight primitive kinds.
// Identity is by kind alone (spec.md §3 invariant 2); the projection cache
// in package projection interns one instance per kind per round.
type PrimitiveType struct {
	PKind PrimitiveKind
}

func (p *PrimitiveType) Kind() Kind    { return KindPrimitive }
func (p *PrimitiveType) String() string { return p.PKind.String() }

// NoTypeKind enumerates the three NoType flavors.
type NoTypeKind int

const (
	Void NoTypeKind = iota
	None
	Package
)

func (k NoTypeKind) String() string {
	switch k {
	case Void:
		return "void"
	case None:
		return "none"
	case Package:
		return "package"
	default:
		return fmt.Sprintf("NoTypeKind(%d)", int(k))
	}
}

// NoType is a leaf mirror interned per kind (void/none/package).
type NoType struct {
	NKind NoTypeKind
}

func (n *NoType) Kind() Kind    { return KindNoType }
func (n *NoType) String() string { return n.NKind.String() }

// NullType is the singleton mirror for the null type.
type NullType struct{}

func (n *NullType) Kind() Kind    { return KindNullType }
func (n *NullType) String() string { return "<nulltype>" }

// nullTypeSingleton is the one NullType instance the constructors below
// hand back; NullType carries no data so sharing it is always safe.
var nullTypeSingleton = &NullType{}

// ArrayType is a reference type whose component may itself be any Type.
type ArrayType struct {
	Component Type
}

func (a *ArrayType) Kind() Kind { return KindArray }
func (a *ArrayType) String() string {
	if a.Component == nil {
		return "<arraytype>[]"
	}
	return a.Component.String() + "[]"
}

// WildcardType carries at most one of ExtendsBound/SuperBound; both may be
// nil (an unbounded wildcard).
type WildcardType struct {
	ExtendsBound Type
	SuperBound   Type
}

func (w *WildcardType) Kind() Kind { return KindWildcard }
func (w *WildcardType) String() string {
	switch {
	case w.ExtendsBound != nil:
		return "? extends " + w.ExtendsBound.String()
	case w.SuperBound != nil:
		return "? super " + w.SuperBound.String()
	default:
		return "?"
	}
}

// TypeVariable is a named placeholder bound by a declaration's parameters,
// distinct from a wildcard. Bound is nil for an unbounded variable.
type TypeVariable struct {
	Name  string
	Bound Type
}

func (t *TypeVariable) Kind() Kind    { return KindTypeVariable }
func (t *TypeVariable) String() string { return t.Name }

// DeclaredTypeMirror is a parameterised declared type: an element plus
// either explicit type arguments, an opaque resolved-type snapshot carried
// for later re-projection, or neither (raw). Kind is always KindDeclared
// regardless of what the wrapped element would project to in isolation —
// primitive projection happens only in TypeProjection, never here (spec.md
// §3 invariant 1).
type DeclaredTypeMirror struct {
	Element *element.ClassTypeElement

	// ExplicitArgs, when non-nil, is the authoritative type-argument list.
	ExplicitArgs []Type

	// HasSnapshot/Snapshot carry an opaque oracle type reference so that
	// typeArguments() can materialise arguments lazily (spec.md §4.2) when
	// ExplicitArgs was not supplied directly.
	HasSnapshot bool
	Snapshot    SnapshotResolver
}

// SnapshotResolver materialises a DeclaredTypeMirror's type arguments from
// an opaque resolved-type snapshot. Implementations live in package
// projection, which is the only package that knows how to turn an
// oracle.TypeRef into mirror Types; mirror itself stays oracle-agnostic
// beyond the element package.
type SnapshotResolver interface {
	// Arguments returns the resolved type arguments of the snapshot, each
	// already projected to a mirror.Type (type-parameter arguments are
	// wrapped as TypeVariables).
	Arguments() []Type
}

func (d *DeclaredTypeMirror) Kind() Kind { return KindDeclared }

func (d *DeclaredTypeMirror) String() string {
	if d.Element == nil {
		return "<declared>"
	}
	args := d.TypeArguments()
	if len(args) == 0 {
		return string(d.Element.QualifiedName())
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return string(d.Element.QualifiedName()) + "<" + strings.Join(parts, ", ") + ">"
}

// IsRaw reports whether d carries no explicit arguments and no resolved
// snapshot (spec.md §3 invariant 3).
func (d *DeclaredTypeMirror) IsRaw() bool {
	return d.ExplicitArgs == nil && !d.HasSnapshot
}

// TypeArguments implements the §4.2 contract: the explicit list if
// provided; else the resolved snapshot's arguments; else, for a raw type,
// the element's own type parameters wrapped as TypeVariables.
func (d *DeclaredTypeMirror) TypeArguments() []Type {
	if d.ExplicitArgs != nil {
		return d.ExplicitArgs
	}
	if d.HasSnapshot && d.Snapshot != nil {
		return d.Snapshot.Arguments()
	}
	return rawTypeParamsAsVariables(d.Element)
}

func rawTypeParamsAsVariables(el *element.ClassTypeElement) []Type {
	if el == nil {
		return nil
	}
	params := el.TypeParams()
	if len(params) == 0 {
		return nil
	}
	// Bounds are left unattached here: projecting a TypeParamRef's Bound
	// into a mirror.Type needs a Projector, which this package deliberately
	// does not depend on. Callers that need bounds on a raw declaration's
	// parameters consult the oracle directly (typeutils.directSupertypes
	// does this).
	vars := make([]Type, len(params))
	for i, p := range params {
		vars[i] = NewTypeVariable(p.Name, nil)
	}
	return vars
}

// ExecutableType is the result of TypeUtils.AsMemberOf applied to a method
// or accessor element (spec.md §4.3.9); it is not one of the eight entities
// in spec.md §3.
type ExecutableType struct {
	Params []Type
	Return Type
}

func (e *ExecutableType) Kind() Kind { return KindExecutable }
func (e *ExecutableType) String() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if e.Return != nil {
		ret = e.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}

// Constructors (spec.md §4.3.8). These build bare mirror values; interning
// of primitives/no-types is the projection cache's job, not this
// package's — a TypeUtils caller that wants the cached instance should ask
// projection, not construct its own.

func NewPrimitiveType(k PrimitiveKind) *PrimitiveType { return &PrimitiveType{PKind: k} }

func NewNoType(k NoTypeKind) *NoType { return &NoType{NKind: k} }

func NewNullType() *NullType { return nullTypeSingleton }

func NewArrayType(component Type) *ArrayType { return &ArrayType{Component: component} }

func NewWildcardType(extendsBound, superBound Type) *WildcardType {
	return &WildcardType{ExtendsBound: extendsBound, SuperBound: superBound}
}

func NewTypeVariable(name string, bound Type) *TypeVariable {
	return &TypeVariable{Name: name, Bound: bound}
}

// NewDeclaredType builds a DeclaredTypeMirror from explicit arguments; with
// zero args it produces the raw form.
func NewDeclaredType(el *element.ClassTypeElement, args ...Type) *DeclaredTypeMirror {
	d := &DeclaredTypeMirror{Element: el}
	if len(args) > 0 {
		d.ExplicitArgs = args
	}
	return d
}
