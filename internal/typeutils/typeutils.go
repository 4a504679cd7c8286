// Package typeutils implements the TypeUtils projection service of
// spec.md §4.3: same-type, subtype, assignability, erasure, boxing,
// direct-supertypes with substitution, declared-type construction,
// boxed/unboxed class lookup and subsignature. It is the only package that
// compares or relates mirror.Type values — mirror itself stays a plain
// tagged sum, element stays a plain symbol wrapper.
package typeutils

import (
	"fmt"

	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/projection"
)

const (
	topClassName     = "java.lang.Object"
	cloneableName    = "java.lang.Cloneable"
	serializableName = "java.io.Serializable"
)

// boxedClassNames is the fixed bidirectional mapping between the eight
// primitive kinds and their canonical boxed class names (spec.md §4.3.4).
var boxedClassNames = map[mirror.PrimitiveKind]string{
	mirror.Boolean: "java.lang.Boolean",
	mirror.Byte:    "java.lang.Byte",
	mirror.Short:   "java.lang.Short",
	mirror.Int:     "java.lang.Integer",
	mirror.Long:    "java.lang.Long",
	mirror.Char:    "java.lang.Character",
	mirror.Float:   "java.lang.Float",
	mirror.Double:  "java.lang.Double",
}

// AmbiguityObserver is invoked whenever invariant type-argument
// compatibility conservatively admits a relation after a supertype walk
// fails to find an expected element (spec.md §9's diagnostic hook).
type AmbiguityObserver func(s, t *mirror.DeclaredTypeMirror)

// TypeUtils is the projection service, bound to one oracle and one
// Projector (and therefore one round-scoped or process-scoped Cache).
type TypeUtils struct {
	Oracle    oracle.Oracle
	Projector *projection.Projector

	// OnAmbiguousAdmit, when set, is called in place of silently admitting
	// a relation per spec.md §4.3.5 rule 3 / §9's open question.
	OnAmbiguousAdmit AmbiguityObserver
}

// New builds a TypeUtils.
func New(o oracle.Oracle, p *projection.Projector) *TypeUtils {
	return &TypeUtils{Oracle: o, Projector: p}
}

func violation(op, detail string) {
	bridgeerr.Panic(bridgeerr.NewContractViolationError(op, detail))
}

// IsSameType implements spec.md §4.3.1.
func (u *TypeUtils) IsSameType(a, b mirror.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case *mirror.PrimitiveType:
		return at.PKind == b.(*mirror.PrimitiveType).PKind
	case *mirror.NoType:
		return at.NKind == b.(*mirror.NoType).NKind
	case *mirror.NullType:
		return true
	case *mirror.ArrayType:
		return u.IsSameType(at.Component, b.(*mirror.ArrayType).Component)
	case *mirror.WildcardType:
		bt := b.(*mirror.WildcardType)
		return u.sameOptional(at.ExtendsBound, bt.ExtendsBound) && u.sameOptional(at.SuperBound, bt.SuperBound)
	case *mirror.TypeVariable:
		return at.Name == b.(*mirror.TypeVariable).Name
	case *mirror.DeclaredTypeMirror:
		return u.sameDeclared(at, b.(*mirror.DeclaredTypeMirror))
	case *mirror.ExecutableType:
		return u.sameExecutable(at, b.(*mirror.ExecutableType))
	default:
		violation("IsSameType", fmt.Sprintf("unsupported mirror variant %T", a))
		return false
	}
}

func (u *TypeUtils) sameOptional(a, b mirror.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return u.IsSameType(a, b)
}

func (u *TypeUtils) sameDeclared(a, b *mirror.DeclaredTypeMirror) bool {
	if a.Element == nil || b.Element == nil {
		violation("IsSameType", "declared type mirror with nil element")
	}
	if a.Element.QualifiedName() != b.Element.QualifiedName() {
		return false
	}
	aArgs, bArgs := a.TypeArguments(), b.TypeArguments()
	if len(aArgs) != len(bArgs) {
		return false
	}
	for i := range aArgs {
		if !u.IsSameType(aArgs[i], bArgs[i]) {
			return false
		}
	}
	return true
}

func (u *TypeUtils) sameExecutable(a, b *mirror.ExecutableType) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !u.IsSameType(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return u.sameOptional(a.Return, b.Return)
}

// IsSubtype implements spec.md §4.3.2.
func (u *TypeUtils) IsSubtype(a, b mirror.Type) bool {
	if u.IsSameType(a, b) {
		return true
	}
	switch at := a.(type) {
	case *mirror.NoType, *mirror.PrimitiveType:
		return false
	case *mirror.NullType:
		switch b.(type) {
		case *mirror.ArrayType, *mirror.DeclaredTypeMirror, *mirror.TypeVariable:
			return true
		default:
			return false
		}
	case *mirror.ArrayType:
		return u.arraySubtype(at, b)
	case *mirror.DeclaredTypeMirror:
		if _, isArray := b.(*mirror.ArrayType); isArray {
			return false
		}
		bt, ok := b.(*mirror.DeclaredTypeMirror)
		if !ok {
			return false
		}
		return u.declaredSubtype(at, bt)
	case *mirror.TypeVariable:
		bound := at.Bound
		if bound == nil {
			bound = u.TopClass()
		}
		return u.IsSubtype(bound, b)
	default:
		violation("IsSubtype", fmt.Sprintf("unsupported mirror variant %T", a))
		return false
	}
}

func (u *TypeUtils) arraySubtype(a *mirror.ArrayType, b mirror.Type) bool {
	switch bt := b.(type) {
	case *mirror.ArrayType:
		_, aPrim := a.Component.(*mirror.PrimitiveType)
		_, bPrim := bt.Component.(*mirror.PrimitiveType)
		if aPrim || bPrim {
			return u.IsSameType(a.Component, bt.Component)
		}
		return u.IsSubtype(a.Component, bt.Component)
	case *mirror.DeclaredTypeMirror:
		if bt.Element == nil {
			return false
		}
		qn := string(bt.Element.QualifiedName())
		return qn == topClassName || qn == cloneableName || qn == serializableName
	default:
		return false
	}
}

func (u *TypeUtils) declaredSubtype(a, b *mirror.DeclaredTypeMirror) bool {
	if a.Element == nil || b.Element == nil {
		violation("IsSubtype", "declared type mirror with nil element")
	}
	aStar := u.Oracle.StarProject(a.Element.RawSymbol())
	bStar := u.Oracle.StarProject(b.Element.RawSymbol())
	if !u.Oracle.IsRawAssignable(aStar, bStar) {
		return false
	}
	return u.invariantArgsCompatible(a, b)
}

// IsAssignable implements spec.md §4.3.3.
func (u *TypeUtils) IsAssignable(a, b mirror.Type) bool {
	if at, ok := a.(*mirror.PrimitiveType); ok {
		if bt, ok := b.(*mirror.DeclaredTypeMirror); ok {
			boxedName, known := boxedClassNames[at.PKind]
			return known && bt.Element != nil && string(bt.Element.QualifiedName()) == boxedName
		}
	}
	if at, ok := a.(*mirror.DeclaredTypeMirror); ok {
		if bt, ok := b.(*mirror.PrimitiveType); ok {
			boxedName, known := boxedClassNames[bt.PKind]
			return known && at.Element != nil && string(at.Element.QualifiedName()) == boxedName
		}
		if bt, ok := b.(*mirror.DeclaredTypeMirror); ok {
			if at.Element == nil || bt.Element == nil {
				violation("IsAssignable", "declared type mirror with nil element")
			}
			aStar := u.Oracle.StarProject(at.Element.RawSymbol())
			bStar := u.Oracle.StarProject(bt.Element.RawSymbol())
			if !u.Oracle.IsRawAssignable(aStar, bStar) {
				return false
			}
			return u.invariantArgsCompatible(at, bt)
		}
	}
	return u.IsSubtype(a, b)
}

// TopClass returns the declared mirror for java.lang.Object, used as the
// implicit bound of unbounded type variables and wildcards.
func (u *TypeUtils) TopClass() *mirror.DeclaredTypeMirror {
	decl, ok := u.Oracle.LookupByQualifiedName(u.Oracle.QualifiedNameOf(topClassName))
	if !ok {
		bridgeerr.Panic(bridgeerr.NewMissingSymbolError("TopClass", topClassName))
	}
	return mirror.NewDeclaredType(u.Projector.Element(decl))
}

// DeclaredType constructs a DeclaredTypeMirror (spec.md §4.3.8), rejecting
// elements that do not wrap a class-like declaration.
func (u *TypeUtils) DeclaredType(el *element.ClassTypeElement, args ...mirror.Type) *mirror.DeclaredTypeMirror {
	if el == nil {
		violation("DeclaredType", "nil element")
	}
	switch el.Kind() {
	case oracle.DeclClass, oracle.DeclInterface, oracle.DeclEnum, oracle.DeclEnumEntry, oracle.DeclAnnotation:
	default:
		violation("DeclaredType", fmt.Sprintf("non-class element %s (%v)", el.QualifiedName(), el.Kind()))
	}
	return mirror.NewDeclaredType(el, args...)
}
