package typeutils

import (
	"fmt"

	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/mirror"
)

// boxedKindByName is the reverse of boxedClassNames, built once.
var boxedKindByName = func() map[string]mirror.PrimitiveKind {
	m := make(map[string]mirror.PrimitiveKind, len(boxedClassNames))
	for k, name := range boxedClassNames {
		m[name] = k
	}
	return m
}()

// Erasure implements spec.md §4.3.6: a declared type erases to its raw
// form, an array's component erases recursively, a type variable erases to
// the erasure of its (first) bound or to Object when unbounded, a wildcard
// erases to the erasure of its extends bound or to Object when it has none,
// and every other variant erases to itself.
func (u *TypeUtils) Erasure(t mirror.Type) mirror.Type {
	switch tt := t.(type) {
	case *mirror.DeclaredTypeMirror:
		if tt.Element == nil {
			violation("Erasure", "declared type mirror with nil element")
		}
		return mirror.NewDeclaredType(tt.Element)
	case *mirror.ArrayType:
		return mirror.NewArrayType(u.Erasure(tt.Component))
	case *mirror.TypeVariable:
		if tt.Bound != nil {
			return u.Erasure(tt.Bound)
		}
		return u.TopClass()
	case *mirror.WildcardType:
		switch {
		case tt.ExtendsBound != nil:
			return u.Erasure(tt.ExtendsBound)
		default:
			return u.TopClass()
		}
	default:
		return t
	}
}

// BoxedClass implements spec.md §4.3.4: maps a primitive kind to its
// canonical wrapper declared type.
func (u *TypeUtils) BoxedClass(k mirror.PrimitiveKind) *mirror.DeclaredTypeMirror {
	name, ok := boxedClassNames[k]
	if !ok {
		violation("BoxedClass", fmt.Sprintf("unknown primitive kind %v", k))
	}
	decl, ok := u.Oracle.LookupByQualifiedName(u.Oracle.QualifiedNameOf(name))
	if !ok {
		bridgeerr.Panic(bridgeerr.NewMissingSymbolError("BoxedClass", name))
	}
	return mirror.NewDeclaredType(u.Projector.Element(decl))
}

// UnboxedType implements spec.md §4.3.4's inverse direction: a declared
// type naming one of the eight wrapper classes unboxes to its primitive;
// any other declared type is a contract violation, per spec.md's note that
// unboxedType is only ever called on a type already known to be boxed.
func (u *TypeUtils) UnboxedType(t mirror.Type) *mirror.PrimitiveType {
	dt, ok := t.(*mirror.DeclaredTypeMirror)
	if !ok || dt.Element == nil {
		violation("UnboxedType", fmt.Sprintf("%v is not a declared type", t))
	}
	k, ok := boxedKindByName[string(dt.Element.QualifiedName())]
	if !ok {
		violation("UnboxedType", fmt.Sprintf("%s is not a boxed primitive wrapper", dt.Element.QualifiedName()))
	}
	return mirror.NewPrimitiveType(k)
}

// IsSubsignature implements spec.md §4.3.7: a has the same arity as b, and
// either a's parameters are all same-type as b's own (unerased) parameters,
// or a's parameters are all same-type as the erasure of b's parameters —
// the asymmetric rule that lets a raw override remain subsignature-
// compatible with the generic method it overrides (return type does not
// participate, per the covariant-return rule this bridge never needs to
// check independently).
func (u *TypeUtils) IsSubsignature(a, b *mirror.ExecutableType) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	sameAsB, sameAsErasedB := true, true
	for i := range a.Params {
		if !u.IsSameType(a.Params[i], b.Params[i]) {
			sameAsB = false
		}
		if !u.IsSameType(a.Params[i], u.Erasure(b.Params[i])) {
			sameAsErasedB = false
		}
	}
	return sameAsB || sameAsErasedB
}
