package typeutils

import (
	"fmt"

	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
)

// ArrayType constructs an array mirror over component (spec.md §4.3.8).
func (u *TypeUtils) ArrayType(component mirror.Type) *mirror.ArrayType {
	if component == nil {
		violation("ArrayType", "nil component")
	}
	return mirror.NewArrayType(component)
}

// WildcardType constructs a wildcard mirror; at most one of extendsBound,
// superBound may be non-nil (spec.md §4.3.8).
func (u *TypeUtils) WildcardType(extendsBound, superBound mirror.Type) *mirror.WildcardType {
	if extendsBound != nil && superBound != nil {
		violation("WildcardType", "wildcard cannot carry both an extends and a super bound")
	}
	return mirror.NewWildcardType(extendsBound, superBound)
}

// NoType returns the interned NoType for k through the bound Projector's
// cache, so callers never bypass interning by constructing one directly.
func (u *TypeUtils) NoType(k mirror.NoTypeKind) *mirror.NoType {
	return u.Projector.Cache.NoType(k)
}

// PrimitiveType returns the interned PrimitiveType for k.
func (u *TypeUtils) PrimitiveType(k mirror.PrimitiveKind) *mirror.PrimitiveType {
	return u.Projector.Cache.Primitive(k)
}

// NullType returns the singleton null-type mirror.
func (u *TypeUtils) NullType() *mirror.NullType {
	return mirror.NewNullType()
}

// AsMemberOf implements spec.md §4.3.9: views member as if it were a member
// of containing, substituting containing's type arguments for the
// declaring element's own type parameters. Dispatch is by element variant
// (spec.md §4.3.9): a nested class-element yields its own declared type; a
// field, enum constant or getter yields its (substituted) declared type; a
// setter yields its (substituted) single parameter type; a method yields an
// ExecutableType of substituted parameter and return types.
func (u *TypeUtils) AsMemberOf(containing *mirror.DeclaredTypeMirror, member any) mirror.Type {
	if containing.Element == nil {
		violation("AsMemberOf", "declared type mirror with nil element")
	}
	decl := containing.Element.RawSymbol()
	params := u.Oracle.TypeParams(decl)
	subst := u.substitutionFor(params, containing)

	switch m := member.(type) {
	case *element.ClassTypeElement:
		return u.asMemberOfClass(m)
	case element.Member:
		return u.asMemberOfMember(m, subst)
	default:
		violation("AsMemberOf", fmt.Sprintf("unsupported element variant %T", member))
		return nil
	}
}

// asMemberOfClass implements the class-element variant: a nested class-like
// element has no generic relationship to containing's own type parameters
// (the oracle model has no outer-class capture), so it is returned as its
// own raw declared type rather than substituted.
func (u *TypeUtils) asMemberOfClass(m *element.ClassTypeElement) mirror.Type {
	return mirror.NewDeclaredType(m)
}

func (u *TypeUtils) asMemberOfMember(member element.Member, subst map[string]mirror.Type) mirror.Type {
	switch member.Kind {
	case element.MemberField, element.MemberAccessorGetter, element.MemberEnumConstant:
		return u.substituteTypeRef(member.DeclaredType, subst)
	case element.MemberAccessorSetter:
		if len(member.Params) != 1 {
			violation("AsMemberOf", fmt.Sprintf("setter %s must declare exactly one parameter", member.Name))
		}
		return u.substituteTypeRef(member.Params[0], subst)
	case element.MemberMethod:
		return u.executableType(member, subst)
	default:
		violation("AsMemberOf", fmt.Sprintf("unsupported member kind %v", member.Kind))
		return nil
	}
}

func (u *TypeUtils) executableType(member element.Member, subst map[string]mirror.Type) *mirror.ExecutableType {
	params := make([]mirror.Type, len(member.Params))
	for i, p := range member.Params {
		params[i] = u.substituteTypeRef(p, subst)
	}
	var ret mirror.Type
	if member.Return.Decl != nil || member.Return.IsTypeParam {
		ret = u.substituteTypeRef(member.Return, subst)
	}
	return &mirror.ExecutableType{Params: params, Return: ret}
}
