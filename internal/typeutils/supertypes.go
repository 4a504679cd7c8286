package typeutils

import (
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
)

// DirectSupertypes implements spec.md §4.3.5: the direct supertypes of a
// declared type, with the declaring element's own type parameters
// substituted by t's actual (or raw-erased) arguments.
func (u *TypeUtils) DirectSupertypes(t *mirror.DeclaredTypeMirror) []mirror.Type {
	if t.Element == nil {
		violation("DirectSupertypes", "declared type mirror with nil element")
	}
	decl := t.Element.RawSymbol()
	params := u.Oracle.TypeParams(decl)
	subst := u.substitutionFor(params, t)

	refs := u.Oracle.DirectSupertypes(decl)
	out := make([]mirror.Type, 0, len(refs))
	for _, ref := range refs {
		out = append(out, u.substituteTypeRef(ref, subst))
	}
	return out
}

// substitutionFor builds the map from a declaration's own type-parameter
// names to the actual mirror.Type arguments supplied by t, falling back to
// each parameter's own bound (or Object) when t is raw — spec.md §4.3.5's
// erasure-as-raw-argument rule. A raw t's own TypeArguments() now reports
// its element's type parameters back as TypeVariables (spec.md §4.2), which
// are not actual arguments to substitute with, so raw is checked explicitly
// here rather than inferred from an empty/nil argument list.
func (u *TypeUtils) substitutionFor(params []oracle.TypeParamRef, t *mirror.DeclaredTypeMirror) map[string]mirror.Type {
	if len(params) == 0 {
		return nil
	}
	subst := make(map[string]mirror.Type, len(params))
	var args []mirror.Type
	if !t.IsRaw() {
		args = t.TypeArguments()
	}
	for i, p := range params {
		if i < len(args) && args[i] != nil {
			subst[p.Name] = args[i]
			continue
		}
		if p.Bound != nil {
			subst[p.Name] = u.Projector.Project(*p.Bound)
		} else {
			subst[p.Name] = u.TopClass()
		}
	}
	return subst
}

// substituteTypeRef projects ref, replacing any reference to one of subst's
// type-parameter names with its substituted mirror.Type, and recursing into
// nested type arguments.
func (u *TypeUtils) substituteTypeRef(ref oracle.TypeRef, subst map[string]mirror.Type) mirror.Type {
	if ref.IsTypeParam {
		if v, ok := subst[ref.ParamName]; ok {
			return v
		}
		return mirror.NewTypeVariable(ref.ParamName, nil)
	}
	if len(ref.Args) == 0 {
		return u.Projector.Project(ref)
	}
	args := make([]mirror.Type, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = u.substituteTypeRef(a, subst)
	}
	return u.Projector.ProjectWithArgs(ref.Decl, ref.Nullable, args)
}

// invariantArgsCompatible implements spec.md §4.3.5 rule 2/3: once raw
// assignability between s and t's erasures holds, each of t's type
// arguments must be compatible with the corresponding argument s carries
// for the same declaring element, found by walking s's direct supertypes
// (cycle-guarded). A raw s or t admits unconditionally, matching legacy
// raw-type semantics. When the walk cannot find t's element among s's
// supertypes (a situation the 8-operation Oracle contract does not fully
// rule out), the relation is conservatively admitted and OnAmbiguousAdmit,
// if set, is notified.
func (u *TypeUtils) invariantArgsCompatible(s, t *mirror.DeclaredTypeMirror) bool {
	if s.IsRaw() || t.IsRaw() {
		return true
	}
	found, args, ok := u.findSupertypeWithRawType(s, t.Element.QualifiedName(), make(map[oracle.QualifiedName]bool))
	if !ok {
		if u.OnAmbiguousAdmit != nil {
			u.OnAmbiguousAdmit(s, t)
		}
		return true
	}
	_ = found
	tArgs := t.TypeArguments()
	if len(args) != len(tArgs) {
		return false
	}
	for i := range args {
		if !u.typeArgumentCompatible(args[i], tArgs[i]) {
			return false
		}
	}
	return true
}

// typeArgumentCompatible implements invariant compatibility for a single
// type-argument position: same type always matches; a wildcard argument on
// t's side matches when s's argument satisfies the wildcard's bound.
func (u *TypeUtils) typeArgumentCompatible(sArg, tArg mirror.Type) bool {
	if w, ok := tArg.(*mirror.WildcardType); ok {
		switch {
		case w.ExtendsBound != nil:
			return u.IsSubtype(sArg, w.ExtendsBound)
		case w.SuperBound != nil:
			return u.IsSubtype(w.SuperBound, sArg)
		default:
			return true
		}
	}
	return u.IsSameType(sArg, tArg)
}

// findSupertypeWithRawType walks s's transitive supertypes (including s
// itself) looking for one whose erased element matches target, returning
// its (unerased) type arguments. seen guards against supertype cycles a
// malformed oracle might otherwise loop on forever.
func (u *TypeUtils) findSupertypeWithRawType(s *mirror.DeclaredTypeMirror, target oracle.QualifiedName, seen map[oracle.QualifiedName]bool) (*mirror.DeclaredTypeMirror, []mirror.Type, bool) {
	if s == nil || s.Element == nil {
		return nil, nil, false
	}
	qn := s.Element.QualifiedName()
	if seen[qn] {
		return nil, nil, false
	}
	seen[qn] = true

	if qn == target {
		return s, s.TypeArguments(), true
	}

	for _, sup := range u.DirectSupertypes(s) {
		dsup, ok := sup.(*mirror.DeclaredTypeMirror)
		if !ok {
			continue
		}
		if found, args, ok := u.findSupertypeWithRawType(dsup, target, seen); ok {
			return found, args, true
		}
	}
	return nil, nil, false
}
