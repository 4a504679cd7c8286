// Package projection implements the single choke point that maps a
// resolved source type to the appropriate legacy mirror (spec.md §4.1):
// the TypeProjection utility. Every other package that needs to turn an
// oracle.TypeRef into a mirror.Type goes through a Projector rather than
// constructing mirrors directly, so the nullability-to-primitive and
// unit-to-void rules are applied exactly once.
package projection

import (
	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
)

// builtinPrimitives pairs each built-in primitive's oracle handle with its
// mirror.PrimitiveKind, in the order spec.md §3 lists them.
var builtinPrimitives = []struct {
	builtin oracle.BuiltinKind
	kind    mirror.PrimitiveKind
}{
	{oracle.BuiltinBoolean, mirror.Boolean},
	{oracle.BuiltinByte, mirror.Byte},
	{oracle.BuiltinShort, mirror.Short},
	{oracle.BuiltinInt, mirror.Int},
	{oracle.BuiltinLong, mirror.Long},
	{oracle.BuiltinChar, mirror.Char},
	{oracle.BuiltinFloat, mirror.Float},
	{oracle.BuiltinDouble, mirror.Double},
}

// Projector is TypeProjection bound to one oracle and one cache.
type Projector struct {
	Oracle oracle.Oracle
	Cache  *Cache
}

// New builds a Projector over cache, which the caller may use for one round
// or share across rounds (cmd/bridge shares one for the whole process).
func New(o oracle.Oracle, cache *Cache) *Projector {
	return &Projector{Oracle: o, Cache: cache}
}

// Project implements spec.md §4.1's ordered rules.
func (p *Projector) Project(ref oracle.TypeRef) mirror.Type {
	if ref.IsTypeParam {
		return mirror.NewTypeVariable(ref.ParamName, nil)
	}
	decl := ref.Decl
	if decl == nil || !isClassLike(decl.Kind()) {
		return p.Cache.NoType(mirror.None)
	}

	if special, ok := p.projectSpecial(decl, ref.Nullable); ok {
		return special
	}

	return &mirror.DeclaredTypeMirror{
		Element:     p.Element(decl),
		HasSnapshot: true,
		Snapshot:    &snapshot{p: p, ref: ref},
	}
}

// ProjectWithArgs projects decl the same way Project does, but with an
// already-substituted argument list rather than an oracle.TypeRef's own
// Args — used by typeutils when walking supertypes or computing asMemberOf,
// where type arguments come from a substitution map instead of directly
// from the oracle.
func (p *Projector) ProjectWithArgs(decl oracle.Declaration, nullable bool, args []mirror.Type) mirror.Type {
	if decl == nil || !isClassLike(decl.Kind()) {
		return p.Cache.NoType(mirror.None)
	}
	if special, ok := p.projectSpecial(decl, nullable); ok {
		return special
	}
	dm := &mirror.DeclaredTypeMirror{Element: p.Element(decl)}
	if len(args) > 0 {
		dm.ExplicitArgs = args
	}
	return dm
}

// boxedNames is the qualified name of each primitive kind's boxed class.
var boxedNames = [...]string{
	mirror.Boolean: "java.lang.Boolean", mirror.Byte: "java.lang.Byte", mirror.Short: "java.lang.Short", mirror.Int: "java.lang.Integer",
	mirror.Long: "java.lang.Long", mirror.Char: "java.lang.Character", mirror.Float: "java.lang.Float", mirror.Double: "java.lang.Double",
}

// projectSpecial applies the unit→void, non-nullable-builtin→primitive and
// nullable-builtin→boxed short-circuits shared by Project and
// ProjectWithArgs. A nullable built-in whose boxed class the oracle does not
// declare is left to the ordinary declared-type projection.
func (p *Projector) projectSpecial(decl oracle.Declaration, nullable bool) (mirror.Type, bool) {
	u := p.Oracle.StarProject(decl)
	if unit := p.Oracle.Builtin(oracle.BuiltinUnit); unit != nil && SameDecl(u.Decl, unit) {
		return p.Cache.NoType(mirror.Void), true
	}
	if pk, ok := p.BuiltinPrimitiveKind(decl); ok {
		if !nullable {
			return p.Cache.Primitive(pk), true
		}
		if boxed, found := p.Oracle.LookupByQualifiedName(p.Oracle.QualifiedNameOf(boxedNames[pk])); found {
			return &mirror.DeclaredTypeMirror{Element: p.Element(boxed)}, true
		}
	}
	return nil, false
}

func isClassLike(k oracle.DeclKind) bool {
	switch k {
	case oracle.DeclClass, oracle.DeclInterface, oracle.DeclEnum, oracle.DeclEnumEntry, oracle.DeclAnnotation:
		return true
	default:
		return false
	}
}

// SameDecl compares two declaration handles by qualified name — the only
// valid equality test, since an oracle may hand back a fresh handle value
// on every call.
func SameDecl(a, b oracle.Declaration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.QualifiedName() == b.QualifiedName()
}

// BuiltinPrimitiveKind reports which PrimitiveKind decl corresponds to, if
// it is one of the oracle's eight built-in primitive declarations.
func (p *Projector) BuiltinPrimitiveKind(decl oracle.Declaration) (mirror.PrimitiveKind, bool) {
	for _, bp := range builtinPrimitives {
		if b := p.Oracle.Builtin(bp.builtin); b != nil && SameDecl(b, decl) {
			return bp.kind, true
		}
	}
	return 0, false
}

// Element returns the (cached) ClassTypeElement wrapping decl, discovering
// its nested elements and enclosed members through oracle.MemberOracle when
// the bound oracle implements it.
func (p *Projector) Element(decl oracle.Declaration) *element.ClassTypeElement {
	qn := decl.QualifiedName()
	if el, ok := p.Cache.Element(qn); ok {
		return el
	}

	var nested []*element.ClassTypeElement
	var enclosed []element.Member
	if mo, ok := p.Oracle.(oracle.MemberOracle); ok {
		for _, n := range mo.NestedElements(decl) {
			nested = append(nested, p.Element(n))
		}
		for _, m := range mo.EnclosedMembers(decl) {
			enclosed = append(enclosed, element.Member{
				Name:         m.Name,
				Kind:         m.Kind,
				Decl:         m.Decl,
				DeclaredType: m.DeclaredType,
				Params:       m.Params,
				Return:       m.Return,
			})
		}
	}

	el := element.New(decl, nested, enclosed, p.Oracle.TypeParams(decl))
	p.Cache.PutElement(qn, el)
	return el
}

// snapshot adapts an oracle.TypeRef into a mirror.SnapshotResolver,
// projecting each type argument lazily through the owning Projector.
type snapshot struct {
	p   *Projector
	ref oracle.TypeRef
}

func (s *snapshot) Arguments() []mirror.Type {
	if len(s.ref.Args) == 0 {
		return nil
	}
	args := make([]mirror.Type, len(s.ref.Args))
	for i, a := range s.ref.Args {
		args[i] = s.p.Project(a)
	}
	return args
}
