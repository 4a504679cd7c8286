// Package fake is a hand-built Oracle test double: a small, in-memory
// symbol graph exercising every operation the bridge core depends on,
// without any real source-analysis or protobuf backend wired in. It backs
// the typeutils/annotation/projection test suites and doubles as a worked
// example of how to implement oracle.Oracle and oracle.MemberOracle.
package fake

import (
	"fmt"

	"github.com/funvibe/typebridge/internal/oracle"
)

// decl is the fake's only Declaration implementation: a named, kinded
// node with no other identity than its qualified name.
type decl struct {
	qn   oracle.QualifiedName
	kind oracle.DeclKind
}

func (d *decl) QualifiedName() oracle.QualifiedName { return d.qn }
func (d *decl) Kind() oracle.DeclKind               { return d.kind }

// classInfo holds everything the Oracle interface needs to answer about
// one declared class-like symbol.
type classInfo struct {
	decl        *decl
	typeParams  []oracle.TypeParamRef
	supertypes  []oracle.TypeRef
	annotations []oracle.RawAnnotation
	nested      []oracle.Declaration
	members     []oracle.MemberRef
}

// Oracle is the fake's Oracle + MemberOracle implementation. Zero value is
// not usable; build one with New and populate it with Declare/etc, or use
// NewWorkedExample for a ready-made small hierarchy.
type Oracle struct {
	classes  map[oracle.QualifiedName]*classInfo
	builtins map[oracle.BuiltinKind]*decl
}

// New builds an empty fake Oracle with just the nine built-in declarations
// registered (unit plus the eight primitives).
func New() *Oracle {
	o := &Oracle{
		classes:  make(map[oracle.QualifiedName]*classInfo),
		builtins: make(map[oracle.BuiltinKind]*decl),
	}
	builtinNames := map[oracle.BuiltinKind]string{
		oracle.BuiltinUnit:    "void",
		oracle.BuiltinBoolean: "boolean",
		oracle.BuiltinByte:    "byte",
		oracle.BuiltinShort:   "short",
		oracle.BuiltinInt:     "int",
		oracle.BuiltinLong:    "long",
		oracle.BuiltinChar:    "char",
		oracle.BuiltinFloat:   "float",
		oracle.BuiltinDouble:  "double",
	}
	for kind, name := range builtinNames {
		d := &decl{qn: oracle.QualifiedName(name), kind: oracle.DeclClass}
		o.builtins[kind] = d
		o.classes[d.qn] = &classInfo{decl: d}
	}
	return o
}

// Declare registers a new class-like declaration and returns its handle.
// Supertypes, type params, annotations and members are attached afterward
// through the Set* methods, since they frequently reference the
// declaration being built (self-bounded type parameters, recursive
// annotations).
func (o *Oracle) Declare(qn string, kind oracle.DeclKind) oracle.Declaration {
	d := &decl{qn: oracle.QualifiedName(qn), kind: kind}
	o.classes[d.qn] = &classInfo{decl: d}
	return d
}

// SetTypeParams attaches decl's own generic parameters.
func (o *Oracle) SetTypeParams(target oracle.Declaration, params ...oracle.TypeParamRef) {
	o.mustInfo("SetTypeParams", target).typeParams = params
}

// SetSupertypes attaches decl's direct supertype references.
func (o *Oracle) SetSupertypes(target oracle.Declaration, supers ...oracle.TypeRef) {
	o.mustInfo("SetSupertypes", target).supertypes = supers
}

// SetAnnotations attaches decl's raw annotation instances.
func (o *Oracle) SetAnnotations(target oracle.Declaration, annos ...oracle.RawAnnotation) {
	o.mustInfo("SetAnnotations", target).annotations = annos
}

// SetNested attaches decl's nested class-like elements.
func (o *Oracle) SetNested(target oracle.Declaration, nested ...oracle.Declaration) {
	o.mustInfo("SetNested", target).nested = nested
}

// SetMembers attaches decl's enclosed members.
func (o *Oracle) SetMembers(target oracle.Declaration, members ...oracle.MemberRef) {
	o.mustInfo("SetMembers", target).members = members
}

func (o *Oracle) mustInfo(op string, target oracle.Declaration) *classInfo {
	d, ok := target.(*decl)
	if !ok {
		panic(fmt.Sprintf("fake.%s: not a fake declaration: %v", op, target))
	}
	info, ok := o.classes[d.qn]
	if !ok {
		panic(fmt.Sprintf("fake.%s: unknown declaration %s", op, d.qn))
	}
	return info
}

// Ref builds a non-nullable, argument-free TypeRef for a declared class.
func Ref(d oracle.Declaration) oracle.TypeRef {
	return oracle.TypeRef{Decl: d}
}

// NullableRef builds a nullable, argument-free TypeRef.
func NullableRef(d oracle.Declaration) oracle.TypeRef {
	return oracle.TypeRef{Decl: d, Nullable: true}
}

// RefWithArgs builds a non-nullable TypeRef carrying explicit arguments.
func RefWithArgs(d oracle.Declaration, nullable bool, args ...oracle.TypeRef) oracle.TypeRef {
	return oracle.TypeRef{Decl: d, Nullable: nullable, Args: args}
}

// TypeParamRefTo builds a TypeRef denoting a reference to one of the
// enclosing declaration's own type parameters, as oracle.TypeRef.IsTypeParam
// requires.
func TypeParamRefTo(name string, nullable bool) oracle.TypeRef {
	return oracle.TypeRef{IsTypeParam: true, ParamName: name, Nullable: nullable}
}

// --- oracle.Oracle ---

func (o *Oracle) LookupByQualifiedName(name oracle.QualifiedName) (oracle.Declaration, bool) {
	info, ok := o.classes[name]
	if !ok {
		return nil, false
	}
	return info.decl, true
}

func (o *Oracle) StarProject(d oracle.Declaration) oracle.TypeRef {
	info := o.mustInfo("StarProject", d)
	args := make([]oracle.TypeRef, len(info.typeParams))
	for i, p := range info.typeParams {
		if p.Bound != nil {
			args[i] = *p.Bound
		} else {
			args[i] = oracle.TypeRef{Decl: o.objectDecl()}
		}
	}
	return oracle.TypeRef{Decl: info.decl, Args: args}
}

// IsRawAssignable walks from's transitive raw supertypes looking for to's
// declaration, by qualified name.
func (o *Oracle) IsRawAssignable(from, to oracle.TypeRef) bool {
	if from.Decl == nil || to.Decl == nil {
		return false
	}
	if from.Decl.QualifiedName() == to.Decl.QualifiedName() {
		return true
	}
	seen := make(map[oracle.QualifiedName]bool)
	return o.rawAssignableWalk(from.Decl, to.Decl.QualifiedName(), seen)
}

func (o *Oracle) rawAssignableWalk(d oracle.Declaration, target oracle.QualifiedName, seen map[oracle.QualifiedName]bool) bool {
	qn := d.QualifiedName()
	if seen[qn] {
		return false
	}
	seen[qn] = true
	if qn == target {
		return true
	}
	info, ok := o.classes[qn]
	if !ok {
		return false
	}
	for _, sup := range info.supertypes {
		if sup.Decl == nil {
			continue
		}
		if o.rawAssignableWalk(sup.Decl, target, seen) {
			return true
		}
	}
	return false
}

func (o *Oracle) DirectSupertypes(d oracle.Declaration) []oracle.TypeRef {
	return o.mustInfo("DirectSupertypes", d).supertypes
}

func (o *Oracle) TypeParams(d oracle.Declaration) []oracle.TypeParamRef {
	return o.mustInfo("TypeParams", d).typeParams
}

func (o *Oracle) Annotations(d oracle.Declaration) []oracle.RawAnnotation {
	return o.mustInfo("Annotations", d).annotations
}

func (o *Oracle) Builtin(kind oracle.BuiltinKind) oracle.Declaration {
	d, ok := o.builtins[kind]
	if !ok {
		return nil
	}
	return d
}

func (o *Oracle) QualifiedNameOf(s string) oracle.QualifiedName {
	return oracle.QualifiedName(s)
}

// --- oracle.MemberOracle ---

func (o *Oracle) NestedElements(d oracle.Declaration) []oracle.Declaration {
	return o.mustInfo("NestedElements", d).nested
}

func (o *Oracle) EnclosedMembers(d oracle.Declaration) []oracle.MemberRef {
	return o.mustInfo("EnclosedMembers", d).members
}

func (o *Oracle) objectDecl() oracle.Declaration {
	info, ok := o.classes[oracle.QualifiedName("java.lang.Object")]
	if !ok {
		panic("fake: java.lang.Object not registered; call NewWorkedExample or declare it yourself")
	}
	return info.decl
}
