// Package element wraps oracle declarations as the narrow, symbol-wrapping
// boilerplate spec.md calls for: a class-like element plus its members. It
// never imports the mirror package — member types are projected into mirror
// types on demand by typeutils, keeping element a thin, type-free layer
// over the oracle.
package element

import "github.com/funvibe/typebridge/internal/oracle"

// Kind mirrors oracle.DeclKind for a class-like element.
type Kind = oracle.DeclKind

// MemberKind classifies an enclosed member of a ClassTypeElement. It is an
// alias of oracle.MemberRefKind so oracle.MemberRef values translate here
// without a parallel enum.
type MemberKind = oracle.MemberRefKind

const (
	MemberField          = oracle.MemberField
	MemberMethod         = oracle.MemberMethod
	MemberAccessorGetter = oracle.MemberAccessorGetter
	MemberAccessorSetter = oracle.MemberAccessorSetter
	MemberEnumConstant   = oracle.MemberEnumConstant
)

// Member is a narrow wrapper around one enclosed declaration: a field,
// method, accessor or enum constant. DeclaredType/Params/Return carry raw
// oracle.TypeRef values; turning them into mirror.Type is typeutils'
// asMemberOf job, not this package's.
type Member struct {
	Name         string
	Kind         MemberKind
	Decl         oracle.Declaration
	DeclaredType oracle.TypeRef // valid for MemberField, MemberAccessorGetter/Setter, MemberEnumConstant
	Params       []oracle.TypeRef
	Return       oracle.TypeRef
}

// ClassTypeElement is the legacy-model's element wrapper for a class,
// interface, enum, enum-entry or annotation-type declaration.
type ClassTypeElement struct {
	decl       oracle.Declaration
	kind       Kind
	nested     []*ClassTypeElement
	enclosed   []Member
	typeParams []oracle.TypeParamRef
}

// New wraps decl as a ClassTypeElement. nested, enclosed and typeParams are
// supplied by the caller (typically a projection or oracle-adapter helper)
// since discovering them is oracle-specific.
func New(decl oracle.Declaration, nested []*ClassTypeElement, enclosed []Member, typeParams []oracle.TypeParamRef) *ClassTypeElement {
	return &ClassTypeElement{decl: decl, kind: decl.Kind(), nested: nested, enclosed: enclosed, typeParams: typeParams}
}

// QualifiedName returns the element's fully qualified name.
func (e *ClassTypeElement) QualifiedName() oracle.QualifiedName { return e.decl.QualifiedName() }

// Kind returns the element's declaration kind.
func (e *ClassTypeElement) Kind() Kind { return e.kind }

// Nested returns the element's nested class-like elements, in declaration
// order.
func (e *ClassTypeElement) Nested() []*ClassTypeElement { return e.nested }

// Enclosed returns the element's enclosed members, in declaration order.
func (e *ClassTypeElement) Enclosed() []Member { return e.enclosed }

// TypeParams returns the element's own generic parameters, in declaration
// order, as reported by the oracle at discovery time.
func (e *ClassTypeElement) TypeParams() []oracle.TypeParamRef { return e.typeParams }

// RawSymbol returns the underlying oracle declaration handle. Mirrors do
// not own it; it is borrowed for the lifetime of the processing round.
func (e *ClassTypeElement) RawSymbol() oracle.Declaration { return e.decl }

// Equals compares two elements by qualified name, per spec.md §3's identity
// rule (never by the oracle's own handle identity).
func (e *ClassTypeElement) Equals(other *ClassTypeElement) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.QualifiedName() == other.QualifiedName()
}

// FindNested looks up a direct nested element by simple name suffix, used
// by the repeatable-annotation grouper to resolve an implicit "Container"
// nested class.
func (e *ClassTypeElement) FindNested(simpleName string) (*ClassTypeElement, bool) {
	for _, n := range e.nested {
		qn := string(n.QualifiedName())
		if qn == simpleName || hasSuffix(qn, "."+simpleName) {
			return n, true
		}
	}
	return nil, false
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
