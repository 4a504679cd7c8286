package projection_test

import (
	"testing"

	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/fake"
	"github.com/funvibe/typebridge/internal/projection"
)

func TestProjectNonNullablePrimitiveToPrimitiveType(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	got := p.Project(oracle.TypeRef{Decl: o.Builtin(oracle.BuiltinDouble)})
	pt, ok := got.(*mirror.PrimitiveType)
	if !ok {
		t.Fatalf("expected *mirror.PrimitiveType, got %T", got)
	}
	if pt.PKind != mirror.Double {
		t.Errorf("expected Double, got %v", pt.PKind)
	}
}

func TestProjectNullablePrimitiveToBoxedDeclared(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	got := p.Project(oracle.TypeRef{Decl: o.Builtin(oracle.BuiltinDouble), Nullable: true})
	dt, ok := got.(*mirror.DeclaredTypeMirror)
	if !ok {
		t.Fatalf("expected *mirror.DeclaredTypeMirror, got %T", got)
	}
	if dt.Element.QualifiedName() != "java.lang.Double" {
		t.Errorf("expected java.lang.Double, got %s", dt.Element.QualifiedName())
	}
}

func TestProjectUnitToVoidNoType(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	got := p.Project(oracle.TypeRef{Decl: o.Builtin(oracle.BuiltinUnit)})
	nt, ok := got.(*mirror.NoType)
	if !ok {
		t.Fatalf("expected *mirror.NoType, got %T", got)
	}
	if nt.NKind != mirror.Void {
		t.Errorf("expected Void, got %v", nt.NKind)
	}
}

func TestProjectNilDeclToNoneNoType(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	got := p.Project(oracle.TypeRef{})
	nt, ok := got.(*mirror.NoType)
	if !ok {
		t.Fatalf("expected *mirror.NoType, got %T", got)
	}
	if nt.NKind != mirror.None {
		t.Errorf("expected None, got %v", nt.NKind)
	}
}

func TestProjectTypeParamToTypeVariable(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	got := p.Project(fake.TypeParamRefTo("E", false))
	if _, ok := got.(*mirror.TypeVariable); !ok {
		t.Fatalf("expected *mirror.TypeVariable, got %T", got)
	}
}

func TestCacheInternsPrimitivesByKind(t *testing.T) {
	c := projection.NewCache()
	a := c.Primitive(mirror.Int)
	b := c.Primitive(mirror.Int)
	if a != b {
		t.Errorf("expected the same *PrimitiveType instance for repeated lookups of the same kind")
	}
}

func TestCacheInternsElementsByQualifiedName(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	objectDecl, _ := o.LookupByQualifiedName("java.lang.Object")
	e1 := p.Element(objectDecl)
	e2 := p.Element(objectDecl)
	if e1 != e2 {
		t.Errorf("expected the same *element.ClassTypeElement instance across repeated calls")
	}
}

func TestElementDiscoversMembersThroughMemberOracle(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	arrayListDecl, _ := o.LookupByQualifiedName("java.util.ArrayList")
	el := p.Element(arrayListDecl)
	if len(el.Enclosed()) != 3 {
		t.Fatalf("expected 3 enclosed members (get/add/size), got %d", len(el.Enclosed()))
	}
}

func TestElementDiscoversNestedClasses(t *testing.T) {
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())

	mappingDecl, _ := o.LookupByQualifiedName("bridge.example.Mapping")
	el := p.Element(mappingDecl)
	if len(el.Nested()) != 1 {
		t.Fatalf("expected 1 nested element (the synthetic Container), got %d", len(el.Nested()))
	}
	if el.Nested()[0].QualifiedName() != "bridge.example.Mapping.Container" {
		t.Errorf("unexpected nested element %s", el.Nested()[0].QualifiedName())
	}
}
