package annotation_test

import (
	"testing"

	"github.com/funvibe/typebridge/internal/annotation"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/fake"
	"github.com/funvibe/typebridge/internal/projection"
)

func newTestAdapter(t *testing.T) (*fake.Oracle, *annotation.Adapter) {
	t.Helper()
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())
	return o, annotation.New(p)
}

func TestRepeatableGroupingProducesOneContainer(t *testing.T) {
	o, a := newTestAdapter(t)
	mappingDecl, ok := o.LookupByQualifiedName("bridge.example.Mapping")
	if !ok {
		t.Fatal("bridge.example.Mapping not registered")
	}

	owner := o.Declare("bridge.example.Owner", oracle.DeclClass)
	o.SetSupertypes(owner)
	o.SetAnnotations(owner,
		oracle.RawAnnotation{Type: mappingDecl, Attrs: []oracle.RawAnnotationAttr{
			{Name: "from", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "a"}},
			{Name: "to", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "b"}},
		}},
		oracle.RawAnnotation{Type: mappingDecl, Attrs: []oracle.RawAnnotationAttr{
			{Name: "from", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "c"}},
			{Name: "to", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "d"}},
		}},
	)

	mirrors := a.Group(owner)
	if len(mirrors) != 1 {
		t.Fatalf("expected exactly one grouped mirror, got %d", len(mirrors))
	}
	m := mirrors[0]
	if m.Type.QualifiedName() != "bridge.example.Mapping.Container" {
		t.Errorf("grouped mirror should wrap the synthetic Container, got %s", m.Type.QualifiedName())
	}
	value, ok := m.Get("value")
	if !ok {
		t.Fatalf("container mirror should carry a \"value\" attribute")
	}
	var items []annotation.Value
	value.Visit(annotation.Visitor{Array: func(vs []annotation.Value) { items = vs }})
	if len(items) != 2 {
		t.Fatalf("container's value should list both instances, got %d", len(items))
	}
}

func TestSingleInstanceIsNotGrouped(t *testing.T) {
	o, a := newTestAdapter(t)
	mappingDecl, _ := o.LookupByQualifiedName("bridge.example.Mapping")

	owner := o.Declare("bridge.example.SoloOwner", oracle.DeclClass)
	o.SetSupertypes(owner)
	o.SetAnnotations(owner, oracle.RawAnnotation{Type: mappingDecl, Attrs: []oracle.RawAnnotationAttr{
		{Name: "from", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "x"}},
	}})

	mirrors := a.Group(owner)
	if len(mirrors) != 1 {
		t.Fatalf("expected one mirror, got %d", len(mirrors))
	}
	if mirrors[0].Type.QualifiedName() != "bridge.example.Mapping" {
		t.Errorf("a single instance should stay ungrouped, got %s", mirrors[0].Type.QualifiedName())
	}
}

func TestRepeatedAnnotationWithUnrelatedNestedClassIsNotGrouped(t *testing.T) {
	o, a := newTestAdapter(t)

	stray := o.Declare("bridge.example.Stray", oracle.DeclAnnotation)
	o.SetSupertypes(stray)
	unrelated := o.Declare("bridge.example.Stray.Helper", oracle.DeclClass)
	o.SetSupertypes(unrelated)
	o.SetNested(stray, unrelated)

	owner := o.Declare("bridge.example.StrayOwner", oracle.DeclClass)
	o.SetSupertypes(owner)
	o.SetAnnotations(owner,
		oracle.RawAnnotation{Type: stray},
		oracle.RawAnnotation{Type: stray},
	)

	mirrors := a.Group(owner)
	if len(mirrors) != 2 {
		t.Fatalf("expected both instances ungrouped rather than the unrelated nested class adopted as a container, got %d mirrors", len(mirrors))
	}
	for _, m := range mirrors {
		if m.Type.QualifiedName() != "bridge.example.Stray" {
			t.Errorf("expected an ungrouped bridge.example.Stray mirror, got %s", m.Type.QualifiedName())
		}
	}
}

func TestLegacyRepeatableMetaResolvesContainerByArgument(t *testing.T) {
	o, a := newTestAdapter(t)

	container := o.Declare("bridge.example.Tags.List", oracle.DeclAnnotation)
	o.SetSupertypes(container)

	repeatableMeta := o.Declare("java.lang.annotation.Repeatable", oracle.DeclAnnotation)
	o.SetSupertypes(repeatableMeta)

	tags := o.Declare("bridge.example.Tags", oracle.DeclAnnotation)
	o.SetSupertypes(tags)
	o.SetAnnotations(tags, oracle.RawAnnotation{
		Type: repeatableMeta,
		Attrs: []oracle.RawAnnotationAttr{
			{Name: "value", Value: oracle.AnnotationArg{Kind: oracle.ArgClass, Class: oracle.TypeRef{Decl: container}}},
		},
	})

	owner := o.Declare("bridge.example.TagsOwner", oracle.DeclClass)
	o.SetSupertypes(owner)
	o.SetAnnotations(owner,
		oracle.RawAnnotation{Type: tags, Attrs: []oracle.RawAnnotationAttr{{Name: "name", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "a"}}}},
		oracle.RawAnnotation{Type: tags, Attrs: []oracle.RawAnnotationAttr{{Name: "name", Value: oracle.AnnotationArg{Kind: oracle.ArgString, Str: "b"}}}},
	)

	mirrors := a.Group(owner)
	if len(mirrors) != 1 {
		t.Fatalf("expected exactly one grouped mirror, got %d", len(mirrors))
	}
	if mirrors[0].Type.QualifiedName() != "bridge.example.Tags.List" {
		t.Errorf("expected the legacy meta's named container, got %s", mirrors[0].Type.QualifiedName())
	}
	value, ok := mirrors[0].Get("value")
	if !ok {
		t.Fatalf("container mirror should carry a \"value\" attribute")
	}
	var items []annotation.Value
	value.Visit(annotation.Visitor{Array: func(vs []annotation.Value) { items = vs }})
	if len(items) != 2 {
		t.Fatalf("container's value should list both instances, got %d", len(items))
	}
}

func TestAnnotationValueListWrapsItems(t *testing.T) {
	o, a := newTestAdapter(t)
	mappingDecl, _ := o.LookupByQualifiedName("bridge.example.Mapping")
	raw := oracle.RawAnnotation{
		Type: mappingDecl,
		Attrs: []oracle.RawAnnotationAttr{
			{Name: "names", Value: oracle.AnnotationArg{Kind: oracle.ArgList, List: []oracle.AnnotationArg{
				{Kind: oracle.ArgString, Str: "a"},
				{Kind: oracle.ArgString, Str: "b"},
			}}},
		},
	}
	m := a.AdaptMirror(raw)
	v, ok := m.Get("names")
	if !ok {
		t.Fatalf("expected a \"names\" attribute")
	}
	var got []string
	v.Visit(annotation.Visitor{Array: func(vs []annotation.Value) {
		for _, item := range vs {
			item.Visit(annotation.Visitor{String: func(s string) { got = append(got, s) }})
		}
	}})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}
