package fake_test

import (
	"testing"

	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/fake"
)

func TestNewRegistersBuiltins(t *testing.T) {
	o := fake.New()
	for _, kind := range []oracle.BuiltinKind{
		oracle.BuiltinUnit, oracle.BuiltinBoolean, oracle.BuiltinByte, oracle.BuiltinShort,
		oracle.BuiltinInt, oracle.BuiltinLong, oracle.BuiltinChar, oracle.BuiltinFloat, oracle.BuiltinDouble,
	} {
		if o.Builtin(kind) == nil {
			t.Errorf("builtin kind %v should be registered", kind)
		}
	}
}

func TestLookupByQualifiedNameUnknownReturnsFalse(t *testing.T) {
	o := fake.New()
	if _, ok := o.LookupByQualifiedName("nonexistent.Type"); ok {
		t.Errorf("expected lookup of an undeclared name to fail")
	}
}

func TestIsRawAssignableWalksTransitiveSupertypes(t *testing.T) {
	o := fake.NewWorkedExample()
	arrayList, _ := o.LookupByQualifiedName("java.util.ArrayList")
	object, _ := o.LookupByQualifiedName("java.lang.Object")
	list, _ := o.LookupByQualifiedName("java.util.List")

	if !o.IsRawAssignable(fake.Ref(arrayList), fake.Ref(arrayList)) {
		t.Errorf("a declaration should be raw-assignable to itself")
	}
	if !o.IsRawAssignable(fake.Ref(arrayList), fake.Ref(object)) {
		t.Errorf("ArrayList should be raw-assignable to Object (transitively)")
	}
	if !o.IsRawAssignable(fake.Ref(arrayList), fake.Ref(list)) {
		t.Errorf("ArrayList should be raw-assignable to List")
	}
	if o.IsRawAssignable(fake.Ref(object), fake.Ref(list)) {
		t.Errorf("Object should not be raw-assignable to List")
	}
}

func TestStarProjectSubstitutesUnboundedParamsWithObject(t *testing.T) {
	o := fake.NewWorkedExample()
	list, _ := o.LookupByQualifiedName("java.util.List")
	object, _ := o.LookupByQualifiedName("java.lang.Object")

	star := o.StarProject(list)
	if len(star.Args) != 1 {
		t.Fatalf("expected one star-projected argument for List<E>, got %d", len(star.Args))
	}
	if star.Args[0].Decl.QualifiedName() != object.QualifiedName() {
		t.Errorf("unbounded E should star-project to Object, got %s", star.Args[0].Decl.QualifiedName())
	}
}

func TestEnclosedMembersReturnsDeclaredMembers(t *testing.T) {
	o := fake.NewWorkedExample()
	arrayList, _ := o.LookupByQualifiedName("java.util.ArrayList")
	members := o.EnclosedMembers(arrayList)
	if len(members) != 3 {
		t.Fatalf("expected 3 members on ArrayList, got %d", len(members))
	}
	names := map[string]bool{}
	for _, m := range members {
		names[m.Name] = true
	}
	for _, want := range []string{"get", "add", "size"} {
		if !names[want] {
			t.Errorf("expected a member named %q", want)
		}
	}
}

func TestNestedElementsReturnsRepeatableContainer(t *testing.T) {
	o := fake.NewWorkedExample()
	mapping, _ := o.LookupByQualifiedName("bridge.example.Mapping")
	nested := o.NestedElements(mapping)
	if len(nested) != 1 {
		t.Fatalf("expected 1 nested declaration, got %d", len(nested))
	}
	if nested[0].QualifiedName() != "bridge.example.Mapping.Container" {
		t.Errorf("unexpected nested declaration %s", nested[0].QualifiedName())
	}
}

func TestMustInfoPanicsOnForeignDeclaration(t *testing.T) {
	o := fake.New()
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic when passing a declaration the fake oracle did not hand out")
		}
	}()
	o.DirectSupertypes(foreignDecl{})
}

type foreignDecl struct{}

func (foreignDecl) QualifiedName() oracle.QualifiedName { return "foreign" }
func (foreignDecl) Kind() oracle.DeclKind               { return oracle.DeclClass }
