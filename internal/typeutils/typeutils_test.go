package typeutils_test

import (
	"testing"

	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/fake"
	"github.com/funvibe/typebridge/internal/projection"
	"github.com/funvibe/typebridge/internal/typeutils"
)

func newTestUtils(t *testing.T) (*fake.Oracle, *projection.Projector, *typeutils.TypeUtils) {
	t.Helper()
	o := fake.NewWorkedExample()
	p := projection.New(o, projection.NewCache())
	return o, p, typeutils.New(o, p)
}

func TestIsSameTypeReflexive(t *testing.T) {
	_, p, tu := newTestUtils(t)
	intType := p.Project(oracle.TypeRef{Decl: mustBuiltin(t, p, oracle.BuiltinInt)})
	if !tu.IsSameType(intType, intType) {
		t.Errorf("primitive int should be same-type as itself")
	}
}

func TestNullabilityToPrimitive(t *testing.T) {
	o, p, _ := newTestUtils(t)
	intDecl := o.Builtin(oracle.BuiltinInt)

	nonNullable := p.Project(oracle.TypeRef{Decl: intDecl, Nullable: false})
	if _, ok := nonNullable.(*mirror.PrimitiveType); !ok {
		t.Errorf("non-nullable int should project to a primitive, got %T", nonNullable)
	}

	nullable := p.Project(oracle.TypeRef{Decl: intDecl, Nullable: true})
	dt, ok := nullable.(*mirror.DeclaredTypeMirror)
	if !ok {
		t.Fatalf("nullable int should project to a declared type, got %T", nullable)
	}
	if dt.Element.QualifiedName() != "java.lang.Integer" {
		t.Errorf("nullable int should project to java.lang.Integer, got %s", dt.Element.QualifiedName())
	}
}

func TestBoxingRoundTrip(t *testing.T) {
	o, p, tu := newTestUtils(t)
	for _, kind := range []oracle.BuiltinKind{
		oracle.BuiltinBoolean, oracle.BuiltinByte, oracle.BuiltinShort, oracle.BuiltinInt,
		oracle.BuiltinLong, oracle.BuiltinChar, oracle.BuiltinFloat, oracle.BuiltinDouble,
	} {
		primitive := p.Project(oracle.TypeRef{Decl: o.Builtin(kind)})
		boxed := tu.BoxedClass(primitive.(*mirror.PrimitiveType).PKind)
		unboxed := tu.UnboxedType(boxed)
		if !tu.IsSameType(unboxed, primitive) {
			t.Errorf("kind %v: unboxed(boxed(k)) should be same-type as k", kind)
		}
		if !tu.IsAssignable(primitive, boxed) {
			t.Errorf("kind %v: primitive should be assignable to its boxed class", kind)
		}
		if !tu.IsAssignable(boxed, primitive) {
			t.Errorf("kind %v: boxed class should be assignable to its primitive", kind)
		}
	}
}

func TestErasureIdempotentAndDropsArgs(t *testing.T) {
	o, p, tu := newTestUtils(t)
	listDecl, _ := o.LookupByQualifiedName("java.util.List")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	parameterized := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(stringDecl)))

	erased := tu.Erasure(parameterized)
	twiceErased := tu.Erasure(erased)
	if !tu.IsSameType(erased, twiceErased) {
		t.Errorf("erasure should be idempotent")
	}

	dt, ok := erased.(*mirror.DeclaredTypeMirror)
	if !ok {
		t.Fatalf("erasure of a declared type should stay declared, got %T", erased)
	}
	if !dt.IsRaw() {
		t.Errorf("erasure should drop explicit type arguments, leaving a raw declared type")
	}
	// java.util.List declares its own type parameter E (fake.NewWorkedExample
	// registers it via SetTypeParams), so the raw erased type still reports
	// that parameter back as an unbounded TypeVariable rather than no
	// arguments at all.
	args := dt.TypeArguments()
	if len(args) != 1 {
		t.Fatalf("expected the raw erased List to report its own type parameter, got %v", args)
	}
	if tv, ok := args[0].(*mirror.TypeVariable); !ok || tv.Name != "E" {
		t.Errorf("expected a type variable named E, got %v", args[0])
	}
}

func TestArraySubtyping(t *testing.T) {
	_, p, tu := newTestUtils(t)
	stringArr := tu.ArrayType(p.Project(oracle.TypeRef{Decl: mustDecl(t, p, "java.lang.String")}))
	top := tu.TopClass()
	cloneable := p.Project(oracle.TypeRef{Decl: mustDecl(t, p, "java.lang.Cloneable")})
	serializable := p.Project(oracle.TypeRef{Decl: mustDecl(t, p, "java.io.Serializable")})

	if !tu.IsSubtype(stringArr, top) {
		t.Errorf("any array should be a subtype of the top class")
	}
	if !tu.IsSubtype(stringArr, cloneable) {
		t.Errorf("any array should be a subtype of Cloneable")
	}
	if !tu.IsSubtype(stringArr, serializable) {
		t.Errorf("any array should be a subtype of Serializable")
	}
}

func TestPrimitiveArrayInvariance(t *testing.T) {
	o, p, tu := newTestUtils(t)
	intArr := tu.ArrayType(p.Project(oracle.TypeRef{Decl: o.Builtin(oracle.BuiltinInt)}))
	objArr := tu.ArrayType(p.Project(oracle.TypeRef{Decl: mustDecl(t, p, "java.lang.Object")}))
	if tu.IsSubtype(intArr, objArr) {
		t.Errorf("int[] should not be a subtype of Object[]")
	}
}

func TestDirectSupertypesSubstitutesTypeArguments(t *testing.T) {
	o, p, tu := newTestUtils(t)
	arrayListDecl, _ := o.LookupByQualifiedName("java.util.ArrayList")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	arrayListOfString := p.Project(fake.RefWithArgs(arrayListDecl, false, fake.Ref(stringDecl)))

	supers := tu.DirectSupertypes(arrayListOfString.(*mirror.DeclaredTypeMirror))
	var foundList bool
	for _, sup := range supers {
		dt, ok := sup.(*mirror.DeclaredTypeMirror)
		if !ok || dt.Element.QualifiedName() != "java.util.List" {
			continue
		}
		foundList = true
		args := dt.TypeArguments()
		if len(args) != 1 {
			t.Fatalf("List supertype should carry exactly one type argument, got %d", len(args))
		}
		argDT, ok := args[0].(*mirror.DeclaredTypeMirror)
		if !ok || argDT.Element.QualifiedName() != "java.lang.String" {
			t.Errorf("List<E> should substitute E to String, got %+v", args[0])
		}
	}
	if !foundList {
		t.Fatalf("ArrayList<String> should report List<String> as a direct supertype")
	}
}

func TestIsSameTypeDistinguishesTypeArguments(t *testing.T) {
	o, p, tu := newTestUtils(t)
	listDecl, _ := o.LookupByQualifiedName("java.util.List")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	intWrapperDecl, _ := o.LookupByQualifiedName("java.lang.Integer")

	listOfString := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(stringDecl)))
	listOfInteger := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(intWrapperDecl)))

	if tu.IsSameType(listOfString, listOfInteger) {
		t.Errorf("List<String> should not be same-type as List<Integer>")
	}
	if !tu.IsSameType(tu.Erasure(listOfString), tu.Erasure(listOfInteger)) {
		t.Errorf("erased List<String> and List<Integer> should be same-type")
	}
}

func TestAsMemberOfSubstitutesMethodSignature(t *testing.T) {
	o, p, tu := newTestUtils(t)
	arrayListDecl, _ := o.LookupByQualifiedName("java.util.ArrayList")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	arrayListOfString := p.Project(fake.RefWithArgs(arrayListDecl, false, fake.Ref(stringDecl)))

	el := p.Element(arrayListDecl)
	var get element.Member
	for _, m := range el.Enclosed() {
		if m.Name == "get" {
			get = m
		}
	}
	if get.Name == "" {
		t.Fatal("expected ArrayList to enclose a get method")
	}

	result := tu.AsMemberOf(arrayListOfString.(*mirror.DeclaredTypeMirror), get)
	ex, ok := result.(*mirror.ExecutableType)
	if !ok {
		t.Fatalf("expected an ExecutableType for a method, got %T", result)
	}
	if ex.Return == nil {
		t.Fatal("expected get's substituted return type to be non-nil")
	}
	dt, ok := ex.Return.(*mirror.DeclaredTypeMirror)
	if !ok || dt.Element.QualifiedName() != "java.lang.String" {
		t.Errorf("expected get()'s return type to substitute E to String, got %v", ex.Return)
	}
}

func TestAsMemberOfClassReturnsItsOwnRawType(t *testing.T) {
	o, p, tu := newTestUtils(t)
	arrayListDecl, _ := o.LookupByQualifiedName("java.util.ArrayList")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	arrayListOfString := p.Project(fake.RefWithArgs(arrayListDecl, false, fake.Ref(stringDecl)))

	mappingDecl, _ := o.LookupByQualifiedName("bridge.example.Mapping")
	mappingEl := p.Element(mappingDecl)

	result := tu.AsMemberOf(arrayListOfString.(*mirror.DeclaredTypeMirror), mappingEl)
	dt, ok := result.(*mirror.DeclaredTypeMirror)
	if !ok {
		t.Fatalf("expected a DeclaredTypeMirror for a class-element, got %T", result)
	}
	if dt.Element.QualifiedName() != "bridge.example.Mapping" {
		t.Errorf("expected the class-element's own type, got %s", dt.Element.QualifiedName())
	}
	if !dt.IsRaw() {
		t.Errorf("a class-element's own type carries no borrowed arguments from containing")
	}
}

func TestIsSubsignatureRejectsDifferingNonRawParameterizations(t *testing.T) {
	o, p, tu := newTestUtils(t)
	listDecl, _ := o.LookupByQualifiedName("java.util.List")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")
	intWrapperDecl, _ := o.LookupByQualifiedName("java.lang.Integer")

	listOfString := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(stringDecl)))
	listOfInteger := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(intWrapperDecl)))

	m1 := &mirror.ExecutableType{Params: []mirror.Type{listOfInteger}}
	m2 := &mirror.ExecutableType{Params: []mirror.Type{listOfString}}

	// Both erase to raw List, so naively double-erasing both sides would
	// wrongly call these subsignatures; the real rule only erases m2's side.
	if tu.IsSubsignature(m1, m2) {
		t.Errorf("List<Integer> and List<String> parameters should not be subsignature-compatible")
	}
}

func TestIsSubsignatureAcceptsRawOverrideOfGenericMethod(t *testing.T) {
	o, p, tu := newTestUtils(t)
	listDecl, _ := o.LookupByQualifiedName("java.util.List")
	stringDecl, _ := o.LookupByQualifiedName("java.lang.String")

	listOfString := p.Project(fake.RefWithArgs(listDecl, false, fake.Ref(stringDecl)))
	rawList := tu.Erasure(listOfString)

	raw := &mirror.ExecutableType{Params: []mirror.Type{rawList}}
	generic := &mirror.ExecutableType{Params: []mirror.Type{listOfString}}

	if !tu.IsSubsignature(raw, generic) {
		t.Errorf("a raw-parameter override should be a subsignature of the generic method it overrides")
	}
}

func mustBuiltin(t *testing.T, p *projection.Projector, kind oracle.BuiltinKind) oracle.Declaration {
	t.Helper()
	d := p.Oracle.Builtin(kind)
	if d == nil {
		t.Fatalf("builtin %v not registered", kind)
	}
	return d
}

func mustDecl(t *testing.T, p *projection.Projector, qn string) oracle.Declaration {
	t.Helper()
	d, ok := p.Oracle.LookupByQualifiedName(oracle.QualifiedName(qn))
	if !ok {
		t.Fatalf("declaration %s not registered", qn)
	}
	return d
}
