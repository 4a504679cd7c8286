package gosource

import (
	"go/types"
	"testing"

	"github.com/funvibe/typebridge/internal/oracle"
)

// newTestOracle builds an Oracle without invoking packages.Load, since
// loading real packages in a unit test would depend on the module cache
// being available; with no packages indexed it holds only the builtins and
// the synthetic root, which is enough to exercise those paths.
func newTestOracle() *Oracle {
	return newOracle()
}

func TestBuiltinsRegistered(t *testing.T) {
	o := newTestOracle()
	cases := map[oracle.BuiltinKind]string{
		oracle.BuiltinBoolean: "bool",
		oracle.BuiltinInt:     "int",
		oracle.BuiltinDouble:  "float64",
	}
	for kind, want := range cases {
		d := o.Builtin(kind)
		if d == nil {
			t.Fatalf("builtin %v not registered", kind)
		}
		if string(d.QualifiedName()) != want {
			t.Errorf("builtin %v: got %q, want %q", kind, d.QualifiedName(), want)
		}
	}
}

func TestLookupRoot(t *testing.T) {
	o := newTestOracle()
	d, ok := o.LookupByQualifiedName(rootName)
	if !ok {
		t.Fatalf("root %q not registered", rootName)
	}
	if d.Kind() != oracle.DeclInterface {
		t.Errorf("root kind = %v, want DeclInterface", d.Kind())
	}
	if len(o.DirectSupertypes(d)) != 0 {
		t.Errorf("root should have no supertypes")
	}
}

func TestIsRawAssignableSameDecl(t *testing.T) {
	o := newTestOracle()
	intDecl := o.Builtin(oracle.BuiltinInt)
	ref := oracle.TypeRef{Decl: intDecl}
	if !o.IsRawAssignable(ref, ref) {
		t.Errorf("a declaration should be raw-assignable to itself")
	}
}

func TestIsRawAssignableToRoot(t *testing.T) {
	o := newTestOracle()
	intDecl := o.Builtin(oracle.BuiltinInt)
	rootDecl, _ := o.LookupByQualifiedName(rootName)
	if !o.IsRawAssignable(oracle.TypeRef{Decl: intDecl}, oracle.TypeRef{Decl: rootDecl}) {
		t.Errorf("everything should be raw-assignable to the synthetic root")
	}
}

func TestBasicRefMapsKinds(t *testing.T) {
	o := newTestOracle()
	ref := o.basicRef(types.Typ[types.Float64])
	if ref.Decl != o.builtins[oracle.BuiltinDouble] {
		t.Errorf("float64 should map to BuiltinDouble")
	}
	ref = o.basicRef(types.Typ[types.String])
	if ref.Decl != o.root || !ref.Nullable {
		t.Errorf("string should map to nullable root, got %+v", ref)
	}
}

func TestTypeRefUnregisteredInterfaceFallsBackToRoot(t *testing.T) {
	o := newTestOracle()
	ref := o.typeRef(types.NewInterfaceType(nil, nil))
	if ref.Decl != o.root {
		t.Errorf("bare interface type should map to the synthetic root")
	}
}
