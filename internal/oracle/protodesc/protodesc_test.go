package protodesc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/protodesc"
)

const testProto = `
syntax = "proto3";
package bridge.test;

message Address {
  string city = 1;
}

message Person {
  string name = 1;
  int64 id = 2;
  repeated Address addresses = 3;
  Status status = 4;
}

enum Status {
  UNKNOWN = 0;
  ACTIVE = 1;
}
`

func loadTestOracle(t *testing.T) *protodesc.Oracle {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.proto")
	if err := os.WriteFile(path, []byte(testProto), 0o644); err != nil {
		t.Fatalf("writing fixture proto: %v", err)
	}
	o, err := protodesc.LoadProtoFiles([]string{dir}, "test.proto")
	if err != nil {
		t.Fatalf("LoadProtoFiles: %v", err)
	}
	return o
}

func TestLoadIndexesMessagesAndEnums(t *testing.T) {
	o := loadTestOracle(t)
	if _, ok := o.LookupByQualifiedName("bridge.test.Person"); !ok {
		t.Errorf("expected bridge.test.Person to be indexed")
	}
	if _, ok := o.LookupByQualifiedName("bridge.test.Status"); !ok {
		t.Errorf("expected bridge.test.Status to be indexed")
	}
}

func TestDirectSupertypesIsSyntheticRoot(t *testing.T) {
	o := loadTestOracle(t)
	person, _ := o.LookupByQualifiedName("bridge.test.Person")
	supers := o.DirectSupertypes(person)
	if len(supers) != 1 {
		t.Fatalf("expected exactly one synthetic supertype, got %d", len(supers))
	}
	if supers[0].Decl.QualifiedName() != "protobridge.Object" {
		t.Errorf("expected protobridge.Object, got %s", supers[0].Decl.QualifiedName())
	}
}

func TestIsRawAssignableToRoot(t *testing.T) {
	o := loadTestOracle(t)
	person, _ := o.LookupByQualifiedName("bridge.test.Person")
	root, _ := o.LookupByQualifiedName("protobridge.Object")
	if !o.IsRawAssignable(oracle.TypeRef{Decl: person}, oracle.TypeRef{Decl: root}) {
		t.Errorf("every message should be raw-assignable to the synthetic root")
	}
}

func TestEnclosedMembersReflectsFieldsWithRepeatedAsList(t *testing.T) {
	o := loadTestOracle(t)
	person, _ := o.LookupByQualifiedName("bridge.test.Person")
	members := o.EnclosedMembers(person)
	byName := map[string]oracle.MemberRef{}
	for _, m := range members {
		byName[m.Name] = m
	}
	if len(members) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(members))
	}

	addresses, ok := byName["addresses"]
	if !ok {
		t.Fatalf("expected a member named addresses")
	}
	if addresses.DeclaredType.Decl.QualifiedName() != "protobridge.List" {
		t.Errorf("expected repeated field to be boxed as protobridge.List, got %s", addresses.DeclaredType.Decl.QualifiedName())
	}
	if len(addresses.DeclaredType.Args) != 1 || addresses.DeclaredType.Args[0].Decl.QualifiedName() != "bridge.test.Address" {
		t.Errorf("expected the list's type argument to be bridge.test.Address, got %+v", addresses.DeclaredType.Args)
	}

	status, ok := byName["status"]
	if !ok {
		t.Fatalf("expected a member named status")
	}
	if status.DeclaredType.Decl.QualifiedName() != "bridge.test.Status" {
		t.Errorf("expected the status field to reference the Status enum, got %s", status.DeclaredType.Decl.QualifiedName())
	}
}

func TestNestedElementsEmptyForFlatMessage(t *testing.T) {
	o := loadTestOracle(t)
	person, _ := o.LookupByQualifiedName("bridge.test.Person")
	if nested := o.NestedElements(person); len(nested) != 0 {
		t.Errorf("expected no nested elements on a flat message, got %d", len(nested))
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	o := loadTestOracle(t)
	for _, kind := range []oracle.BuiltinKind{
		oracle.BuiltinUnit, oracle.BuiltinBoolean, oracle.BuiltinInt, oracle.BuiltinLong, oracle.BuiltinDouble,
	} {
		if o.Builtin(kind) == nil {
			t.Errorf("builtin kind %v should be registered", kind)
		}
	}
}
