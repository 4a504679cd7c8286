package bridgeerr_test

import (
	"testing"

	"github.com/funvibe/typebridge/internal/bridgeerr"
)

func TestContractViolationErrorMessage(t *testing.T) {
	err := bridgeerr.NewContractViolationError("IsSameType", "unknown mirror kind 9")
	want := "contract violation in IsSameType: unknown mirror kind 9"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestMissingSymbolErrorMessage(t *testing.T) {
	err := bridgeerr.NewMissingSymbolError("BoxedClass", "java.lang.Integer")
	want := "missing symbol in BoxedClass: java.lang.Integer"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestPanicRaisesTheGivenError(t *testing.T) {
	target := bridgeerr.NewContractViolationError("Erasure", "nil type")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Panic to panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected the recovered value to be an error, got %T", r)
		}
		if err != error(target) {
			t.Errorf("recovered error does not match the one passed to Panic")
		}
	}()
	bridgeerr.Panic(target)
}
