package mlmd_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
)

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b mlmd.Value
		want bool
	}{
		{"same int", mlmd.IntValue(1), mlmd.IntValue(1), true},
		{"different int", mlmd.IntValue(1), mlmd.IntValue(2), false},
		{"same double", mlmd.DoubleValue(0.5), mlmd.DoubleValue(0.5), true},
		{"different double", mlmd.DoubleValue(0.5), mlmd.DoubleValue(0.6), false},
		{"same string", mlmd.StringValue("a"), mlmd.StringValue("a"), true},
		{"different string", mlmd.StringValue("a"), mlmd.StringValue("b"), false},
		{"different type", mlmd.IntValue(1), mlmd.StringValue("1"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Fatalf("%+v.Equal(%+v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	cases := map[mlmd.Kind]string{
		mlmd.KindArtifact:  "ARTIFACT",
		mlmd.KindExecution: "EXECUTION",
		mlmd.KindContext:   "CONTEXT",
		mlmd.Kind(99):      "UNKNOWN",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	cases := map[mlmd.EventType]string{
		mlmd.EventDeclaredOutput: "DECLARED_OUTPUT",
		mlmd.EventDeclaredInput:  "DECLARED_INPUT",
		mlmd.EventInput:          "INPUT",
		mlmd.EventOutput:         "OUTPUT",
		mlmd.EventInternalInput:  "INTERNAL_INPUT",
		mlmd.EventInternalOutput: "INTERNAL_OUTPUT",
		mlmd.EventUnknown:        "UNKNOWN",
	}
	for et, want := range cases {
		if got := et.String(); got != want {
			t.Fatalf("EventType(%d).String() = %q, want %q", et, got, want)
		}
	}
}

func TestCodeOfExtractsCode(t *testing.T) {
	err := mlmd.ErrNotFound("artifact %d", 42)
	if got := mlmd.CodeOf(err); got != mlmd.NotFound {
		t.Fatalf("CodeOf(%v) = %v, want NotFound", err, got)
	}
}

func TestCodeOfNonStoreErrorIsInternal(t *testing.T) {
	if got := mlmd.CodeOf(errors.New("boom")); got != mlmd.Internal {
		t.Fatalf("CodeOf(plain error) = %v, want Internal", got)
	}
}

func TestCodeOfNilIsOK(t *testing.T) {
	if got := mlmd.CodeOf(nil); got != mlmd.OK {
		t.Fatalf("CodeOf(nil) = %v, want OK", got)
	}
}

func TestCodeOfUnwrapsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", mlmd.ErrAlreadyExists("type %q", "Model"))
	if got := mlmd.CodeOf(wrapped); got != mlmd.AlreadyExists {
		t.Fatalf("CodeOf(wrapped) = %v, want AlreadyExists", got)
	}
}

func TestErrorMessageIncludesCodeAndText(t *testing.T) {
	err := mlmd.ErrInvalidArgument("missing field %q", "name")
	want := "INVALID_ARGUMENT: missing field \"name\""
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestTypeCloneIsIndependentCopy(t *testing.T) {
	original := mlmd.Type{Name: "Model", Properties: mlmd.PropertyMap{"accuracy": mlmd.PropertyDouble}}
	clone := original.CloneProperties()
	clone["rows"] = mlmd.PropertyInt
	if _, ok := original.Properties["rows"]; ok {
		t.Fatalf("expected clone mutation not to affect original properties")
	}
}
