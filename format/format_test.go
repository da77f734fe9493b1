package format

import (
	"strings"
	"testing"
)

type fakeTensor struct{}

func (fakeTensor) Shape() []int  { return []int{3, 4} }
func (fakeTensor) DType() string { return "float32" }

type labeled struct{}

func (labeled) FormatLabel() string { return "ArgumentParser()" }

type payload struct {
	A int
	B string
}

type explosive struct{}

func (explosive) String() string { panic("boom") }

func TestValue_Classification(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"labeled", labeled{}, "ArgumentParser()"},
		{"shaped", fakeTensor{}, "ndarray(shape=(3, 4), dtype=float32)"},
		{"nested numeric slice", [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}, "ndarray(shape=(3, 4), dtype=float32)"},
		{"flat slice", []int{1, 2, 3}, "slice(len=3)"},
		{"array", [2]string{"a", "b"}, "array(len=2)"},
		{"nested string slice stays sequence", [][]string{{"a"}}, "slice(len=1)"},
		{"map", map[string]int{"b": 2, "a": 1}, "dict(keys=['a', 'b'])"},
		{"int-keyed map", map[int]string{2: "b", 1: "a"}, "dict(keys=[1, 2])"},
		{"struct", payload{A: 1, B: "x"}, "payload()"},
		{"struct pointer", &payload{}, "payload()"},
		{"nil pointer", (*payload)(nil), "nil"},
		{"scalar int", 42, "42"},
		{"scalar string", "hello", "hello"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.in); got != tt.want {
				t.Errorf("Value(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValue_NeverPanics(t *testing.T) {
	got := Value(explosive{})
	if !strings.Contains(got, "unformattable") {
		t.Errorf("expected placeholder for panicking Stringer, got %q", got)
	}
}

func TestValue_EmptyNestedSlice(t *testing.T) {
	got := Value([][]float64{})
	if got != "ndarray(shape=(0, 0), dtype=float64)" {
		t.Errorf("got %q", got)
	}
}

func TestArgs(t *testing.T) {
	got := Args([]any{2, 3, []int{1}})
	want := []string{"2", "3", "slice(len=1)"}
	if len(got) != len(want) {
		t.Fatalf("got %d formatted args, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArgs_PanickingValueDegradesPerArg(t *testing.T) {
	got := Args([]any{explosive{}, 7})
	if len(got) != 2 {
		t.Fatalf("got %d args, want 2", len(got))
	}
	if !strings.Contains(got[0], "unformattable") {
		t.Errorf("arg 0 = %q, want placeholder", got[0])
	}
	if got[1] != "7" {
		t.Errorf("arg 1 = %q, want 7", got[1])
	}
}
