package condition

import "testing"

func TestEvaluateBool(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr string
		want bool
	}{
		{"1 == 1", true},
		{"1 != 2", true},
		{"3 > 2 && 1 < 2", true},
		{"3 > 2 && 1 > 2", false},
		{"'a' == 'a'", true},
		{"'a' == 'b'", false},
		{"!(1 == 2)", true},
		{"(1 == 1) || (2 == 3)", true},
		{"5 >= 5", true},
		{"5 <= 4", false},
		{"true && !false", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got, err := EvaluateBool(tt.expr)
			if err != nil {
				t.Fatalf("EvaluateBool(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvaluateBool(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateBool_Errors(t *testing.T) {
	t.Parallel()
	tests := []string{
		"(1 == 1",
		"'a' < 'b'",
		"1 ==",
	}
	for _, expr := range tests {
		expr := expr
		t.Run(expr, func(t *testing.T) {
			t.Parallel()
			if _, err := EvaluateBool(expr); err == nil {
				t.Errorf("EvaluateBool(%q) = nil error, want error", expr)
			}
		})
	}
}
