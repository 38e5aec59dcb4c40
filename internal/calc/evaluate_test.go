package calc

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr     string
		expected float64
	}{
		{"2*3+10", 16},
		{"3+4", 7},
		{"10+16", 26},
		{"50/100", 0.5},
		{"-5", -5},
		{"3*-2", -6},
		{"(2+3)*4", 20},
		{"2+3*4", 14},
		{"10-4-3", 3},
		{"8/4/2", 1},
		{"1.5+2.5", 4},
		{".5+2.", 2.5},
		{" 7 * 8 ", 56},
		{"--5", 5},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): unexpected error %v", tc.expr, err)
			}
			if got != tc.expected {
				t.Fatalf("Evaluate(%q): expected %v got %v", tc.expr, tc.expected, got)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		expr   string
		target error
	}{
		{"", ErrInvalidExpression},
		{"5-", ErrInvalidExpression},
		{"*3", ErrInvalidExpression},
		{"8//2", ErrInvalidExpression},
		{"(1+2", ErrInvalidExpression},
		{"1+2)", ErrInvalidExpression},
		{"1.2.3", ErrInvalidExpression},
		{".", ErrInvalidExpression},
		{"2a", ErrInvalidExpression},
		{"1/0", ErrDivisionByZero},
		{"4/(2-2)", ErrDivisionByZero},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := Evaluate(tc.expr)
			if !errors.Is(err, tc.target) {
				t.Fatalf("Evaluate(%q): expected %v got %v", tc.expr, tc.target, err)
			}
		})
	}
}

func TestEvaluateDeepNesting(t *testing.T) {
	expr := ""
	for i := 0; i < 200; i++ {
		expr += "("
	}
	expr += "1"
	for i := 0; i < 200; i++ {
		expr += ")"
	}
	if _, err := Evaluate(expr); !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("expected nesting error, got %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{16, "16"},
		{0.5, "0.5"},
		{-2.25, "-2.25"},
		{Round(2.0/3.0, 4), "0.6667"},
		{1e6, "1000000"},
	}
	for _, tc := range tests {
		if got := FormatNumber(tc.in); got != tc.expected {
			t.Fatalf("FormatNumber(%v): expected %q got %q", tc.in, tc.expected, got)
		}
	}
}
