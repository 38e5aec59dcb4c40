package calc

import (
	"errors"
	"testing"
	"time"

	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

func pressAll(t *testing.T, s *Session, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := s.PressKey(k); err != nil {
			t.Fatalf("press %q: %v", k, err)
		}
	}
}

func TestSessionKeypad(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected string
	}{
		{"digits replace zero", []string{"0", "7"}, "7"},
		{"addition", []string{"1", "2", "+", "3", "="}, "15"},
		{"divide by zero yields zero", []string{"9", "÷", "0", "="}, "0"},
		{"rounding to four places", []string{"2", "÷", "3", "="}, "0.6667"},
		{"power", []string{"2", "^", "1", "0", "="}, "1024"},
		{"square root", []string{"8", "1", "√"}, "9"},
		{"percent key divides", []string{"5", "0", "%", "2", "="}, "25"},
		{"backspace", []string{"1", "2", "3", "DEL"}, "12"},
		{"backspace to zero", []string{"4", "DEL"}, "0"},
		{"clear", []string{"4", "+", "AC"}, "0"},
		{"pi", []string{"π"}, "3.1415"},
		{"equals without operator", []string{"4", "2", "="}, "42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession("test")
			pressAll(t, s, tc.keys...)
			if got := s.Input(); got != tc.expected {
				t.Fatalf("expected display %q got %q", tc.expected, got)
			}
		})
	}
}

func TestSessionOperatorState(t *testing.T) {
	s := NewSession("test")
	pressAll(t, s, "7", "×")
	st := s.State()
	if st.Previous != "7" || st.Operator != "*" || st.Input != "0" {
		t.Fatalf("unexpected state after operator: %+v", st)
	}
	pressAll(t, s, "6", "=")
	st = s.State()
	if st.Input != "42" || st.Previous != "" || st.Operator != "" {
		t.Fatalf("unexpected state after equals: %+v", st)
	}
	if err := s.PressKey("sin"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestSessionApply(t *testing.T) {
	s := NewSession("test")

	out := s.Apply(voice.Classify("dois vezes três mais dez"))
	if !out.Success || out.Cue != CueSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
	if s.Input() != "16" {
		t.Fatalf("expected 16 got %q", s.Input())
	}

	out = s.Apply(voice.Classify("científica"))
	if !out.Success || s.State().Mode != voice.ModeScientific {
		t.Fatalf("expected scientific mode, got %+v / %+v", out, s.State())
	}

	out = s.Apply(voice.Classify("salvar"))
	if !out.Success || !out.SaveRequested || !s.State().PendingSave {
		t.Fatalf("expected save request, got %+v", out)
	}

	out = s.Apply(voice.Classify("limpar tudo"))
	if !out.Success || s.Input() != "0" || s.State().PendingSave {
		t.Fatalf("expected cleared display, got %+v / %+v", out, s.State())
	}

	out = s.Apply(voice.Classify("salvar"))
	if !out.Success || out.SaveRequested {
		t.Fatalf("save on zero must not request a location, got %+v", out)
	}

	out = s.Apply(voice.Classify("qualquer coisa sem sentido"))
	if out.Success || out.Feedback != FeedbackNotRecognized || out.Cue != CueError {
		t.Fatalf("expected unrecognized command, got %+v", out)
	}
}

func TestSessionApplyMathFailures(t *testing.T) {
	s := NewSession("test")

	out := s.Apply(voice.Math(""))
	if out.Success || !errors.Is(out.Err, ErrInvalidExpression) {
		t.Fatalf("empty payload must fail, got %+v", out)
	}
	if s.Input() != "Error" {
		t.Fatalf("expected Error display got %q", s.Input())
	}

	out = s.Apply(voice.Classify("cinco negativo"))
	if out.Success || !errors.Is(out.Err, ErrInvalidExpression) {
		t.Fatalf("dangling sign must fail, got %+v", out)
	}

	out = s.Apply(voice.Math("1/0"))
	if out.Success || !errors.Is(out.Err, ErrDivisionByZero) {
		t.Fatalf("division by zero must fail, got %+v", out)
	}

	s.PressDigit("3")
	if s.Input() != "3" {
		t.Fatalf("a digit must replace the error display, got %q", s.Input())
	}
}

func TestSessionEqualsAction(t *testing.T) {
	s := NewSession("test")
	pressAll(t, s, "9", "-", "4")
	out := s.Apply(voice.Classify("igual"))
	if !out.Success || s.Input() != "5" {
		t.Fatalf("expected 5 got %q (%+v)", s.Input(), out)
	}
	pressAll(t, s, "1", "2")
	s.Apply(voice.Classify("voltar"))
	if s.Input() != "51" {
		t.Fatalf("expected 51 got %q", s.Input())
	}
}

func TestSessionFinanceAndConverter(t *testing.T) {
	s := NewSession("test")
	if !s.SimpleInterest(1000, 5, 2) {
		t.Fatalf("expected interest to be computed")
	}
	if s.Input() != "1100.00" {
		t.Fatalf("expected 1100.00 got %q", s.Input())
	}
	if s.SimpleInterest(1000, 0, 2) {
		t.Fatalf("zero rate must leave the display untouched")
	}
	s.CelsiusToFahrenheit(100)
	if s.Input() != "212.0" {
		t.Fatalf("expected 212.0 got %q", s.Input())
	}
}

func TestSessionSaveAmount(t *testing.T) {
	s := NewSession("test")
	if _, err := s.SaveAmount(); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
	pressAll(t, s, "2", "5", ".", "5")
	if !s.RequestSave() {
		t.Fatalf("expected save request")
	}
	amount, err := s.SaveAmount()
	if err != nil {
		t.Fatalf("save amount: %v", err)
	}
	if amount != 25.5 || s.State().PendingSave {
		t.Fatalf("unexpected save result %v / %+v", amount, s.State())
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	st, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if st.ID == "" || st.Input != "0" || st.Mode != voice.ModeNormal {
		t.Fatalf("unexpected initial state %+v", st)
	}

	err = m.With(st.ID, func(s *Session) error {
		s.PressDigit("8")
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	snap, err := m.Snapshot(st.ID)
	if err != nil || snap.Input != "8" {
		t.Fatalf("unexpected snapshot %+v (%v)", snap, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Snapshot(st.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}

	st, _ = m.Create()
	if !m.Delete(st.ID) || m.Delete(st.ID) {
		t.Fatalf("delete should succeed exactly once")
	}

	m.Close()
	if _, err := m.Create(); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("expected closed manager, got %v", err)
	}
}
