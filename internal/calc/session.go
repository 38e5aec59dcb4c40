package calc

import (
	"errors"
	"fmt"
	"math"

	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

const (
	errorDisplay = "Error"
	zeroDisplay  = "0"
	piDisplay    = "3.1415"

	// FeedbackNotRecognized is shown when a transcript could not be applied.
	FeedbackNotRecognized = "Comando não reconhecido"
)

// ErrNothingToSave is returned when the display holds no positive amount.
var ErrNothingToSave = errors.New("display has no positive amount to save")

// Cue tells the client which sound to play after a command.
type Cue string

const (
	CueStart   Cue = "start"
	CueSuccess Cue = "success"
	CueError   Cue = "error"
)

// State is a snapshot of a session's calculator.
type State struct {
	ID          string
	Mode        voice.Mode
	Input       string
	Previous    string
	Operator    string
	PendingSave bool
}

// Outcome reports how a classified command changed the session.
type Outcome struct {
	Command       voice.Command
	Success       bool
	Feedback      string
	Cue           Cue
	SaveRequested bool
	Err           error
}

// Session holds one client's calculator display and pending operation.
// A Session is not safe for concurrent use; Manager serializes access.
type Session struct {
	id          string
	mode        voice.Mode
	input       string
	previous    string
	hasPrevious bool
	operator    string
	pendingSave bool
}

// NewSession returns a session in normal mode showing "0".
func NewSession(id string) *Session {
	return &Session{id: id, mode: voice.ModeNormal, input: zeroDisplay}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := State{
		ID:          s.id,
		Mode:        s.mode,
		Input:       s.input,
		Operator:    s.operator,
		PendingSave: s.pendingSave,
	}
	if s.hasPrevious {
		st.Previous = s.previous
	}
	return st
}

// Input returns the current display text.
func (s *Session) Input() string { return s.input }

// SetMode switches the calculator screen.
func (s *Session) SetMode(m voice.Mode) { s.mode = m }

// PressDigit appends a digit (or "." or a constant) to the display,
// replacing a bare "0" or an error.
func (s *Session) PressDigit(d string) {
	if s.input == zeroDisplay || s.input == errorDisplay {
		s.input = d
		return
	}
	s.input += d
}

// PressOperator starts a binary operation, or applies √ immediately.
func (s *Session) PressOperator(op string) error {
	switch op {
	case "√":
		v, ok := parseDisplay(s.input)
		if !ok || v < 0 {
			s.input = errorDisplay
			return nil
		}
		s.input = FormatNumber(math.Sqrt(v))
		return nil
	case "+", "-", "*", "/", "^":
		s.previous = s.input
		s.hasPrevious = true
		s.operator = op
		s.input = zeroDisplay
		return nil
	}
	return fmt.Errorf("unknown operator %q", op)
}

// Calculate applies the pending operator to the previous value and the
// display. Division by zero yields 0. It returns the new display, or "" when
// no operation was pending.
func (s *Session) Calculate() string {
	if !s.hasPrevious || s.operator == "" {
		return ""
	}
	current, okCur := parseDisplay(s.input)
	previous, okPrev := parseDisplay(s.previous)

	var result float64
	switch s.operator {
	case "+":
		result = previous + current
	case "-":
		result = previous - current
	case "*":
		result = previous * current
	case "/":
		if current != 0 {
			result = previous / current
		}
	case "^":
		result = math.Pow(previous, current)
	default:
		return ""
	}

	out := FormatNumber(Round(result, 4))
	if !okCur || !okPrev {
		out = errorDisplay
	}
	s.input = out
	s.operator = ""
	s.previous = ""
	s.hasPrevious = false
	return out
}

// Clear resets the display and any pending operation.
func (s *Session) Clear() {
	s.input = zeroDisplay
	s.previous = ""
	s.hasPrevious = false
	s.operator = ""
	s.pendingSave = false
}

// Backspace removes the last character of the display.
func (s *Session) Backspace() {
	r := []rune(s.input)
	if len(r) > 1 {
		s.input = string(r[:len(r)-1])
		return
	}
	s.input = zeroDisplay
}

// PressKey dispatches a keypad label.
func (s *Session) PressKey(label string) error {
	switch label {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".":
		s.PressDigit(label)
	case "π":
		s.PressDigit(piDisplay)
	case "AC":
		s.Clear()
	case "DEL":
		s.Backspace()
	case "=":
		s.Calculate()
	case "%", "÷", "/":
		return s.PressOperator("/")
	case "×", "*":
		return s.PressOperator("*")
	case "+", "-", "^", "√":
		return s.PressOperator(label)
	default:
		return fmt.Errorf("unknown key %q", label)
	}
	return nil
}

// SimpleInterest shows p*(1+(r/100)*t) with two decimals. Nothing changes
// unless all three inputs are non-zero.
func (s *Session) SimpleInterest(principal, rate, periods float64) bool {
	if principal == 0 || rate == 0 || periods == 0 {
		return false
	}
	s.input = FormatFixed(principal*(1+(rate/100)*periods), 2)
	return true
}

// CelsiusToFahrenheit shows the converted temperature with one decimal.
func (s *Session) CelsiusToFahrenheit(celsius float64) {
	s.input = FormatFixed(celsius*9/5+32, 1)
}

// RequestSave marks the current display as awaiting a purchase location.
func (s *Session) RequestSave() bool {
	v, ok := parseDisplay(s.input)
	if !ok || v <= 0 {
		return false
	}
	s.pendingSave = true
	return true
}

// SaveAmount returns the positive amount on the display and clears the
// pending-save flag.
func (s *Session) SaveAmount() (float64, error) {
	v, ok := parseDisplay(s.input)
	if !ok || v <= 0 {
		return 0, ErrNothingToSave
	}
	s.pendingSave = false
	return v, nil
}

// CancelSave drops a pending save request.
func (s *Session) CancelSave() { s.pendingSave = false }

// Apply updates the session from a classified command.
func (s *Session) Apply(cmd voice.Command) Outcome {
	out := Outcome{Command: cmd}

	switch cmd.Kind {
	case voice.KindNavigate:
		s.SetMode(cmd.Mode)
		out.Success = true
	case voice.KindAction:
		switch cmd.Action {
		case voice.ActionSave:
			out.SaveRequested = s.RequestSave()
		case voice.ActionClear:
			s.Clear()
		case voice.ActionBackspace:
			s.Backspace()
		case voice.ActionEquals:
			s.Calculate()
		}
		out.Success = true
	case voice.KindMath:
		v, err := Evaluate(cmd.Expression)
		if err != nil {
			s.input = errorDisplay
			out.Err = err
			break
		}
		s.input = FormatNumber(v)
		out.Success = true
	}

	if out.Success {
		out.Cue = CueSuccess
	} else {
		out.Cue = CueError
		out.Feedback = FeedbackNotRecognized
	}
	return out
}
