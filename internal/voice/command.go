package voice

import (
	"fmt"
	"strings"
)

// Mode is one of the calculator screens a Navigate command can target.
type Mode string

const (
	ModeNormal     Mode = "Normal"
	ModeScientific Mode = "Científica"
	ModeFinance    Mode = "Financeira"
	ModeConverter  Mode = "Conversor"
	ModeHistory    Mode = "Histórico"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeNormal, ModeScientific, ModeFinance, ModeConverter, ModeHistory}

// ParseMode resolves a mode by its display name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// ActionKind names a discrete calculator action.
type ActionKind string

const (
	ActionSave      ActionKind = "SAVE"
	ActionClear     ActionKind = "CLEAR"
	ActionBackspace ActionKind = "BACKSPACE"
	ActionEquals    ActionKind = "EQUALS"
)

// Kind discriminates the Command variants.
type Kind string

const (
	KindNone     Kind = "NONE"
	KindNavigate Kind = "NAV"
	KindAction   Kind = "ACTION"
	KindMath     Kind = "MATH"
)

// Command is the interpretation of a single transcript. Only the field that
// matches Kind is meaningful.
type Command struct {
	Kind       Kind
	Mode       Mode
	Action     ActionKind
	Expression string
}

// Navigate builds a navigation command.
func Navigate(m Mode) Command { return Command{Kind: KindNavigate, Mode: m} }

// Action builds a discrete action command.
func Action(a ActionKind) Command { return Command{Kind: KindAction, Action: a} }

// Math builds a math command carrying a normalized expression.
func Math(expr string) Command { return Command{Kind: KindMath, Expression: expr} }

// None is the result when nothing in the transcript is interpretable.
func None() Command { return Command{Kind: KindNone} }

func (c Command) String() string {
	switch c.Kind {
	case KindNavigate:
		return fmt.Sprintf("NAV(%s)", c.Mode)
	case KindAction:
		return fmt.Sprintf("ACTION(%s)", c.Action)
	case KindMath:
		return fmt.Sprintf("MATH(%q)", c.Expression)
	default:
		return "NONE"
	}
}
