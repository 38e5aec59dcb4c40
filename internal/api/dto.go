package api

import (
	"time"

	"github.com/gabrielflorianoo/VoiceCalc/internal/calc"
	"github.com/gabrielflorianoo/VoiceCalc/internal/history"
	"github.com/gabrielflorianoo/VoiceCalc/internal/store"
	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

// TranscriptRequest carries a finalized speech transcript.
type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// KeyRequest carries a keypad label.
type KeyRequest struct {
	Key string `json:"key"`
}

// ModeRequest switches the calculator screen.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// FinanceRequest holds the simple-interest inputs.
type FinanceRequest struct {
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Time      float64 `json:"time"`
}

// ConvertRequest holds a temperature in Celsius.
type ConvertRequest struct {
	Celsius float64 `json:"celsius"`
}

// SaveRequest names the place a purchase was made.
type SaveRequest struct {
	Location string `json:"location"`
}

// PurchaseRequest records a purchase directly.
type PurchaseRequest struct {
	Amount   float64 `json:"amount"`
	Location string  `json:"location"`
}

// CommandDTO is the wire form of a classified command.
type CommandDTO struct {
	Type       voice.Kind       `json:"type"`
	Mode       voice.Mode       `json:"mode,omitempty"`
	Action     voice.ActionKind `json:"action,omitempty"`
	Expression *string          `json:"expression,omitempty"`
}

// InterpretResponse reports how a transcript was understood.
type InterpretResponse struct {
	Transcript string     `json:"transcript"`
	Command    CommandDTO `json:"command"`
	Result     *float64   `json:"result,omitempty"`
	Display    string     `json:"display,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// StateDTO is the API representation of a calculator session.
type StateDTO struct {
	SessionID   string     `json:"session_id"`
	Mode        voice.Mode `json:"mode"`
	Input       string     `json:"input"`
	Previous    string     `json:"previous,omitempty"`
	Operator    string     `json:"operator,omitempty"`
	PendingSave bool       `json:"pending_save"`
}

// OutcomeDTO reports the effect of a voice command on a session.
type OutcomeDTO struct {
	Command       CommandDTO `json:"command"`
	Success       bool       `json:"success"`
	Feedback      string     `json:"feedback,omitempty"`
	Cue           calc.Cue   `json:"cue"`
	SaveRequested bool       `json:"save_requested"`
	Error         string     `json:"error,omitempty"`
	State         StateDTO   `json:"state"`
}

// SaveResponse reports a purchase committed from a session.
type SaveResponse struct {
	Purchase PurchaseDTO `json:"purchase"`
	Feedback string      `json:"feedback"`
	State    StateDTO    `json:"state"`
}

// PurchaseDTO is the API representation for a persisted purchase.
type PurchaseDTO struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Amount    float64   `json:"amount"`
	Timestamp int64     `json:"timestamp"`
	Date      time.Time `json:"date"`
}

// PurchasesResponse lists purchases, newest first.
type PurchasesResponse struct {
	Items []PurchaseDTO `json:"items"`
	Total int           `json:"total"`
}

// RecentPurchaseDTO is a purchase flagged against its group's last amount.
type RecentPurchaseDTO struct {
	PurchaseDTO
	AboveLast bool `json:"above_last"`
}

// GroupDTO summarizes spending at one location.
type GroupDTO struct {
	Location   string              `json:"location"`
	LastAmount float64             `json:"last_amount"`
	TotalSpent float64             `json:"total_spent"`
	Count      int                 `json:"count"`
	Records    []PurchaseDTO       `json:"records"`
	Recent     []RecentPurchaseDTO `json:"recent"`
}

// GroupedResponse is the grouped purchase history.
type GroupedResponse struct {
	Groups []GroupDTO `json:"groups"`
	Total  int        `json:"total"`
}

// CommandFromModel converts a voice.Command into its DTO.
func CommandFromModel(cmd voice.Command) CommandDTO {
	dto := CommandDTO{Type: cmd.Kind, Mode: cmd.Mode, Action: cmd.Action}
	if cmd.Kind == voice.KindMath {
		expr := cmd.Expression
		dto.Expression = &expr
	}
	return dto
}

// StateFromModel converts a calc.State into its DTO.
func StateFromModel(st calc.State) StateDTO {
	return StateDTO{
		SessionID:   st.ID,
		Mode:        st.Mode,
		Input:       st.Input,
		Previous:    st.Previous,
		Operator:    st.Operator,
		PendingSave: st.PendingSave,
	}
}

// OutcomeFromModel converts a calc.Outcome and the resulting state.
func OutcomeFromModel(out calc.Outcome, st calc.State) OutcomeDTO {
	dto := OutcomeDTO{
		Command:       CommandFromModel(out.Command),
		Success:       out.Success,
		Feedback:      out.Feedback,
		Cue:           out.Cue,
		SaveRequested: out.SaveRequested,
		State:         StateFromModel(st),
	}
	if out.Err != nil {
		dto.Error = out.Err.Error()
	}
	return dto
}

// PurchaseFromModel converts a store.Purchase into its DTO.
func PurchaseFromModel(p store.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:        p.ID,
		Location:  p.Location,
		Amount:    p.Amount,
		Timestamp: p.Timestamp,
		Date:      p.Time().UTC(),
	}
}

// GroupFromModel converts a history.Group into its DTO.
func GroupFromModel(g history.Group, recent int) GroupDTO {
	dto := GroupDTO{
		Location:   g.Location,
		LastAmount: round2(g.LastAmount),
		TotalSpent: round2(g.TotalSpent),
		Count:      g.Count,
		Records:    make([]PurchaseDTO, 0, len(g.Records)),
	}
	for _, rec := range g.Records {
		dto.Records = append(dto.Records, PurchaseFromModel(rec))
	}
	for _, rec := range g.Recent(recent) {
		dto.Recent = append(dto.Recent, RecentPurchaseDTO{
			PurchaseDTO: PurchaseFromModel(rec.Purchase),
			AboveLast:   rec.AboveLast,
		})
	}
	return dto
}

func round2(v float64) float64 {
	return calc.Round(v, 2)
}
