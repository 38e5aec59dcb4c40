package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/calc"
	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

// defaultSaveLocation is used when the client confirms a save without
// naming a location.
const defaultSaveLocation = "Compra Geral"

func (s *Server) handleCreateSession(c *gin.Context) {
	st, err := s.sessions.Create()
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	logrus.WithField("session", st.ID).Info("calculator session created")
	c.JSON(http.StatusCreated, StateFromModel(st))
}

func (s *Server) handleGetSession(c *gin.Context) {
	st, err := s.sessions.Snapshot(c.Param("id"))
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, StateFromModel(st))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.sessions.Delete(id) {
		s.renderError(c, http.StatusNotFound, calc.ErrSessionNotFound)
		return
	}
	s.notifier.CloseSession(id)
	c.Status(http.StatusNoContent)
}

// mutate runs fn against the session and answers with the resulting state,
// broadcasting it to the session's stream subscribers.
func (s *Server) mutate(c *gin.Context, fn func(*calc.Session) error) {
	id := c.Param("id")
	var st calc.State
	err := s.sessions.With(id, func(sess *calc.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		st = sess.State()
		return nil
	})
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	s.notifier.Broadcast(id, StreamEvent{Type: EventState, State: stateRef(st)})
	c.JSON(http.StatusOK, StateFromModel(st))
}

func (s *Server) handleKey(c *gin.Context) {
	var req KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(c, func(sess *calc.Session) error {
		if err := sess.PressKey(strings.TrimSpace(req.Key)); err != nil {
			return badInput(err)
		}
		return nil
	})
}

func (s *Server) handleMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	mode, err := voice.ParseMode(req.Mode)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	s.mutate(c, func(sess *calc.Session) error {
		sess.SetMode(mode)
		return nil
	})
}

func (s *Server) handleFinance(c *gin.Context) {
	var req FinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(c, func(sess *calc.Session) error {
		sess.SetMode(voice.ModeFinance)
		sess.SimpleInterest(req.Principal, req.Rate, req.Time)
		return nil
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(c, func(sess *calc.Session) error {
		sess.SetMode(voice.ModeConverter)
		sess.CelsiusToFahrenheit(req.Celsius)
		return nil
	})
}

func (s *Server) handleVoice(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("transcript is required"))
		return
	}

	out, st, err := s.applyTranscript(c.Param("id"), transcript)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, OutcomeFromModel(out, st))
}

// applyTranscript classifies a final transcript and applies it to the
// session, notifying stream subscribers of the new state.
func (s *Server) applyTranscript(id, transcript string) (calc.Outcome, calc.State, error) {
	start := time.Now()
	cmd := voice.Classify(transcript)

	var (
		out calc.Outcome
		st  calc.State
	)
	err := s.sessions.With(id, func(sess *calc.Session) error {
		out = sess.Apply(cmd)
		st = sess.State()
		return nil
	})
	if err != nil {
		return calc.Outcome{}, calc.State{}, err
	}

	entry := logrus.WithFields(logrus.Fields{
		"session":  id,
		"command":  cmd.String(),
		"success":  out.Success,
		"duration": time.Since(start),
	})
	if out.Err != nil {
		entry.WithError(out.Err).Info("voice command not applied")
	} else {
		entry.Debug("voice command applied")
	}

	s.notifier.Broadcast(id, StreamEvent{Type: EventState, State: stateRef(st)})
	return out, st, nil
}

func (s *Server) handleSave(c *gin.Context) {
	var req SaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = defaultSaveLocation
	}

	id := c.Param("id")
	var (
		resp SaveResponse
		st   calc.State
	)
	err := s.sessions.With(id, func(sess *calc.Session) error {
		amount, err := sess.SaveAmount()
		if err != nil {
			return err
		}
		p, err := s.db.AddPurchase(amount, location)
		if err != nil {
			return err
		}
		resp.Purchase = PurchaseFromModel(*p)
		resp.Feedback = fmt.Sprintf("Salvo: R$%s em %s", calc.FormatNumber(amount), location)
		st = sess.State()
		return nil
	})
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	resp.State = StateFromModel(st)

	logrus.WithFields(logrus.Fields{
		"session":  id,
		"amount":   resp.Purchase.Amount,
		"location": resp.Purchase.Location,
	}).Info("purchase saved")
	s.notifier.Broadcast(id, StreamEvent{Type: EventState, State: stateRef(st), Feedback: resp.Feedback})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleCancelSave(c *gin.Context) {
	s.mutate(c, func(sess *calc.Session) error {
		sess.CancelSave()
		return nil
	})
}

func stateRef(st calc.State) *StateDTO {
	dto := StateFromModel(st)
	return &dto
}
