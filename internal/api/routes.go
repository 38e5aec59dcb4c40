package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/calc"
	"github.com/gabrielflorianoo/VoiceCalc/internal/store"
	"github.com/gabrielflorianoo/VoiceCalc/internal/voice"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	AllowedOrigins []string
	SilentDB       bool
	SessionTTL     time.Duration
}

// Server wires HTTP handlers with persistence and calculator sessions.
type Server struct {
	db             *store.Database
	sessions       *calc.Manager
	notifier       *SessionNotifier
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	count, err := db.CountPurchases()
	if err != nil {
		logrus.WithError(err).Warn("count stored purchases")
	} else {
		logrus.WithField("purchases", count).Info("purchase history ready")
	}

	sessions := calc.NewManager(cfg.SessionTTL)
	logrus.WithFields(logrus.Fields{
		"session_ttl":   sessions.TTL(),
		"lexicon_words": len(voice.LexiconWords()),
	}).Info("voice interpreter ready")

	return &Server{
		db:             db,
		sessions:       sessions,
		notifier:       NewSessionNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Close releases sessions, websocket clients and the database.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.notifier.CloseAll()
	s.sessions.Close()
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/interpret", s.handleInterpret)

		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions/:id", s.handleGetSession)
		api.DELETE("/sessions/:id", s.handleDeleteSession)
		api.POST("/sessions/:id/keys", s.handleKey)
		api.POST("/sessions/:id/mode", s.handleMode)
		api.POST("/sessions/:id/voice", s.handleVoice)
		api.POST("/sessions/:id/finance", s.handleFinance)
		api.POST("/sessions/:id/convert", s.handleConvert)
		api.POST("/sessions/:id/save", s.handleSave)
		api.DELETE("/sessions/:id/save", s.handleCancelSave)
		api.GET("/sessions/:id/stream", s.handleStream)

		api.GET("/purchases", s.handleListPurchases)
		api.POST("/purchases", s.handleAddPurchase)
		api.DELETE("/purchases", s.handleClearPurchases)
		api.GET("/purchases/grouped", s.handleGroupedPurchases)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"modes":           voice.Modes,
		"lexicon_words":   len(voice.LexiconWords()),
		"session_ttl":     s.sessions.TTL().String(),
		"active_sessions": s.sessions.Len(),
	})
}

// handleInterpret classifies a transcript without touching any session and
// evaluates it when it is a math expression.
func (s *Server) handleInterpret(c *gin.Context) {
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

	cmd := voice.Classify(transcript)
	resp := InterpretResponse{Transcript: transcript, Command: CommandFromModel(cmd)}
	logrus.WithFields(logrus.Fields{
		"transcript": transcript,
		"command":    cmd.String(),
	}).Debug("transcript interpreted")

	if cmd.Kind != voice.KindMath {
		c.JSON(http.StatusOK, resp)
		return
	}

	value, err := calc.Evaluate(cmd.Expression)
	if err != nil {
		resp.Error = err.Error()
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	resp.Result = &value
	resp.Display = calc.FormatNumber(value)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calc.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, calc.ErrManagerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, calc.ErrNothingToSave),
		errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, errBadInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadInput = errors.New("bad input")

func badInput(err error) error {
	return fmt.Errorf("%w: %v", errBadInput, err)
}
