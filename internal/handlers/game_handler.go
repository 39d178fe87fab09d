package handlers

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"neurohub/backend/internal/games"
	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/middleware"
	"neurohub/backend/internal/models"
	"neurohub/backend/internal/records"

	"github.com/gin-gonic/gin"
)

const scoopdTick = 16 * time.Millisecond

// GameHandler starts engine sessions, routes player input to them and
// serves the leaderboard.
type GameHandler struct {
	manager *games.Manager
	store   *records.Store
}

func NewGameHandler(manager *games.Manager, store *records.Store) *GameHandler {
	return &GameHandler{manager: manager, store: store}
}

// recordScore runs from an engine's completion callback, which may fire
// from the scoopd loop goroutine. It uses its own context so a finished
// request cannot cancel the write.
func (h *GameHandler) recordScore(actor identity.Identity, gameID string) games.CompleteFunc {
	return func(score int) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := h.store.AppendScore(ctx, models.LeaderboardEntry{
			UserID:    actor.UID,
			Name:      actor.DisplayName,
			GameID:    gameID,
			Score:     score,
			Timestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			log.Printf("[Games] Failed to record %s score for %s: %v", gameID, actor.UID, err)
		}
	}
}

type startPayload struct {
	// Trace scales its letter references to the client's canvas.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StartSession creates an engine for the named game and registers it.
func (h *GameHandler) StartSession(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload startPayload
	_ = c.ShouldBindJSON(&payload) // body is optional

	gameID := c.Param("game")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	onComplete := h.recordScore(actor, gameID)

	var (
		engine games.Engine
		cancel func()
	)
	switch gameID {
	case "memory":
		engine = games.NewMemory(rng, onComplete)
	case "trace":
		engine = games.NewTrace(payload.Width, payload.Height, onComplete)
	case "pattern":
		engine = games.NewPattern(rng, onComplete)
	case "focus":
		engine = games.NewFocus(rng, onComplete)
	case "emotion":
		engine = games.NewEmotion(rng, onComplete)
	case "scoopd":
		s := games.NewScoopd(rng, onComplete)
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go func() {
			if err := s.Run(ctx, scoopdTick); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[Games] Scoopd loop for %s stopped: %v", actor.UID, err)
			}
		}()
		engine = s
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown game"})
		return
	}

	session := h.manager.Add(actor.UID, engine, cancel)
	log.Printf("[Games] Started %s session %s for %s", gameID, session.ID, actor.UID)
	c.JSON(http.StatusCreated, gin.H{"sessionId": session.ID, "state": engine.State()})
}

// GetState returns the current engine state. Completed sessions are reaped
// after the final read.
func (h *GameHandler) GetState(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.manager.Get(c.Param("id"), actor.UID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	state := session.Engine.State()
	if state.Done {
		h.manager.Reap()
	}
	c.JSON(http.StatusOK, state)
}

type inputPayload struct {
	Action string        `json:"action" binding:"required"`
	Index  int           `json:"index"`
	X      float64       `json:"x"`
	Number int           `json:"number"`
	Symbol string        `json:"symbol"`
	Label  string        `json:"label"`
	Trace  []games.Point `json:"trace"`
}

// Input routes one player action to the session's engine. The response
// always carries the fresh state so clients never need a second round trip.
func (h *GameHandler) Input(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.manager.Get(c.Param("id"), actor.UID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var payload inputPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.dispatch(session.Engine, payload)
	if err != nil {
		h.gameError(c, err)
		return
	}

	state := session.Engine.State()
	if state.Done {
		h.manager.Reap()
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "state": state})
}

// dispatch maps an action onto the concrete engine. Unknown combinations
// fall through to ErrInvalidInput.
func (h *GameHandler) dispatch(engine games.Engine, p inputPayload) (interface{}, error) {
	switch e := engine.(type) {
	case *games.Memory:
		if p.Action == "flip" {
			matched, err := e.Flip(p.Index)
			return gin.H{"matched": matched}, err
		}
	case *games.Trace:
		switch p.Action {
		case "accuracy":
			acc, err := e.Accuracy(p.Trace)
			return gin.H{"accuracy": acc}, err
		case "next":
			acc, err := e.NextLetter(p.Trace)
			return gin.H{"accuracy": acc}, err
		case "exit":
			e.Exit()
			return gin.H{}, nil
		}
	case *games.Scoopd:
		if p.Action == "move" {
			e.MoveBucket(p.X)
			return gin.H{}, nil
		}
	case *games.Pattern:
		switch p.Action {
		case "input":
			outcome, err := e.Input(p.Symbol)
			return gin.H{"outcome": outcome}, err
		case "finish":
			e.Finish()
			return gin.H{}, nil
		}
	case *games.Focus:
		switch p.Action {
		case "guess":
			correct, err := e.Guess(p.Number)
			return gin.H{"correct": correct}, err
		case "finish":
			e.Finish()
			return gin.H{}, nil
		}
	case *games.Emotion:
		switch p.Action {
		case "guess":
			correct, err := e.Guess(p.Label)
			return gin.H{"correct": correct}, err
		case "next":
			e.Next()
			return gin.H{}, nil
		case "finish":
			e.Finish()
			return gin.H{}, nil
		}
	}
	return nil, games.ErrInvalidInput
}

func (h *GameHandler) gameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, games.ErrFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "Game already finished"})
	case errors.Is(err, games.ErrRevealing), errors.Is(err, games.ErrMemorizing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// EndSession abandons a session without waiting for completion.
func (h *GameHandler) EndSession(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.manager.Get(c.Param("id"), actor.UID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	h.manager.Remove(session.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

// Leaderboard returns the top scores for a game.
func (h *GameHandler) Leaderboard(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	entries, err := h.store.TopScores(c.Request.Context(), c.Param("game"), limit)
	if err != nil {
		log.Printf("[Games] Failed to read leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
