package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/game"
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/game/targeting"
	"github.com/dronefall/dronefall-server-go/internal/state"
)

// SetupFunc creates the two player states for a fresh game.
type SetupFunc func() (acting, opponent *state.PlayerState)

// ChainLog persists committed chain event streams. Satisfied by
// repository.ChainLogRepository.
type ChainLog interface {
	Save(ctx context.Context, gameID, cardID string, events []game.AnimationEvent) error
}

// Gateway exposes the chain engine over a websocket connection. One
// goroutine per connection; the engine itself is synchronous, so each
// session serializes its own commits.
type Gateway struct {
	logger   *zap.Logger
	engine   *game.ChainEngine
	library  *cards.Library
	recorder *game.Recorder
	setup    SetupFunc
	chainLog ChainLog
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id       string
	gameID   string
	conn     *websocket.Conn
	acting   *state.PlayerState
	opponent *state.PlayerState
}

// NewGateway creates a gateway over the engine and card library.
func NewGateway(logger *zap.Logger, engine *game.ChainEngine, library *cards.Library, recorder *game.Recorder, setup SetupFunc) *Gateway {
	return &Gateway{
		logger:   logger,
		engine:   engine,
		library:  library,
		recorder: recorder,
		setup:    setup,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// SetChainLog attaches a persistent store for committed chains.
func (g *Gateway) SetChainLog(log ChainLog) {
	g.chainLog = log
}

// Handler returns the websocket HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return http.HandlerFunc(g.serveWS)
}

type clientMessage struct {
	Type        string         `json:"type"`
	CardID      string         `json:"card_id,omitempty"`
	EffectIndex int            `json:"effect_index,omitempty"`
	Selections  []selectionDTO `json:"selections,omitempty"`
}

type selectionDTO struct {
	TargetKind  string `json:"target_kind"`
	TargetID    string `json:"target_id"`
	TargetOwner string `json:"target_owner"`
	Lane        string `json:"lane"`
	Destination string `json:"destination"`
	Skipped     bool   `json:"skipped"`
}

type serverMessage struct {
	Type          string                 `json:"type"`
	Error         string                 `json:"error,omitempty"`
	GameID        string                 `json:"game_id,omitempty"`
	ShouldEndTurn bool                   `json:"should_end_turn,omitempty"`
	Events        []game.AnimationEvent  `json:"events,omitempty"`
	Candidates    []targeting.TargetRef  `json:"candidates,omitempty"`
	Lanes         []string               `json:"lanes,omitempty"`
	Pending       *game.SelectionRequest `json:"pending,omitempty"`
}

func (g *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	acting, opponent := g.setup()
	sess := &session{
		id:       uuid.NewString(),
		gameID:   uuid.NewString(),
		conn:     conn,
		acting:   acting,
		opponent: opponent,
	}

	g.mu.Lock()
	g.sessions[sess.id] = sess
	g.mu.Unlock()
	g.recorder.StartRecording(sess.gameID)

	g.logger.Info("session opened",
		zap.String("session_id", sess.id),
		zap.String("game_id", sess.gameID),
	)

	defer func() {
		g.mu.Lock()
		delete(g.sessions, sess.id)
		g.mu.Unlock()
		conn.Close()
	}()

	g.send(sess, serverMessage{Type: "game_started", GameID: sess.gameID})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			g.logger.Debug("session closed", zap.String("session_id", sess.id), zap.Error(err))
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.send(sess, serverMessage{Type: "error", Error: "malformed message"})
			continue
		}
		g.handleMessage(sess, msg)
	}
}

func (g *Gateway) handleMessage(sess *session, msg clientMessage) {
	switch msg.Type {
	case "play_card":
		g.handlePlayCard(sess, msg)
	case "chain_targets":
		g.handleChainTargets(sess, msg)
	case "destination_targets":
		g.handleDestinationTargets(sess, msg)
	default:
		g.send(sess, serverMessage{Type: "error", Error: "unknown message type"})
	}
}

func (g *Gateway) handlePlayCard(sess *session, msg clientMessage) {
	card, ok := g.library.Get(msg.CardID)
	if !ok {
		g.send(sess, serverMessage{Type: "error", Error: "unknown card"})
		return
	}

	selections := toSelections(msg.Selections)
	result, err := g.engine.ProcessEffectChain(card, selections, sess.acting.ID, game.Env{
		ActingPlayer:   sess.acting,
		OpponentPlayer: sess.opponent,
		LocalPlayerID:  sess.acting.ID,
		Mode:           game.ModeVersusAI,
	})
	if err != nil {
		// Partial commits still hand back the new state.
		if result != nil {
			sess.acting = result.ActingState
			sess.opponent = result.OpponentState
		}
		g.send(sess, serverMessage{Type: "chain_rejected", Error: err.Error()})
		return
	}
	if result.Pending != nil {
		g.send(sess, serverMessage{Type: "selection_needed", Pending: result.Pending})
		return
	}

	sess.acting = result.ActingState
	sess.opponent = result.OpponentState
	g.recorder.Record(sess.gameID, result.Events)
	if g.chainLog != nil {
		go g.persistChain(sess.gameID, card.ID, result.Events)
	}

	g.send(sess, serverMessage{
		Type:          "chain_committed",
		GameID:        sess.gameID,
		ShouldEndTurn: result.ShouldEndTurn,
		Events:        result.Events,
	})
}

func (g *Gateway) handleChainTargets(sess *session, msg clientMessage) {
	card, ok := g.library.Get(msg.CardID)
	if !ok || msg.EffectIndex < 0 || msg.EffectIndex >= len(card.Effects) {
		g.send(sess, serverMessage{Type: "error", Error: "unknown card or effect"})
		return
	}

	prior := toSelections(msg.Selections)
	tracker := targeting.NewTracker(sess.acting, sess.opponent)
	applyPriorToTracker(prior, card, tracker)

	candidates := targeting.ComputeChainTargets(
		card.Effects[msg.EffectIndex], msg.EffectIndex, prior, tracker,
		&targeting.Context{Acting: sess.acting, Opponent: sess.opponent},
	)
	g.send(sess, serverMessage{Type: "chain_targets", Candidates: candidates})
}

func (g *Gateway) handleDestinationTargets(sess *session, msg clientMessage) {
	card, ok := g.library.Get(msg.CardID)
	if !ok || msg.EffectIndex < 0 || msg.EffectIndex >= len(card.Effects) {
		g.send(sess, serverMessage{Type: "error", Error: "unknown card or effect"})
		return
	}
	prior := toSelections(msg.Selections)
	if msg.EffectIndex >= len(prior) {
		g.send(sess, serverMessage{Type: "error", Error: "selection for effect missing"})
		return
	}

	tracker := targeting.NewTracker(sess.acting, sess.opponent)
	applyPriorToTracker(prior[:msg.EffectIndex], card, tracker)

	lanes := targeting.ComputeDestinationTargets(
		card.Effects[msg.EffectIndex].Destination,
		prior[msg.EffectIndex], tracker, g.engine.LaneNameCap(),
	)
	g.send(sess, serverMessage{Type: "destination_targets", Lanes: lanes})
}

// applyPriorToTracker hypothetically applies the already-made selections so
// later candidate sets see virtual positions.
func applyPriorToTracker(prior []targeting.Selection, card *cards.Card, tracker *targeting.Tracker) {
	for i, sel := range prior {
		if sel.Skipped || i >= len(card.Effects) {
			continue
		}
		eff := card.Effects[i]
		switch {
		case eff.Kind.IsMovement() && sel.Destination != "":
			tracker.RecordMove(sel.Target.ID, sel.Destination)
		case eff.Kind == cards.KindDiscard:
			tracker.RecordDiscard(sel.Target.ID)
		}
	}
}

func toSelections(dtos []selectionDTO) []targeting.Selection {
	out := make([]targeting.Selection, len(dtos))
	for i, dto := range dtos {
		out[i] = targeting.Selection{
			Target: targeting.TargetRef{
				Kind:  targeting.TargetKind(dto.TargetKind),
				ID:    dto.TargetID,
				Owner: dto.TargetOwner,
				Lane:  dto.Lane,
			},
			Lane:        dto.Lane,
			Destination: dto.Destination,
			Skipped:     dto.Skipped,
		}
	}
	return out
}

func (g *Gateway) persistChain(gameID, cardID string, events []game.AnimationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.chainLog.Save(ctx, gameID, cardID, events); err != nil {
		g.logger.Warn("failed to persist chain log",
			zap.String("game_id", gameID),
			zap.Error(err),
		)
	}
}

func (g *Gateway) send(sess *session, msg serverMessage) {
	if err := sess.conn.WriteJSON(msg); err != nil {
		g.logger.Warn("failed to write message",
			zap.String("session_id", sess.id),
			zap.Error(err),
		)
	}
}
