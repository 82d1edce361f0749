package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dronefall/dronefall-server-go/internal/config"
	"github.com/dronefall/dronefall-server-go/internal/game"
)

// NewDB opens a pgx connection pool from configuration.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection pool initialized",
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return pool, nil
}

// ChainLogRepository persists committed chain event streams for replay and
// audit.
type ChainLogRepository struct {
	pool *pgxpool.Pool
}

// NewChainLogRepository creates a repository over the pool.
func NewChainLogRepository(pool *pgxpool.Pool) *ChainLogRepository {
	return &ChainLogRepository{pool: pool}
}

// Save stores one committed chain's event stream as JSONB.
func (r *ChainLogRepository) Save(ctx context.Context, gameID, cardID string, events []game.AnimationEvent) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode chain events: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chain_logs (id, game_id, card_id, events, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.NewString(), gameID, cardID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chain log: %w", err)
	}
	return nil
}

// ListByGame returns the event streams recorded for one game, oldest first.
func (r *ChainLogRepository) ListByGame(ctx context.Context, gameID string) ([][]game.AnimationEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT events FROM chain_logs WHERE game_id = $1 ORDER BY created_at`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chain logs: %w", err)
	}
	defer rows.Close()

	var out [][]game.AnimationEvent
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan chain log: %w", err)
		}
		var events []game.AnimationEvent
		if err := json.Unmarshal(payload, &events); err != nil {
			return nil, fmt.Errorf("failed to decode chain events: %w", err)
		}
		out = append(out, events)
	}
	return out, rows.Err()
}
