package rank

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"indie-bot/model"

	"go.uber.org/zap"
)

// Ledger is the XP side of the store the engine writes through.
type Ledger interface {
	// AddXP atomically adds delta to the member's XP, creating the row if
	// needed, and returns the total after the increment.
	AddXP(ctx context.Context, guildID, userID string, delta int64) (int64, error)
}

// EngineConfig bounds the random award and the cooldown between awards.
type EngineConfig struct {
	MinXP    int
	MaxXP    int
	Cooldown time.Duration
}

// DefaultEngineConfig awards 5-12 XP at most once a minute.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MinXP: 5, MaxXP: 12, Cooldown: DefaultCooldown}
}

// Engine turns eligible messages into XP and detects level transitions.
type Engine struct {
	ledger Ledger
	gate   *CooldownGate
	cfg    EngineConfig
	logger *zap.Logger

	// roll returns an integer in [min, max].
	roll func(min, max int) int
}

// NewEngine creates an accrual engine.
func NewEngine(ledger Ledger, gate *CooldownGate, cfg EngineConfig, logger *zap.Logger) *Engine {
	return &Engine{
		ledger: ledger,
		gate:   gate,
		cfg:    cfg,
		logger: logger,
		roll:   uniform,
	}
}

func uniform(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}

// OnEligibleMessage awards XP for a message sent at now. It returns nil when
// the member is still cooling down or the award did not cross a level.
func (e *Engine) OnEligibleMessage(ctx context.Context, guildID, userID string, now time.Time) (*model.LevelTransition, error) {
	if !e.gate.TryAcquire(guildID, userID, now, e.cfg.Cooldown) {
		return nil, nil
	}

	delta := int64(e.roll(e.cfg.MinXP, e.cfg.MaxXP))
	transition, err := e.award(ctx, guildID, userID, delta)
	if err != nil {
		// Nothing was credited, so the member's next message may try again.
		e.gate.Release(guildID, userID, now)
		return nil, err
	}
	return transition, nil
}

// Credit adds amount XP directly, bypassing the cooldown and the random roll.
func (e *Engine) Credit(ctx context.Context, guildID, userID string, amount int64) (*model.LevelTransition, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("xp amount must be positive, got %d: %w", amount, model.ErrValidation)
	}
	return e.award(ctx, guildID, userID, amount)
}

func (e *Engine) award(ctx context.Context, guildID, userID string, delta int64) (*model.LevelTransition, error) {
	// The store returns the total this very increment produced, so total-delta
	// is exactly what this award started from even under concurrent writes.
	total, err := e.ledger.AddXP(ctx, guildID, userID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to add %d xp for user %s in guild %s: %w", delta, userID, guildID, err)
	}

	oldLevel := LevelFor(total - delta)
	newLevel := LevelFor(total)

	e.logger.Debug("xp awarded",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Int64("delta", delta),
		zap.Int64("total", total))

	if newLevel <= oldLevel {
		return nil, nil
	}
	return &model.LevelTransition{
		GuildID:  guildID,
		UserID:   userID,
		OldLevel: oldLevel,
		NewLevel: newLevel,
		XP:       total,
	}, nil
}
