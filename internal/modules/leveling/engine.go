package leveling

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"

	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"go.uber.org/zap"
)

// Level converts accumulated XP to a level: floor(sqrt(xp / 100)).
func Level(xp int64) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(xp) / 100))
}

// XPForLevel is the inverse bound: the minimum XP that reaches level.
func XPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	return int64(level) * int64(level) * 100
}

// Result reports the outcome of an XP grant.
type Result struct {
	Awarded   int64
	User      storage.User
	LeveledUp bool
	NewLevel  int
	// RewardRoleID is set when the reached level has a configured role.
	RewardRoleID string
}

type Engine struct {
	store     *storage.Store
	logger    *zap.Logger
	cooldowns *utils.CooldownCache
	rng       *rand.Rand
}

func New(store *storage.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		logger:    logger,
		cooldowns: utils.NewCooldownCache(8192),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// HandleMessage awards XP for a message when the member is off cooldown.
// It returns false when nothing was granted.
func (e *Engine) HandleMessage(ctx context.Context, guildID, userID string, cfg storage.LevelingConfig, now time.Time) (Result, bool, error) {
	if !cfg.Enabled {
		return Result{}, false, nil
	}

	cooldown := time.Duration(cfg.XPCooldown) * time.Second
	if ok, _ := e.cooldowns.Try(guildID+":"+userID, now, cooldown); !ok {
		return Result{}, false, nil
	}

	awarded := int64(cfg.XPMin)
	if cfg.XPMax > cfg.XPMin {
		awarded += int64(e.rng.Intn(cfg.XPMax - cfg.XPMin + 1))
	}

	before, err := e.store.GetUser(ctx, userID, guildID)
	if err != nil {
		return Result{}, false, err
	}
	newLevel := Level(before.XP + awarded)

	user, err := e.store.GrantXP(ctx, userID, guildID, awarded, newLevel)
	if err != nil {
		return Result{}, false, err
	}

	result := Result{Awarded: awarded, User: user, NewLevel: newLevel}
	if newLevel > before.Level {
		result.LeveledUp = true
		if role, ok := cfg.RoleRewards[strconv.Itoa(newLevel)]; ok {
			result.RewardRoleID = role
		}
		e.logger.Info("level up",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID),
			zap.Int("level", newLevel),
		)
	}
	return result, true, nil
}

// SetXP pins a member's XP and recomputes the level from it.
func (e *Engine) SetXP(ctx context.Context, guildID, userID string, xp int64) (int, error) {
	if xp < 0 {
		xp = 0
	}
	level := Level(xp)
	if _, err := e.store.GetUser(ctx, userID, guildID); err != nil {
		return 0, err
	}
	err := e.store.UpdateUser(ctx, userID, guildID, storage.UserChanges{XP: &xp, Level: &level})
	return level, err
}

// SetLevel pins a member's level and sets XP to the level's floor so the
// two fields stay consistent.
func (e *Engine) SetLevel(ctx context.Context, guildID, userID string, level int) (int64, error) {
	if level < 0 {
		level = 0
	}
	xp := XPForLevel(level)
	if _, err := e.store.GetUser(ctx, userID, guildID); err != nil {
		return 0, err
	}
	err := e.store.UpdateUser(ctx, userID, guildID, storage.UserChanges{XP: &xp, Level: &level})
	return xp, err
}

// Progress describes how far into the current level a member is, for rank
// cards.
type Progress struct {
	Level   int
	Current int64
	Needed  int64
}

func ProgressFor(xp int64) Progress {
	level := Level(xp)
	floor := XPForLevel(level)
	next := XPForLevel(level + 1)
	return Progress{Level: level, Current: xp - floor, Needed: next - floor}
}
