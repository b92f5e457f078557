package economy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"go.uber.org/zap"
)

const dailyCooldown = 24 * time.Hour

var (
	ErrSelfTransfer  = errors.New("cannot pay yourself")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// CooldownError reports how long until the reward becomes available again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for %s", utils.FormatDuration(e.Remaining))
}

var workJobs = []string{
	"delivered pizzas",
	"walked the neighbor's dog",
	"fixed a leaky faucet",
	"streamed for three viewers",
	"mowed a lawn",
	"debugged production at 3am",
	"sold lemonade",
	"washed cars",
}

type Engine struct {
	store  *storage.Store
	logger *zap.Logger
	locks  *utils.KeyedMutex
	rng    *rand.Rand
}

func New(store *storage.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		locks:  utils.NewKeyedMutex(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func key(guildID, userID string) string {
	return guildID + ":" + userID
}

// Daily pays the configured daily amount once per 24 hours.
func (e *Engine) Daily(ctx context.Context, guildID, userID string, cfg storage.EconomyConfig, now time.Time) (int64, error) {
	k := key(guildID, userID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	user, err := e.store.GetUser(ctx, userID, guildID)
	if err != nil {
		return 0, err
	}
	if !user.DailyAt.IsZero() {
		elapsed := now.Sub(user.DailyAt)
		if elapsed < dailyCooldown {
			return 0, &CooldownError{Remaining: dailyCooldown - elapsed}
		}
	}

	balance := user.Balance + cfg.DailyAmount
	if err := e.store.UpdateUser(ctx, userID, guildID, storage.UserChanges{Balance: &balance, DailyAt: &now}); err != nil {
		return 0, err
	}
	return cfg.DailyAmount, nil
}

// Work pays a random amount in [WorkMin, WorkMax] on the configured
// cooldown and returns a job description for flavor.
func (e *Engine) Work(ctx context.Context, guildID, userID string, cfg storage.EconomyConfig, now time.Time) (int64, string, error) {
	k := key(guildID, userID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	user, err := e.store.GetUser(ctx, userID, guildID)
	if err != nil {
		return 0, "", err
	}
	cooldown := time.Duration(cfg.WorkCooldown) * time.Second
	if !user.WorkAt.IsZero() {
		elapsed := now.Sub(user.WorkAt)
		if elapsed < cooldown {
			return 0, "", &CooldownError{Remaining: cooldown - elapsed}
		}
	}

	earned := cfg.WorkMin
	if cfg.WorkMax > cfg.WorkMin {
		earned += e.rng.Int63n(cfg.WorkMax - cfg.WorkMin + 1)
	}
	balance := user.Balance + earned
	if err := e.store.UpdateUser(ctx, userID, guildID, storage.UserChanges{Balance: &balance, WorkAt: &now}); err != nil {
		return 0, "", err
	}
	return earned, workJobs[e.rng.Intn(len(workJobs))], nil
}

// Pay transfers amount between two members of the guild.
func (e *Engine) Pay(ctx context.Context, guildID, fromID, toID string, amount int64) error {
	if fromID == toID {
		return ErrSelfTransfer
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	k := key(guildID, fromID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	return e.store.TransferBalance(ctx, guildID, fromID, toID, amount)
}

// Deposit moves wallet funds to the bank. amount < 0 means everything.
func (e *Engine) Deposit(ctx context.Context, guildID, userID string, amount int64) (int64, error) {
	k := key(guildID, userID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	if amount < 0 {
		user, err := e.store.GetUser(ctx, userID, guildID)
		if err != nil {
			return 0, err
		}
		amount = user.Balance
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	return amount, e.store.MoveToBank(ctx, userID, guildID, amount)
}

// Withdraw moves bank funds to the wallet. amount < 0 means everything.
func (e *Engine) Withdraw(ctx context.Context, guildID, userID string, amount int64) (int64, error) {
	k := key(guildID, userID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	if amount < 0 {
		user, err := e.store.GetUser(ctx, userID, guildID)
		if err != nil {
			return 0, err
		}
		amount = user.Bank
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	return amount, e.store.MoveFromBank(ctx, userID, guildID, amount)
}

// Buy purchases a shop item for the member. The returned item carries the
// role to grant, if any.
func (e *Engine) Buy(ctx context.Context, guildID, userID string, itemID int64) (storage.ShopItem, error) {
	k := key(guildID, userID)
	e.locks.Lock(k)
	defer e.locks.Unlock(k)

	item, err := e.store.PurchaseItem(ctx, userID, guildID, itemID)
	if err != nil {
		return storage.ShopItem{}, err
	}
	if err := e.store.AddInventoryItem(ctx, userID, guildID, item.Name); err != nil {
		e.logger.Warn("inventory append failed", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
	}
	e.logger.Info("shop purchase",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("item", item.Name),
		zap.Int64("price", item.Price),
	)
	return item, nil
}
