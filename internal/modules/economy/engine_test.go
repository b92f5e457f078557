package economy

import (
	"context"
	"errors"
	"testing"
	"time"

	"ultrabot/internal/storage"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*Engine, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(store, zap.NewNop()), store
}

func testConfig() storage.EconomyConfig {
	return storage.EconomyConfig{
		Enabled:      true,
		DailyAmount:  100,
		WorkMin:      50,
		WorkMax:      200,
		WorkCooldown: 3600,
	}
}

func TestDailyCooldown(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	cfg := testConfig()
	now := time.Now()

	paid, err := engine.Daily(ctx, "g1", "u1", cfg, now)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if paid != 100 {
		t.Errorf("expected 100, got %d", paid)
	}

	var cooldown *CooldownError
	_, err = engine.Daily(ctx, "g1", "u1", cfg, now.Add(23*time.Hour+59*time.Minute+59*time.Second))
	if !errors.As(err, &cooldown) {
		t.Fatalf("expected cooldown one second early, got %v", err)
	}

	if _, err := engine.Daily(ctx, "g1", "u1", cfg, now.Add(24*time.Hour)); err != nil {
		t.Fatalf("daily at boundary: %v", err)
	}

	user, _ := store.GetUser(ctx, "u1", "g1")
	if user.Balance != 200 {
		t.Errorf("expected 200 after two dailies, got %d", user.Balance)
	}
}

func TestWork(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	cfg := testConfig()
	now := time.Now()

	earned, job, err := engine.Work(ctx, "g1", "u1", cfg, now)
	if err != nil {
		t.Fatalf("work: %v", err)
	}
	if earned < 50 || earned > 200 {
		t.Errorf("earned outside range: %d", earned)
	}
	if job == "" {
		t.Error("expected a job description")
	}

	var cooldown *CooldownError
	if _, _, err := engine.Work(ctx, "g1", "u1", cfg, now.Add(time.Minute)); !errors.As(err, &cooldown) {
		t.Fatalf("expected cooldown, got %v", err)
	}
	if _, _, err := engine.Work(ctx, "g1", "u1", cfg, now.Add(time.Hour)); err != nil {
		t.Fatalf("work after cooldown: %v", err)
	}
}

func TestPayValidation(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Pay(ctx, "g1", "u1", "u1", 10); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
	if err := engine.Pay(ctx, "g1", "u1", "u2", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := engine.Pay(ctx, "g1", "u1", "u2", -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	if err := store.AddBalance(ctx, "u1", "g1", 50); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := engine.Pay(ctx, "g1", "u1", "u2", 30); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if err := engine.Pay(ctx, "g1", "u1", "u2", 30); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestDepositWithdrawAll(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	if err := store.AddBalance(ctx, "u1", "g1", 120); err != nil {
		t.Fatalf("seed: %v", err)
	}

	moved, err := engine.Deposit(ctx, "g1", "u1", -1)
	if err != nil {
		t.Fatalf("deposit all: %v", err)
	}
	if moved != 120 {
		t.Errorf("expected 120 deposited, got %d", moved)
	}

	moved, err = engine.Withdraw(ctx, "g1", "u1", 20)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if moved != 20 {
		t.Errorf("expected 20 withdrawn, got %d", moved)
	}

	user, _ := store.GetUser(ctx, "u1", "g1")
	if user.Balance != 20 || user.Bank != 100 {
		t.Errorf("expected 20/100, got %d/%d", user.Balance, user.Bank)
	}
}

func TestBuyGrantsInventory(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	if err := store.AddBalance(ctx, "u1", "g1", 500); err != nil {
		t.Fatalf("seed: %v", err)
	}
	itemID, err := store.AddShopItem(ctx, storage.ShopItem{GuildID: "g1", Name: "VIP", Price: 300, RoleID: "r1", Stock: -1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	item, err := engine.Buy(ctx, "g1", "u1", itemID)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if item.RoleID != "r1" {
		t.Errorf("expected role id on purchased item, got %q", item.RoleID)
	}

	user, _ := store.GetUser(ctx, "u1", "g1")
	if user.Balance != 200 {
		t.Errorf("expected 200 left, got %d", user.Balance)
	}
	if len(user.Inventory) != 1 || user.Inventory["VIP"] != 1 {
		t.Errorf("expected one VIP in inventory, got %v", user.Inventory)
	}

	if _, err := engine.Buy(ctx, "g1", "u1", itemID); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}
