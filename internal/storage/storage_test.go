package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestGuildConfigDefaults(t *testing.T) {
	store := newTestStore(t)

	cfg, err := store.GetGuildConfig(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if cfg.Prefix != "!" {
		t.Errorf("expected default prefix, got %q", cfg.Prefix)
	}
	if cfg.Language != "fr" {
		t.Errorf("expected default language fr, got %q", cfg.Language)
	}
	if cfg.Leveling.XPMin != 15 || cfg.Leveling.XPMax != 25 {
		t.Errorf("unexpected leveling defaults: %d..%d", cfg.Leveling.XPMin, cfg.Leveling.XPMax)
	}
	if cfg.Moderation.AutoMod.CapsThreshold != 70 {
		t.Errorf("expected caps threshold 70, got %d", cfg.Moderation.AutoMod.CapsThreshold)
	}
	if !cfg.Moderation.AutoMod.AntiSpam || cfg.Moderation.AutoMod.AntiCaps {
		t.Errorf("unexpected automod defaults: anti_spam=%v anti_caps=%v",
			cfg.Moderation.AutoMod.AntiSpam, cfg.Moderation.AutoMod.AntiCaps)
	}
	if len(cfg.Tickets.Categories) != 4 {
		t.Errorf("expected 4 default ticket categories, got %d", len(cfg.Tickets.Categories))
	}
}

func TestGuildConfigPartialOverlay(t *testing.T) {
	store := newTestStore(t)

	// A blob touching only some keys: untouched branches keep their
	// defaults, nested objects merge, arrays replace wholesale.
	blob := `{"prefix":"?","moderation":{"auto_mod":{"max_mentions":3,"banned_words":["spam"]}}}`
	if _, err := store.db.Exec(`INSERT INTO guilds (guild_id, config) VALUES (?, ?)`, "g1", blob); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cfg, err := store.GetGuildConfig(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if cfg.Prefix != "?" {
		t.Errorf("expected overridden prefix, got %q", cfg.Prefix)
	}
	if cfg.Moderation.AutoMod.MaxMentions != 3 {
		t.Errorf("expected max mentions 3, got %d", cfg.Moderation.AutoMod.MaxMentions)
	}
	if cfg.Moderation.AutoMod.CapsThreshold != 70 {
		t.Errorf("sibling key lost its default: %d", cfg.Moderation.AutoMod.CapsThreshold)
	}
	if len(cfg.Moderation.AutoMod.BannedWords) != 1 || cfg.Moderation.AutoMod.BannedWords[0] != "spam" {
		t.Errorf("unexpected banned words: %v", cfg.Moderation.AutoMod.BannedWords)
	}
	if cfg.Leveling.XPCooldown != 60 {
		t.Errorf("untouched branch lost its default: %d", cfg.Leveling.XPCooldown)
	}
}

func TestUpsertGuildConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := DefaultGuildConfig()
	cfg.Prefix = "$"
	if err := store.UpsertGuildConfig(ctx, "g1", cfg); err != nil {
		t.Fatalf("upsert guild config: %v", err)
	}

	cfg.Prefix = "%"
	if err := store.UpsertGuildConfig(ctx, "g1", cfg); err != nil {
		t.Fatalf("update guild config: %v", err)
	}

	got, err := store.GetGuildConfig(ctx, "g1")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if got.Prefix != "%" {
		t.Fatalf("expected prefix %%, got %q", got.Prefix)
	}
}

func TestGetUserCreatesRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetUser(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.XP != 0 || user.Balance != 0 {
		t.Errorf("expected zero record, got xp=%d balance=%d", user.XP, user.Balance)
	}

	again, err := store.GetUser(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get user again: %v", err)
	}
	if again.UserID != "u1" || again.GuildID != "g1" {
		t.Errorf("unexpected identity: %+v", again)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetUser(ctx, "u1", "g1"); err != nil {
		t.Fatalf("get user: %v", err)
	}

	xp := int64(250)
	level := 1
	if err := store.UpdateUser(ctx, "u1", "g1", UserChanges{XP: &xp, Level: &level}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	balance := int64(500)
	if err := store.UpdateUser(ctx, "u1", "g1", UserChanges{Balance: &balance}); err != nil {
		t.Fatalf("update balance: %v", err)
	}

	user, err := store.GetUser(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.XP != 250 || user.Level != 1 || user.Balance != 500 {
		t.Errorf("partial update clobbered fields: %+v", user)
	}
}

func TestTransferBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddBalance(ctx, "rich", "g1", 100); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	if err := store.TransferBalance(ctx, "g1", "rich", "poor", 60); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	from, _ := store.GetUser(ctx, "rich", "g1")
	to, _ := store.GetUser(ctx, "poor", "g1")
	if from.Balance != 40 || to.Balance != 60 {
		t.Errorf("expected 40/60 after transfer, got %d/%d", from.Balance, to.Balance)
	}

	err := store.TransferBalance(ctx, "g1", "rich", "poor", 1000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	from, _ = store.GetUser(ctx, "rich", "g1")
	to, _ = store.GetUser(ctx, "poor", "g1")
	if from.Balance != 40 || to.Balance != 60 {
		t.Errorf("failed transfer moved funds: %d/%d", from.Balance, to.Balance)
	}
}

func TestBankMoves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddBalance(ctx, "u1", "g1", 80); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	if err := store.MoveToBank(ctx, "u1", "g1", 50); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := store.MoveFromBank(ctx, "u1", "g1", 20); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := store.MoveFromBank(ctx, "u1", "g1", 100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	user, _ := store.GetUser(ctx, "u1", "g1")
	if user.Balance != 50 || user.Bank != 30 {
		t.Errorf("expected 50/30 after moves, got %d/%d", user.Balance, user.Bank)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		id      string
		xp      int64
		balance int64
		bank    int64
	}{
		{"a", 10, 200, 0},
		{"b", 200, 10, 0},
		{"c", 50, 20, 30},
	}
	for _, row := range seed {
		if _, err := store.GetUser(ctx, row.id, "g1"); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		if err := store.UpdateUser(ctx, row.id, "g1", UserChanges{XP: &row.xp, Balance: &row.balance, Bank: &row.bank}); err != nil {
			t.Fatalf("seed values: %v", err)
		}
	}

	byXP, err := store.Leaderboard(ctx, "g1", LeaderboardXP, 10)
	if err != nil {
		t.Fatalf("leaderboard xp: %v", err)
	}
	if byXP[0].UserID != "b" || byXP[1].UserID != "c" || byXP[2].UserID != "a" {
		t.Errorf("unexpected xp ordering: %v %v %v", byXP[0].UserID, byXP[1].UserID, byXP[2].UserID)
	}

	byMoney, err := store.Leaderboard(ctx, "g1", LeaderboardEconomy, 10)
	if err != nil {
		t.Fatalf("leaderboard economy: %v", err)
	}
	if byMoney[0].UserID != "a" || byMoney[1].UserID != "c" || byMoney[2].UserID != "b" {
		t.Errorf("unexpected economy ordering: %v %v %v", byMoney[0].UserID, byMoney[1].UserID, byMoney[2].UserID)
	}
}

func TestOpenTicketPerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTicket(ctx, Ticket{ChannelID: "c1", GuildID: "g1", UserID: "u1", Category: "Support", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	_, open, err := store.OpenTicketFor(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("open ticket lookup: %v", err)
	}
	if !open {
		t.Fatal("expected an open ticket")
	}

	if err := store.CloseTicket(ctx, "c1", time.Now()); err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	_, open, err = store.OpenTicketFor(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("open ticket lookup after close: %v", err)
	}
	if open {
		t.Fatal("closed ticket still reported open")
	}
}

func TestCloseTicketOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateTicket(ctx, Ticket{ChannelID: "c1", GuildID: "g1", UserID: "u1", Category: "Support", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	first := time.Unix(1000, 0)
	if err := store.CloseTicket(ctx, "c1", first); err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	if err := store.CloseTicket(ctx, "c1", time.Unix(2000, 0)); err != nil {
		t.Fatalf("second close: %v", err)
	}

	ticket, found, err := store.GetTicketByChannel(ctx, "c1")
	if err != nil || !found {
		t.Fatalf("get ticket: found=%v err=%v", found, err)
	}
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(first) {
		t.Errorf("closed_at rewritten: %v", ticket.ClosedAt)
	}
}

func TestGiveawayLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	giveaway := Giveaway{
		MessageID: "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Prize:     "Nitro",
		Winners:   1,
		EndTime:   now.Add(-time.Minute),
		HostID:    "h1",
	}
	if err := store.CreateGiveaway(ctx, giveaway); err != nil {
		t.Fatalf("create giveaway: %v", err)
	}

	due, err := store.ListDueGiveaways(ctx, now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].MessageID != "m1" {
		t.Fatalf("expected one due giveaway, got %v", due)
	}

	if err := store.EndGiveaway(ctx, "m1"); err != nil {
		t.Fatalf("end giveaway: %v", err)
	}
	due, err = store.ListDueGiveaways(ctx, now)
	if err != nil {
		t.Fatalf("list due after end: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("ended giveaway still due: %v", due)
	}
}

func TestCustomCommandNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertCustomCommand(ctx, CustomCommand{GuildID: "g1", Name: "Hello", Response: "hi", CreatorID: "u1"}); err != nil {
		t.Fatalf("upsert command: %v", err)
	}

	command, found, err := store.GetCustomCommand(ctx, "g1", "HELLO")
	if err != nil {
		t.Fatalf("get command: %v", err)
	}
	if !found || command.Response != "hi" {
		t.Fatalf("expected case-insensitive lookup, got found=%v %+v", found, command)
	}

	if err := store.BumpCustomCommandUses(ctx, "g1", "hello"); err != nil {
		t.Fatalf("bump uses: %v", err)
	}
	command, _, _ = store.GetCustomCommand(ctx, "g1", "hello")
	if command.Uses != 1 {
		t.Errorf("expected 1 use, got %d", command.Uses)
	}
}

func TestPurchaseStockSemantics(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddBalance(ctx, "u1", "g1", 1000); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	limited, err := store.AddShopItem(ctx, ShopItem{GuildID: "g1", Name: "Rare", Price: 100, Stock: 1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	soldOut, err := store.AddShopItem(ctx, ShopItem{GuildID: "g1", Name: "Gone", Price: 10, Stock: 0})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	unlimited, err := store.AddShopItem(ctx, ShopItem{GuildID: "g1", Name: "Common", Price: 10, Stock: -1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := store.PurchaseItem(ctx, "u1", "g1", limited); err != nil {
		t.Fatalf("buy limited: %v", err)
	}
	if _, err := store.PurchaseItem(ctx, "u1", "g1", limited); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock on second buy, got %v", err)
	}
	if _, err := store.PurchaseItem(ctx, "u1", "g1", soldOut); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.PurchaseItem(ctx, "u1", "g1", unlimited); err != nil {
			t.Fatalf("buy unlimited: %v", err)
		}
	}
	item, err := store.GetShopItem(ctx, "g1", unlimited)
	if err != nil {
		t.Fatalf("get unlimited: %v", err)
	}
	if item.Stock != -1 {
		t.Errorf("unlimited stock decremented: %d", item.Stock)
	}

	user, _ := store.GetUser(ctx, "u1", "g1")
	if user.Balance != 1000-100-30 {
		t.Errorf("unexpected balance after purchases: %d", user.Balance)
	}
}

func TestInventoryCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddInventoryItem(ctx, "u1", "g1", "VIP"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := store.AddInventoryItem(ctx, "u1", "g1", "VIP"); err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if err := store.AddInventoryItem(ctx, "u1", "g1", "Potion"); err != nil {
		t.Fatalf("add second item: %v", err)
	}

	user, err := store.GetUser(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(user.Inventory) != 2 || user.Inventory["VIP"] != 2 || user.Inventory["Potion"] != 1 {
		t.Errorf("unexpected inventory: %v", user.Inventory)
	}
}

func TestWarningsLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.AddWarning(ctx, Warning{GuildID: "g1", UserID: "u1", ModeratorID: "m1", Reason: "spam", CreatedAt: time.Now().Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("add warning: %v", err)
		}
	}

	warnings, err := store.ListWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("list warnings: %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d", len(warnings))
	}
	if warnings[0].CreatedAt.Before(warnings[2].CreatedAt) {
		t.Error("warnings not newest first")
	}

	removed, err := store.ClearWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("clear warnings: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
}
