package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type User struct {
	UserID    string
	GuildID   string
	XP        int64
	Level     int
	Messages  int64
	Balance   int64
	Bank      int64
	DailyAt   time.Time
	WorkAt    time.Time
	Inventory map[string]int64
}

// UserChanges selects the columns of a partial update. Nil fields are left
// untouched.
type UserChanges struct {
	XP       *int64
	Level    *int
	Messages *int64
	Balance  *int64
	Bank     *int64
	DailyAt  *time.Time
	WorkAt   *time.Time
}

var ErrInsufficientFunds = errors.New("insufficient funds")

// GetUser returns the record for (userID, guildID), creating a zero row the
// first time the pair is seen.
func (s *Store) GetUser(ctx context.Context, userID, guildID string) (User, error) {
	user, err := s.scanUser(ctx, userID, guildID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users (user_id, guild_id) VALUES (?, ?)
	`, userID, guildID)
	if err != nil {
		return User{}, err
	}
	return s.scanUser(ctx, userID, guildID)
}

func (s *Store) scanUser(ctx context.Context, userID, guildID string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, guild_id, xp, level, messages, balance, bank,
		daily_timestamp, work_timestamp, inventory
		FROM users WHERE user_id = ? AND guild_id = ?`, userID, guildID)

	var user User
	var daily, work int64
	var inventory string
	err := row.Scan(
		&user.UserID,
		&user.GuildID,
		&user.XP,
		&user.Level,
		&user.Messages,
		&user.Balance,
		&user.Bank,
		&daily,
		&work,
		&inventory,
	)
	if err != nil {
		return User{}, err
	}
	if daily > 0 {
		user.DailyAt = time.Unix(daily, 0)
	}
	if work > 0 {
		user.WorkAt = time.Unix(work, 0)
	}
	if inventory != "" {
		if err := json.Unmarshal([]byte(inventory), &user.Inventory); err != nil {
			return User{}, fmt.Errorf("decode inventory: %w", err)
		}
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, userID, guildID string, changes UserChanges) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if changes.XP != nil {
		add("xp", *changes.XP)
	}
	if changes.Level != nil {
		add("level", *changes.Level)
	}
	if changes.Messages != nil {
		add("messages", *changes.Messages)
	}
	if changes.Balance != nil {
		add("balance", *changes.Balance)
	}
	if changes.Bank != nil {
		add("bank", *changes.Bank)
	}
	if changes.DailyAt != nil {
		add("daily_timestamp", changes.DailyAt.Unix())
	}
	if changes.WorkAt != nil {
		add("work_timestamp", changes.WorkAt.Unix())
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE user_id = ? AND guild_id = ?"
	args = append(args, userID, guildID)

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// GrantXP adds xp and a message count in one transaction and returns the
// updated record so callers can detect level transitions.
func (s *Store) GrantXP(ctx context.Context, userID, guildID string, xp int64, level int) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO users (user_id, guild_id) VALUES (?, ?)
	`, userID, guildID)
	if err != nil {
		return User{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET xp = xp + ?, level = ?, messages = messages + 1
		WHERE user_id = ? AND guild_id = ?
	`, xp, level, userID, guildID)
	if err != nil {
		return User{}, err
	}
	if err = tx.Commit(); err != nil {
		return User{}, err
	}
	return s.scanUser(ctx, userID, guildID)
}

// AddBalance applies a wallet delta. Negative deltas that would take the
// wallet below zero are clamped at zero.
func (s *Store) AddBalance(ctx context.Context, userID, guildID string, delta int64) error {
	if _, err := s.GetUser(ctx, userID, guildID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET balance = MAX(0, balance + ?)
		WHERE user_id = ? AND guild_id = ?
	`, delta, userID, guildID)
	return err
}

// TransferBalance moves amount from one wallet to another in a single
// transaction. The debit is conditional so a concurrent spend cannot drive
// the sender negative.
func (s *Store) TransferBalance(ctx context.Context, guildID, fromID, toID string, amount int64) error {
	if _, err := s.GetUser(ctx, fromID, guildID); err != nil {
		return err
	}
	if _, err := s.GetUser(ctx, toID, guildID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - ?
		WHERE user_id = ? AND guild_id = ? AND balance >= ?
	`, amount, fromID, guildID, amount)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ErrInsufficientFunds
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + ?
		WHERE user_id = ? AND guild_id = ?
	`, amount, toID, guildID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// MoveToBank deposits amount from wallet to bank; MoveFromBank withdraws.
// Both are single guarded statements and report ErrInsufficientFunds when
// the source side cannot cover the amount.
func (s *Store) MoveToBank(ctx context.Context, userID, guildID string, amount int64) error {
	if _, err := s.GetUser(ctx, userID, guildID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET balance = balance - ?, bank = bank + ?
		WHERE user_id = ? AND guild_id = ? AND balance >= ?
	`, amount, amount, userID, guildID, amount)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *Store) MoveFromBank(ctx context.Context, userID, guildID string, amount int64) error {
	if _, err := s.GetUser(ctx, userID, guildID); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET bank = bank - ?, balance = balance + ?
		WHERE user_id = ? AND guild_id = ? AND bank >= ?
	`, amount, amount, userID, guildID, amount)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

const (
	LeaderboardXP      = "xp"
	LeaderboardEconomy = "economy"
)

func (s *Store) Leaderboard(ctx context.Context, guildID, metric string, limit int) ([]User, error) {
	order := "xp DESC"
	if metric == LeaderboardEconomy {
		order = "balance + bank DESC"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, xp, level, messages, balance, bank
		FROM users WHERE guild_id = ?
		ORDER BY `+order+` LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user := User{GuildID: guildID}
		if err := rows.Scan(&user.UserID, &user.XP, &user.Level, &user.Messages, &user.Balance, &user.Bank); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Rank returns the 1-based position of the user on the XP leaderboard.
func (s *Store) Rank(ctx context.Context, userID, guildID string) (int, error) {
	user, err := s.GetUser(ctx, userID, guildID)
	if err != nil {
		return 0, err
	}
	var above int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE guild_id = ? AND xp > ?
	`, guildID, user.XP)
	if err := row.Scan(&above); err != nil {
		return 0, err
	}
	return above + 1, nil
}

// AddInventoryItem bumps the item's quantity in the user's inventory blob,
// a JSON object of item name to count.
func (s *Store) AddInventoryItem(ctx context.Context, userID, guildID, item string) error {
	user, err := s.GetUser(ctx, userID, guildID)
	if err != nil {
		return err
	}
	inventory := user.Inventory
	if inventory == nil {
		inventory = make(map[string]int64)
	}
	inventory[item]++
	blob, err := json.Marshal(inventory)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET inventory = ? WHERE user_id = ? AND guild_id = ?
	`, string(blob), userID, guildID)
	return err
}
