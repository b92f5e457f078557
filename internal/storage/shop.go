package storage

import (
	"context"
	"database/sql"
	"errors"
)

type ShopItem struct {
	ID          int64
	GuildID     string
	Name        string
	Description string
	Price       int64
	RoleID      string
	Stock       int64
}

var (
	ErrItemNotFound = errors.New("shop item not found")
	ErrOutOfStock   = errors.New("shop item out of stock")
)

func (s *Store) AddShopItem(ctx context.Context, item ShopItem) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO shop_items (guild_id, name, description, price, role_id, stock)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.GuildID, item.Name, item.Description, item.Price, item.RoleID, item.Stock)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetShopItem(ctx context.Context, guildID string, itemID int64) (ShopItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, name, description, price, role_id, stock
		FROM shop_items WHERE guild_id = ? AND id = ?
	`, guildID, itemID)

	var item ShopItem
	err := row.Scan(&item.ID, &item.GuildID, &item.Name, &item.Description, &item.Price, &item.RoleID, &item.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShopItem{}, ErrItemNotFound
		}
		return ShopItem{}, err
	}
	return item, nil
}

func (s *Store) ListShopItems(ctx context.Context, guildID string) ([]ShopItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, name, description, price, role_id, stock
		FROM shop_items WHERE guild_id = ? ORDER BY price
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ShopItem
	for rows.Next() {
		var item ShopItem
		if err := rows.Scan(&item.ID, &item.GuildID, &item.Name, &item.Description, &item.Price, &item.RoleID, &item.Stock); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) DeleteShopItem(ctx context.Context, guildID string, itemID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM shop_items WHERE guild_id = ? AND id = ?
	`, guildID, itemID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PurchaseItem debits the buyer's wallet and decrements finite stock in one
// transaction. Stock semantics: -1 is unlimited and never decremented, 0 is
// sold out, positive stock is decremented only when the guard holds so two
// concurrent buyers cannot oversell the last unit.
func (s *Store) PurchaseItem(ctx context.Context, userID, guildID string, itemID int64) (ShopItem, error) {
	item, err := s.GetShopItem(ctx, guildID, itemID)
	if err != nil {
		return ShopItem{}, err
	}
	if item.Stock == 0 {
		return ShopItem{}, ErrOutOfStock
	}
	if _, err := s.GetUser(ctx, userID, guildID); err != nil {
		return ShopItem{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShopItem{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - ?
		WHERE user_id = ? AND guild_id = ? AND balance >= ?
	`, item.Price, userID, guildID, item.Price)
	if err != nil {
		return ShopItem{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return ShopItem{}, err
	}
	if affected == 0 {
		err = ErrInsufficientFunds
		return ShopItem{}, err
	}

	if item.Stock > 0 {
		result, err = tx.ExecContext(ctx, `
			UPDATE shop_items SET stock = stock - 1
			WHERE id = ? AND stock > 0
		`, item.ID)
		if err != nil {
			return ShopItem{}, err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return ShopItem{}, err
		}
		if affected == 0 {
			err = ErrOutOfStock
			return ShopItem{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return ShopItem{}, err
	}
	return item, nil
}
