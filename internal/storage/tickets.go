package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type Ticket struct {
	ID        int64
	ChannelID string
	GuildID   string
	UserID    string
	Category  string
	Status    string
	ClaimedBy string
	CreatedAt time.Time
	ClosedAt  *time.Time
}

func (s *Store) CreateTicket(ctx context.Context, ticket Ticket) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (channel_id, guild_id, user_id, category, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ticket.ChannelID, ticket.GuildID, ticket.UserID, ticket.Category, TicketOpen, ticket.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetTicketByChannel(ctx context.Context, channelID string) (Ticket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, channel_id, guild_id, user_id, category, status, claimed_by, created_at, closed_at
		FROM tickets WHERE channel_id = ?`, channelID)

	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ticket{}, false, nil
		}
		return Ticket{}, false, err
	}
	return ticket, true, nil
}

// OpenTicketFor reports the user's currently open ticket in the guild, if
// any. At most one open ticket per (user, guild) is allowed.
func (s *Store) OpenTicketFor(ctx context.Context, guildID, userID string) (Ticket, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, channel_id, guild_id, user_id, category, status, claimed_by, created_at, closed_at
		FROM tickets WHERE guild_id = ? AND user_id = ? AND status = ?`, guildID, userID, TicketOpen)

	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ticket{}, false, nil
		}
		return Ticket{}, false, err
	}
	return ticket, true, nil
}

// CloseTicket marks the ticket closed. Already-closed tickets are left
// untouched so closed_at is written exactly once.
func (s *Store) CloseTicket(ctx context.Context, channelID string, closedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, closed_at = ?
		WHERE channel_id = ? AND status = ?
	`, TicketClosed, closedAt.Unix(), channelID, TicketOpen)
	return err
}

func (s *Store) ClaimTicket(ctx context.Context, channelID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET claimed_by = ? WHERE channel_id = ? AND status = ?
	`, userID, channelID, TicketOpen)
	return err
}

func (s *Store) CountTickets(ctx context.Context, guildID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE guild_id = ?`, guildID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTicket(row *sql.Row) (Ticket, error) {
	var ticket Ticket
	var created int64
	var closed sql.NullInt64
	err := row.Scan(
		&ticket.ID,
		&ticket.ChannelID,
		&ticket.GuildID,
		&ticket.UserID,
		&ticket.Category,
		&ticket.Status,
		&ticket.ClaimedBy,
		&created,
		&closed,
	)
	if err != nil {
		return Ticket{}, err
	}
	ticket.CreatedAt = time.Unix(created, 0)
	if closed.Valid {
		value := time.Unix(closed.Int64, 0)
		ticket.ClosedAt = &value
	}
	return ticket, nil
}
