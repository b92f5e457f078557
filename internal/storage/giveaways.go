package storage

import (
	"context"
	"time"
)

type Giveaway struct {
	MessageID string
	ChannelID string
	GuildID   string
	Prize     string
	Winners   int
	EndTime   time.Time
	Ended     bool
	HostID    string
}

func (s *Store) CreateGiveaway(ctx context.Context, giveaway Giveaway) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO giveaways (message_id, channel_id, guild_id, prize, winners, end_time, ended, host_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		giveaway.MessageID,
		giveaway.ChannelID,
		giveaway.GuildID,
		giveaway.Prize,
		giveaway.Winners,
		giveaway.EndTime.Unix(),
		boolToInt(giveaway.Ended),
		giveaway.HostID,
	)
	return err
}

// ListDueGiveaways returns giveaways whose end time has passed and that have
// not been finalized yet.
func (s *Store) ListDueGiveaways(ctx context.Context, now time.Time) ([]Giveaway, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, channel_id, guild_id, prize, winners, end_time, host_id
		FROM giveaways
		WHERE ended = 0 AND end_time <= ?
	`, now.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var giveaways []Giveaway
	for rows.Next() {
		var giveaway Giveaway
		var end int64
		if err := rows.Scan(&giveaway.MessageID, &giveaway.ChannelID, &giveaway.GuildID, &giveaway.Prize, &giveaway.Winners, &end, &giveaway.HostID); err != nil {
			return nil, err
		}
		giveaway.EndTime = time.Unix(end, 0)
		giveaways = append(giveaways, giveaway)
	}
	return giveaways, rows.Err()
}

// EndGiveaway flips the terminal flag. Finalization happens at most once;
// the sweeper calls this even when winner selection failed.
func (s *Store) EndGiveaway(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE giveaways SET ended = 1 WHERE message_id = ?`, messageID)
	return err
}
