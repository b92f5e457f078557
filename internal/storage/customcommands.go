package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type CustomCommand struct {
	GuildID   string
	Name      string
	Response  string
	CreatorID string
	Uses      int64
}

func (s *Store) UpsertCustomCommand(ctx context.Context, command CustomCommand) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_commands (guild_id, name, response, creator_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, name) DO UPDATE SET
			response = excluded.response,
			creator_id = excluded.creator_id
	`, command.GuildID, strings.ToLower(command.Name), command.Response, command.CreatorID)
	return err
}

func (s *Store) GetCustomCommand(ctx context.Context, guildID, name string) (CustomCommand, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT guild_id, name, response, creator_id, uses
		FROM custom_commands WHERE guild_id = ? AND name = ?
	`, guildID, strings.ToLower(name))

	var command CustomCommand
	err := row.Scan(&command.GuildID, &command.Name, &command.Response, &command.CreatorID, &command.Uses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CustomCommand{}, false, nil
		}
		return CustomCommand{}, false, err
	}
	return command, true, nil
}

func (s *Store) ListCustomCommands(ctx context.Context, guildID string) ([]CustomCommand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, name, response, creator_id, uses
		FROM custom_commands WHERE guild_id = ? ORDER BY name
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commands []CustomCommand
	for rows.Next() {
		var command CustomCommand
		if err := rows.Scan(&command.GuildID, &command.Name, &command.Response, &command.CreatorID, &command.Uses); err != nil {
			return nil, err
		}
		commands = append(commands, command)
	}
	return commands, rows.Err()
}

func (s *Store) DeleteCustomCommand(ctx context.Context, guildID, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM custom_commands WHERE guild_id = ? AND name = ?
	`, guildID, strings.ToLower(name))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) BumpCustomCommandUses(ctx context.Context, guildID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE custom_commands SET uses = uses + 1 WHERE guild_id = ? AND name = ?
	`, guildID, strings.ToLower(name))
	return err
}
