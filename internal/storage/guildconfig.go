package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// GuildConfig is the per-guild configuration document. It is persisted as a
// single JSON blob in the guilds table; reads decode the stored blob over a
// value pre-filled with defaults, so nested objects merge key by key while
// scalars and arrays present in the blob replace the default wholesale.
type GuildConfig struct {
	Prefix     string           `json:"prefix"`
	Language   string           `json:"language"`
	Welcome    WelcomeConfig    `json:"welcome"`
	Goodbye    GoodbyeConfig    `json:"goodbye"`
	Leveling   LevelingConfig   `json:"leveling"`
	Economy    EconomyConfig    `json:"economy"`
	Moderation ModerationConfig `json:"moderation"`
	Tickets    TicketsConfig    `json:"tickets"`
}

type WelcomeConfig struct {
	Enabled   bool   `json:"enabled"`
	Channel   string `json:"channel"`
	Message   string `json:"message"`
	DMEnabled bool   `json:"dm_enabled"`
	DMMessage string `json:"dm_message"`
	AutoRole  string `json:"role"`
}

type GoodbyeConfig struct {
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
	Message string `json:"message"`
}

type LevelingConfig struct {
	Enabled         bool              `json:"enabled"`
	XPMin           int               `json:"xp_min"`
	XPMax           int               `json:"xp_max"`
	XPCooldown      int               `json:"xp_cooldown"`
	AnnounceChannel string            `json:"announce_channel"`
	RoleRewards     map[string]string `json:"role_rewards"`
}

type EconomyConfig struct {
	Enabled        bool   `json:"enabled"`
	DailyAmount    int64  `json:"daily_amount"`
	WorkMin        int64  `json:"work_min"`
	WorkMax        int64  `json:"work_max"`
	WorkCooldown   int    `json:"work_cooldown"`
	CurrencyName   string `json:"currency_name"`
	CurrencySymbol string `json:"currency_symbol"`
}

type ModerationConfig struct {
	LogChannel string        `json:"log_channel"`
	MuteRole   string        `json:"mute_role"`
	AutoMod    AutoModConfig `json:"auto_mod"`
}

type AutoModConfig struct {
	Enabled       bool     `json:"enabled"`
	AntiSpam      bool     `json:"anti_spam"`
	AntiLinks     bool     `json:"anti_links"`
	AntiCaps      bool     `json:"anti_caps"`
	CapsThreshold int      `json:"caps_threshold"`
	MaxMentions   int      `json:"max_mentions"`
	BannedWords   []string `json:"banned_words"`
}

type TicketsConfig struct {
	Enabled           bool             `json:"enabled"`
	CategoryID        string           `json:"category_id"`
	LogChannel        string           `json:"log_channel"`
	SupportRole       string           `json:"support_role"`
	ArchiveCategoryID string           `json:"archive_category_id"`
	Categories        []TicketCategory `json:"categories"`
}

type TicketCategory struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

func DefaultGuildConfig() GuildConfig {
	return GuildConfig{
		Prefix:   "!",
		Language: "fr",
		Welcome: WelcomeConfig{
			Message:   "Welcome {user} to {server}! You are member #{count}.",
			DMMessage: "Welcome to {server}! Make sure to read the rules.",
		},
		Goodbye: GoodbyeConfig{
			Message: "{username} has left the server.",
		},
		Leveling: LevelingConfig{
			Enabled:     true,
			XPMin:       15,
			XPMax:       25,
			XPCooldown:  60,
			RoleRewards: map[string]string{},
		},
		Economy: EconomyConfig{
			Enabled:        true,
			DailyAmount:    100,
			WorkMin:        50,
			WorkMax:        200,
			WorkCooldown:   3600,
			CurrencyName:   "coins",
			CurrencySymbol: "\U0001FA99",
		},
		Moderation: ModerationConfig{
			AutoMod: AutoModConfig{
				AntiSpam:      true,
				AntiLinks:     false,
				AntiCaps:      false,
				CapsThreshold: 70,
				MaxMentions:   5,
				BannedWords:   []string{},
			},
		},
		Tickets: TicketsConfig{
			Categories: []TicketCategory{
				{Name: "Support", Emoji: "\U0001F527", Description: "General support"},
				{Name: "Report", Emoji: "\U0001F6A8", Description: "Report a member"},
				{Name: "Suggestion", Emoji: "\U0001F4A1", Description: "Make a suggestion"},
				{Name: "Other", Emoji: "\U0001F4DD", Description: "Anything else"},
			},
		},
	}
}

func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (GuildConfig, error) {
	result := DefaultGuildConfig()

	var blob string
	row := s.db.QueryRowContext(ctx, `SELECT config FROM guilds WHERE guild_id = ?`, guildID)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return GuildConfig{}, err
	}

	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return GuildConfig{}, fmt.Errorf("decode guild config: %w", err)
	}
	return result, nil
}

func (s *Store) UpsertGuildConfig(ctx context.Context, guildID string, cfg GuildConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode guild config: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guilds (guild_id, config) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET config = excluded.config
	`, guildID, string(blob))
	return err
}
