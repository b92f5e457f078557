package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleConfig(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}
	if len(options) == 0 {
		return
	}

	sub := options[0]
	if sub.Name == "view" {
		b.respondConfigView(s, i, cfg)
		return
	}

	opts := optionMap(sub.Options)
	switch sub.Name {
	case "prefix":
		prefix := strings.TrimSpace(opts["value"].StringValue())
		if prefix == "" || len(prefix) > 5 {
			b.respond(s, i, "The prefix must be 1 to 5 characters.", true)
			return
		}
		cfg.Prefix = prefix
	case "language":
		cfg.Language = opts["value"].StringValue()
		lang = cfg.Language
	case "welcome":
		cfg.Welcome.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["channel"]; ok {
			cfg.Welcome.Channel = option.ChannelValue(s).ID
		}
		if option, ok := opts["message"]; ok {
			cfg.Welcome.Message = option.StringValue()
		}
		if option, ok := opts["autorole"]; ok {
			cfg.Welcome.AutoRole = option.RoleValue(s, i.GuildID).ID
		}
	case "goodbye":
		cfg.Goodbye.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["channel"]; ok {
			cfg.Goodbye.Channel = option.ChannelValue(s).ID
		}
		if option, ok := opts["message"]; ok {
			cfg.Goodbye.Message = option.StringValue()
		}
	case "leveling":
		cfg.Leveling.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["channel"]; ok {
			cfg.Leveling.AnnounceChannel = option.ChannelValue(s).ID
		}
	case "levelrole":
		level := int(opts["level"].IntValue())
		if level < 1 {
			b.respond(s, i, b.t(lang, "error.amount"), true)
			return
		}
		if cfg.Leveling.RoleRewards == nil {
			cfg.Leveling.RoleRewards = make(map[string]string)
		}
		cfg.Leveling.RoleRewards[strconv.Itoa(level)] = opts["role"].RoleValue(s, i.GuildID).ID
	case "logs":
		cfg.Moderation.LogChannel = opts["channel"].ChannelValue(s).ID
	case "automod":
		cfg.Moderation.AutoMod.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["anti_spam"]; ok {
			cfg.Moderation.AutoMod.AntiSpam = option.BoolValue()
		}
		if option, ok := opts["anti_links"]; ok {
			cfg.Moderation.AutoMod.AntiLinks = option.BoolValue()
		}
		if option, ok := opts["anti_caps"]; ok {
			cfg.Moderation.AutoMod.AntiCaps = option.BoolValue()
		}
		if option, ok := opts["caps_threshold"]; ok {
			threshold := int(option.IntValue())
			if threshold < 1 {
				threshold = 1
			}
			if threshold > 100 {
				threshold = 100
			}
			cfg.Moderation.AutoMod.CapsThreshold = threshold
		}
		if option, ok := opts["max_mentions"]; ok {
			cfg.Moderation.AutoMod.MaxMentions = int(option.IntValue())
		}
	case "bannedword":
		word := strings.ToLower(strings.TrimSpace(opts["word"].StringValue()))
		if word == "" {
			b.respond(s, i, b.t(lang, "error.generic"), true)
			return
		}
		if opts["action"].StringValue() == "add" {
			for _, existing := range cfg.Moderation.AutoMod.BannedWords {
				if existing == word {
					b.respond(s, i, b.t(lang, "config.saved"), true)
					return
				}
			}
			cfg.Moderation.AutoMod.BannedWords = append(cfg.Moderation.AutoMod.BannedWords, word)
		} else {
			kept := cfg.Moderation.AutoMod.BannedWords[:0]
			for _, existing := range cfg.Moderation.AutoMod.BannedWords {
				if existing != word {
					kept = append(kept, existing)
				}
			}
			cfg.Moderation.AutoMod.BannedWords = kept
		}
	case "tickets":
		cfg.Tickets.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["category"]; ok {
			cfg.Tickets.CategoryID = option.ChannelValue(s).ID
		}
		if option, ok := opts["archive_category"]; ok {
			cfg.Tickets.ArchiveCategoryID = option.ChannelValue(s).ID
		}
		if option, ok := opts["support_role"]; ok {
			cfg.Tickets.SupportRole = option.RoleValue(s, i.GuildID).ID
		}
		if option, ok := opts["log_channel"]; ok {
			cfg.Tickets.LogChannel = option.ChannelValue(s).ID
		}
	case "economy":
		cfg.Economy.Enabled = opts["enabled"].BoolValue()
		if option, ok := opts["daily_amount"]; ok {
			amount := option.IntValue()
			if amount < 0 {
				b.respond(s, i, b.t(lang, "error.amount"), true)
				return
			}
			cfg.Economy.DailyAmount = amount
		}
		if option, ok := opts["currency_name"]; ok {
			cfg.Economy.CurrencyName = option.StringValue()
		}
		if option, ok := opts["currency_symbol"]; ok {
			cfg.Economy.CurrencySymbol = option.StringValue()
		}
	default:
		return
	}

	if err := b.store.UpsertGuildConfig(ctx, i.GuildID, cfg); err != nil {
		b.logger.Error("save guild config", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, b.t(lang, "config.saved"), true)
}

func (b *Bot) respondConfigView(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	fields := []*discordgo.MessageEmbedField{
		{Name: "General", Value: fmt.Sprintf("Prefix: `%s`\nLanguage: `%s`", cfg.Prefix, cfg.Language), Inline: true},
		{Name: "Welcome", Value: fmt.Sprintf("%s\nChannel: %s", onOff(cfg.Welcome.Enabled), channelOrNone(cfg.Welcome.Channel)), Inline: true},
		{Name: "Goodbye", Value: fmt.Sprintf("%s\nChannel: %s", onOff(cfg.Goodbye.Enabled), channelOrNone(cfg.Goodbye.Channel)), Inline: true},
		{Name: "Leveling", Value: fmt.Sprintf("%s\nXP: %d-%d / %ds\nRewards: %d", onOff(cfg.Leveling.Enabled), cfg.Leveling.XPMin, cfg.Leveling.XPMax, cfg.Leveling.XPCooldown, len(cfg.Leveling.RoleRewards)), Inline: true},
		{Name: "Economy", Value: fmt.Sprintf("%s\nDaily: %d %s", onOff(cfg.Economy.Enabled), cfg.Economy.DailyAmount, cfg.Economy.CurrencyName), Inline: true},
		{Name: "AutoMod", Value: fmt.Sprintf("%s\nBanned words: %d", onOff(cfg.Moderation.AutoMod.Enabled), len(cfg.Moderation.AutoMod.BannedWords)), Inline: true},
		{Name: "Tickets", Value: fmt.Sprintf("%s\nCategory: %s", onOff(cfg.Tickets.Enabled), channelOrNone(cfg.Tickets.CategoryID)), Inline: true},
		{Name: "Mod logs", Value: channelOrNone(cfg.Moderation.LogChannel), Inline: true},
	}
	b.respondEmbed(s, i, b.embed("Configuration", "", b.cfg.Embeds.Primary, fields), true)
}

func onOff(enabled bool) string {
	if enabled {
		return "✅ enabled"
	}
	return "❌ disabled"
}

func channelOrNone(channelID string) string {
	if channelID == "" {
		return "none"
	}
	return "<#" + channelID + ">"
}
