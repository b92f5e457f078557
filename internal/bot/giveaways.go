package bot

import (
	"context"
	"fmt"
	"time"

	"ultrabot/internal/giveaways"
	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleGiveaway(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	duration, err := utils.ParseDuration(opts["duration"].StringValue())
	if err != nil {
		b.respond(s, i, err.Error(), true)
		return
	}
	winners := int(opts["winners"].IntValue())
	if winners < 1 {
		winners = 1
	}
	prize := opts["prize"].StringValue()
	host := interactionUser(i)
	ends := time.Now().Add(duration)

	embed := &discordgo.MessageEmbed{
		Title: "\U0001F389 GIVEAWAY \U0001F389",
		Description: fmt.Sprintf("Prize: **%s**\nWinners: **%d**\nHosted by %s\nReact with %s to enter!",
			prize, winners, mention(host.ID), giveaways.Emoji),
		Color:     b.cfg.Embeds.Primary,
		Timestamp: ends.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Ends"},
	}
	message, err := s.ChannelMessageSendEmbed(i.ChannelID, embed)
	if err != nil {
		b.logger.Warn("giveaway post", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	// Seed the reaction so entrants only have to click it.
	if err := s.MessageReactionAdd(i.ChannelID, message.ID, giveaways.Emoji); err != nil {
		b.logger.Warn("giveaway seed reaction", zap.String("message_id", message.ID), zap.Error(err))
	}

	err = b.store.CreateGiveaway(ctx, storage.Giveaway{
		MessageID: message.ID,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
		Prize:     prize,
		Winners:   winners,
		EndTime:   ends,
		HostID:    host.ID,
	})
	if err != nil {
		b.logger.Error("giveaway persist", zap.String("message_id", message.ID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.respond(s, i, b.t(lang, "giveaway.started",
		giveaways.Emoji, giveaways.Emoji, prize, winners, giveaways.Emoji, utils.FormatDuration(duration)), true)
}
