package bot

import (
	"context"
	"fmt"
	"time"

	"ultrabot/internal/modules/modlog"
	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const maxTimeout = 28 * 24 * time.Hour

func (b *Bot) handleBan(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionBanMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	reason := ""
	if option, ok := opts["reason"]; ok {
		reason = option.StringValue()
	}

	if !canTarget(s, i.GuildID, i.Member, target.ID) {
		b.respond(s, i, b.t(lang, "error.hierarchy"), true)
		return
	}
	if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 0); err != nil {
		b.logger.Warn("ban failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, target.ID, modlog.ActionBan, reason)
	b.respondEmbed(s, i, b.embed("Ban", fmt.Sprintf("%s was banned.", target.Username), b.cfg.Embeds.Warning, nil), false)
}

func (b *Bot) handleKick(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	reason := ""
	if option, ok := opts["reason"]; ok {
		reason = option.StringValue()
	}

	if !canTarget(s, i.GuildID, i.Member, target.ID) {
		b.respond(s, i, b.t(lang, "error.hierarchy"), true)
		return
	}
	if err := s.GuildMemberDeleteWithReason(i.GuildID, target.ID, reason); err != nil {
		b.logger.Warn("kick failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, target.ID, modlog.ActionKick, reason)
	b.respondEmbed(s, i, b.embed("Kick", fmt.Sprintf("%s was kicked.", target.Username), b.cfg.Embeds.Warning, nil), false)
}

func (b *Bot) handleMute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	duration, err := utils.ParseDuration(opts["duration"].StringValue())
	if err != nil {
		b.respond(s, i, err.Error(), true)
		return
	}
	if duration > maxTimeout {
		duration = maxTimeout
	}
	reason := ""
	if option, ok := opts["reason"]; ok {
		reason = option.StringValue()
	}

	if !canTarget(s, i.GuildID, i.Member, target.ID) {
		b.respond(s, i, b.t(lang, "error.hierarchy"), true)
		return
	}
	until := time.Now().Add(duration)
	if err := s.GuildMemberTimeout(i.GuildID, target.ID, &until); err != nil {
		b.logger.Warn("mute failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, target.ID, modlog.ActionMute, reason)
	b.respondEmbed(s, i, b.embed("Mute", fmt.Sprintf("%s is muted for %s.", target.Username, utils.FormatDuration(duration)), b.cfg.Embeds.Warning, nil), false)
}

func (b *Bot) handleUnmute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	target := optionMap(options)["member"].UserValue(s)
	if err := s.GuildMemberTimeout(i.GuildID, target.ID, nil); err != nil {
		b.logger.Warn("unmute failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, target.ID, modlog.ActionUnmute, "")
	b.respondEmbed(s, i, b.embed("Unmute", fmt.Sprintf("%s is no longer muted.", target.Username), b.cfg.Embeds.Success, nil), false)
}

func (b *Bot) handleWarn(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	reason := opts["reason"].StringValue()

	if !canTarget(s, i.GuildID, i.Member, target.ID) {
		b.respond(s, i, b.t(lang, "error.hierarchy"), true)
		return
	}

	moderator := interactionUser(i)
	if _, err := b.store.AddWarning(ctx, storage.Warning{
		GuildID:     i.GuildID,
		UserID:      target.ID,
		ModeratorID: moderator.ID,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}); err != nil {
		b.logger.Error("add warning", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	// Best effort DM; members with closed DMs just miss the notice.
	guildName := i.GuildID
	if guild, err := s.State.Guild(i.GuildID); err == nil && guild != nil {
		guildName = guild.Name
	}
	if channel, err := s.UserChannelCreate(target.ID); err == nil {
		_, _ = s.ChannelMessageSend(channel.ID, b.t(lang, "warn.dm", guildName, reason))
	}

	count, _ := b.store.CountWarnings(ctx, i.GuildID, target.ID)
	b.modlog.Log(ctx, i.GuildID, moderator.ID, target.ID, modlog.ActionWarn, reason)
	b.respondEmbed(s, i, b.embed("Warning",
		fmt.Sprintf("%s was warned (%d total): %s", target.Username, count, reason),
		b.cfg.Embeds.Warning, nil), false)
}

func (b *Bot) handleWarnings(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	target := optionMap(options)["member"].UserValue(s)
	warnings, err := b.store.ListWarnings(ctx, i.GuildID, target.ID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	if len(warnings) == 0 {
		b.respondEmbed(s, i, b.embed("Warnings", fmt.Sprintf("%s has no warnings.", target.Username), b.cfg.Embeds.Success, nil), true)
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(warnings))
	for _, warning := range warnings {
		if len(fields) == 10 {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d - %s", warning.ID, warning.CreatedAt.Format("02/01/2006")),
			Value: fmt.Sprintf("%s (by %s)", warning.Reason, mention(warning.ModeratorID)),
		})
	}
	b.respondEmbed(s, i, b.embed("Warnings",
		fmt.Sprintf("%s has %d warning(s).", target.Username, len(warnings)),
		b.cfg.Embeds.Warning, fields), true)
}

func (b *Bot) handleClearWarns(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	target := optionMap(options)["member"].UserValue(s)
	removed, err := b.store.ClearWarnings(ctx, i.GuildID, target.ID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, target.ID, modlog.ActionClearWarns, fmt.Sprintf("%d removed", removed))
	b.respondEmbed(s, i, b.embed("Warnings cleared",
		fmt.Sprintf("Removed %d warning(s) from %s.", removed, target.Username),
		b.cfg.Embeds.Success, nil), false)
}

func (b *Bot) handleClear(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageMessages) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	count := optionMap(options)["count"].IntValue()
	if count < 1 {
		count = 1
	}
	if count > 100 {
		count = 100
	}

	messages, err := s.ChannelMessages(i.ChannelID, int(count), "", "", "")
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	ids := make([]string, 0, len(messages))
	for _, message := range messages {
		ids = append(ids, message.ID)
	}
	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		b.logger.Warn("bulk delete failed", zap.String("channel_id", i.ChannelID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, "", modlog.ActionClear, fmt.Sprintf("%d messages in <#%s>", len(ids), i.ChannelID))
	b.respond(s, i, fmt.Sprintf("Deleted %d messages.", len(ids)), true)
}

func (b *Bot) handleSlowmode(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageChannels) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	seconds := int(optionMap(options)["seconds"].IntValue())
	if seconds < 0 {
		seconds = 0
	}
	if seconds > 21600 {
		seconds = 21600
	}

	if _, err := s.ChannelEditComplex(i.ChannelID, &discordgo.ChannelEdit{RateLimitPerUser: &seconds}); err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, "", modlog.ActionSlowmode, fmt.Sprintf("%ds in <#%s>", seconds, i.ChannelID))
	b.respond(s, i, fmt.Sprintf("Slowmode set to %d seconds.", seconds), false)
}

func (b *Bot) handleLock(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, lock bool) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageChannels) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	// The @everyone role shares the guild's ID.
	var err error
	action := modlog.ActionUnlock
	if lock {
		action = modlog.ActionLock
		err = s.ChannelPermissionSet(i.ChannelID, i.GuildID, discordgo.PermissionOverwriteTypeRole, 0, discordgo.PermissionSendMessages)
	} else {
		err = s.ChannelPermissionSet(i.ChannelID, i.GuildID, discordgo.PermissionOverwriteTypeRole, 0, 0)
	}
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	b.modlog.Log(ctx, i.GuildID, interactionUser(i).ID, "", action, "<#"+i.ChannelID+">")
	if lock {
		b.respond(s, i, "\U0001F512 Channel locked.", false)
	} else {
		b.respond(s, i, "\U0001F513 Channel unlocked.", false)
	}
}
