package bot

import (
	"context"
	"fmt"
	"strings"

	"ultrabot/internal/modules/leveling"
	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleRank(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	target := optionalUser(s, i, optionMap(options), "member")

	user, err := b.store.GetUser(ctx, target.ID, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	rank, err := b.store.Rank(ctx, target.ID, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	progress := leveling.ProgressFor(user.XP)
	fields := []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", progress.Level), Inline: true},
		{Name: "Rank", Value: fmt.Sprintf("#%d", rank), Inline: true},
		{Name: "Messages", Value: fmt.Sprintf("%d", user.Messages), Inline: true},
		{Name: "XP", Value: fmt.Sprintf("%s %d / %d", progressBar(progress.Current, progress.Needed), progress.Current, progress.Needed)},
	}
	b.respondEmbed(s, i, b.embed("Rank - "+target.Username, "", b.cfg.Embeds.Primary, fields), false)
}

func (b *Bot) handleLeaderboard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	metric := storage.LeaderboardXP
	if option, ok := optionMap(options)["metric"]; ok {
		metric = option.StringValue()
	}

	users, err := b.store.Leaderboard(ctx, i.GuildID, metric, 10)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if len(users) == 0 {
		b.respond(s, i, "Nobody is on the leaderboard yet.", true)
		return
	}

	medals := []string{"\U0001F947", "\U0001F948", "\U0001F949"}
	var sb strings.Builder
	for idx, user := range users {
		prefix := fmt.Sprintf("**%d.**", idx+1)
		if idx < len(medals) {
			prefix = medals[idx]
		}
		if metric == storage.LeaderboardEconomy {
			fmt.Fprintf(&sb, "%s %s - **%d %s**\n", prefix, mention(user.UserID), user.Balance+user.Bank, cfg.Economy.CurrencyName)
		} else {
			fmt.Fprintf(&sb, "%s %s - level **%d** (%d XP)\n", prefix, mention(user.UserID), user.Level, user.XP)
		}
	}

	title := "Leaderboard - XP"
	if metric == storage.LeaderboardEconomy {
		title = "Leaderboard - " + cfg.Economy.CurrencyName
	}
	b.respondEmbed(s, i, b.embed(title, sb.String(), b.cfg.Embeds.Primary, nil), false)
}

func (b *Bot) handleSetXP(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	xp := opts["xp"].IntValue()
	if xp < 0 {
		b.respond(s, i, b.t(lang, "error.amount"), true)
		return
	}

	level, err := b.leveling.SetXP(ctx, i.GuildID, target.ID, xp)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("%s now has **%d** XP (level %d).", target.Username, xp, level), false)
}

func (b *Bot) handleSetLevel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	level := opts["level"].IntValue()
	if level < 0 {
		b.respond(s, i, b.t(lang, "error.amount"), true)
		return
	}

	if _, err := b.leveling.SetLevel(ctx, i.GuildID, target.ID, int(level)); err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("%s is now level **%d**.", target.Username, level), false)
}

// progressBar renders a ten-segment bar for the XP progress embed.
func progressBar(current, needed int64) string {
	if needed <= 0 {
		return strings.Repeat("▰", 10)
	}
	filled := int(current * 10 / needed)
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}
