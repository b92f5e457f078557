package bot

import (
	"context"
	"fmt"
	"time"

	"ultrabot/internal/modules/leveling"
	"ultrabot/internal/storage"
	"ultrabot/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleRemind(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	opts := optionMap(options)
	duration, err := utils.ParseDuration(opts["duration"].StringValue())
	if err != nil {
		b.respond(s, i, err.Error(), true)
		return
	}
	message := opts["message"].StringValue()
	user := interactionUser(i)
	channelID := i.ChannelID

	// Reminders live in memory only; a restart drops them.
	time.AfterFunc(duration, func() {
		content := mention(user.ID) + " " + b.t(lang, "remind.fire", message)
		if dm, err := s.UserChannelCreate(user.ID); err == nil {
			if _, err := s.ChannelMessageSend(dm.ID, b.t(lang, "remind.fire", message)); err == nil {
				return
			}
		}
		if _, err := s.ChannelMessageSend(channelID, content); err != nil {
			b.logger.Warn("reminder delivery", zap.String("user_id", user.ID), zap.Error(err))
		}
	})

	b.respond(s, i, b.t(lang, "remind.set", utils.FormatDuration(duration)), true)
}

func (b *Bot) handleUserInfo(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	target := optionalUser(s, i, optionMap(options), "member")

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	record, err := b.store.GetUser(ctx, target.ID, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	created, _ := discordgo.SnowflakeTimestamp(target.ID)
	fields := []*discordgo.MessageEmbedField{
		{Name: "ID", Value: target.ID, Inline: true},
		{Name: "Created", Value: created.Format("02/01/2006"), Inline: true},
		{Name: "Joined", Value: member.JoinedAt.Format("02/01/2006"), Inline: true},
		{Name: "Level", Value: fmt.Sprintf("%d (%d XP)", leveling.Level(record.XP), record.XP), Inline: true},
		{Name: "Balance", Value: fmt.Sprintf("%d %s", record.Balance+record.Bank, cfg.Economy.CurrencyName), Inline: true},
		{Name: "Roles", Value: fmt.Sprintf("%d", len(member.Roles)), Inline: true},
	}
	embed := b.embed("User - "+target.Username, "", b.cfg.Embeds.Primary, fields)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("256")}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleServerInfo(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	guild, err := s.State.Guild(i.GuildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			b.respond(s, i, b.t(lang, "error.generic"), true)
			return
		}
	}

	openTickets, _ := b.store.CountTickets(ctx, i.GuildID)
	created, _ := discordgo.SnowflakeTimestamp(guild.ID)
	fields := []*discordgo.MessageEmbedField{
		{Name: "Owner", Value: mention(guild.OwnerID), Inline: true},
		{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
		{Name: "Created", Value: created.Format("02/01/2006"), Inline: true},
		{Name: "Channels", Value: fmt.Sprintf("%d", len(guild.Channels)), Inline: true},
		{Name: "Roles", Value: fmt.Sprintf("%d", len(guild.Roles)), Inline: true},
		{Name: "Open tickets", Value: fmt.Sprintf("%d", openTickets), Inline: true},
	}
	embed := b.embed(guild.Name, guild.Description, b.cfg.Embeds.Primary, fields)
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleAvatar(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	target := optionalUser(s, i, optionMap(options), "member")
	embed := b.embed("Avatar - "+target.Username, "", b.cfg.Embeds.Primary, nil)
	embed.Image = &discordgo.MessageEmbedImage{URL: target.AvatarURL("1024")}
	b.respondEmbed(s, i, embed, false)
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Moderation", Value: "`/ban` `/kick` `/mute` `/unmute` `/warn` `/warnings` `/clearwarns` `/clear` `/slowmode` `/lock` `/unlock`"},
		{Name: "Leveling", Value: "`/rank` `/leaderboard` `/setxp` `/setlevel`"},
		{Name: "Economy", Value: "`/balance` `/daily` `/work` `/pay` `/deposit` `/withdraw` `/shop` `/inventory` `/additem` `/removeitem` `/addcash` `/removecash`"},
		{Name: "Tickets", Value: "`/ticket panel` `/ticket close` `/ticket claim` `/ticket transcript` `/ticket add` `/ticket remove`"},
		{Name: "Community", Value: "`/giveaway` `/poll` `/remind` `/customcmd`"},
		{Name: "Info", Value: "`/userinfo` `/serverinfo` `/avatar`"},
		{Name: "Fun", Value: "`/8ball` `/coinflip` `/roll` `/rps` `/joke`"},
		{Name: "Admin", Value: "`/config view` `/config prefix` `/config language` `/config welcome` `/config goodbye` `/config leveling` `/config levelrole` `/config logs` `/config automod` `/config bannedword` `/config tickets` `/config economy`"},
	}
	b.respondEmbed(s, i, b.embed("Commands", "", b.cfg.Embeds.Primary, fields), true)
}
