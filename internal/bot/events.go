package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ultrabot/internal/modules/automod"
	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx := context.Background()
	cfg := b.guildConfig(ctx, m.GuildID)

	// Auto-moderation runs first; a flagged message earns no XP.
	verdict, flagged := b.automod.Check(cfg.Moderation.AutoMod, automod.Message{
		GuildID:        m.GuildID,
		AuthorID:       m.Author.ID,
		Content:        m.Content,
		Mentions:       len(m.Mentions),
		CanBypassLinks: canBypassLinks(s.State, m.Message),
	}, time.Now())
	if flagged {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			b.logger.Warn("automod delete", zap.String("channel_id", m.ChannelID), zap.Error(err))
		}
		notice, err := s.ChannelMessageSend(m.ChannelID, b.t(cfg.Language, "automod."+string(verdict.Rule), mention(m.Author.ID)))
		if err == nil {
			time.AfterFunc(5*time.Second, func() {
				_ = s.ChannelMessageDelete(m.ChannelID, notice.ID)
			})
		}
		return
	}

	// Custom command invocations still count toward XP.
	b.grantMessageXP(ctx, s, m, cfg)

	if strings.HasPrefix(m.Content, cfg.Prefix) {
		b.dispatchCustomCommand(ctx, s, m, cfg.Prefix)
	}
}

// dispatchCustomCommand resolves a prefixed message against the guild's
// saved commands. It reports whether one fired.
func (b *Bot) dispatchCustomCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, prefix string) bool {
	name := strings.TrimPrefix(m.Content, prefix)
	if idx := strings.IndexByte(name, ' '); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}

	command, found, err := b.store.GetCustomCommand(ctx, m.GuildID, name)
	if err != nil || !found {
		return false
	}

	guild, _ := s.State.Guild(m.GuildID)
	if _, err := s.ChannelMessageSend(m.ChannelID, renderCustomResponse(command.Response, m.Author, guild)); err != nil {
		b.logger.Warn("custom command send", zap.String("guild_id", m.GuildID), zap.Error(err))
		return true
	}
	if err := b.store.BumpCustomCommandUses(ctx, m.GuildID, name); err != nil {
		b.logger.Warn("custom command bump", zap.String("guild_id", m.GuildID), zap.Error(err))
	}
	return true
}

func (b *Bot) grantMessageXP(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, cfg storage.GuildConfig) {
	result, granted, err := b.leveling.HandleMessage(ctx, m.GuildID, m.Author.ID, cfg.Leveling, time.Now())
	if err != nil {
		b.logger.Warn("xp grant", zap.String("guild_id", m.GuildID), zap.Error(err))
		return
	}
	if !granted || !result.LeveledUp {
		return
	}

	channelID := cfg.Leveling.AnnounceChannel
	if channelID == "" {
		channelID = m.ChannelID
	}
	if _, err := s.ChannelMessageSend(channelID, b.t(cfg.Language, "level.up", mention(m.Author.ID), result.NewLevel)); err != nil {
		b.logger.Warn("level announce", zap.String("guild_id", m.GuildID), zap.Error(err))
	}
	if result.RewardRoleID != "" {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.Author.ID, result.RewardRoleID); err != nil {
			b.logger.Warn("level reward role", zap.String("guild_id", m.GuildID), zap.String("role_id", result.RewardRoleID), zap.Error(err))
		}
	}
}

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx := context.Background()
	cfg := b.guildConfig(ctx, m.GuildID)
	if !cfg.Welcome.Enabled {
		return
	}

	guild, _ := s.State.Guild(m.GuildID)
	if cfg.Welcome.Channel != "" && cfg.Welcome.Message != "" {
		if _, err := s.ChannelMessageSend(cfg.Welcome.Channel, renderMemberMessage(cfg.Welcome.Message, m.User, guild)); err != nil {
			b.logger.Warn("welcome send", zap.String("guild_id", m.GuildID), zap.Error(err))
		}
	}
	if cfg.Welcome.DMEnabled && cfg.Welcome.DMMessage != "" {
		if dm, err := s.UserChannelCreate(m.User.ID); err == nil {
			_, _ = s.ChannelMessageSend(dm.ID, renderMemberMessage(cfg.Welcome.DMMessage, m.User, guild))
		}
	}
	if cfg.Welcome.AutoRole != "" {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, cfg.Welcome.AutoRole); err != nil {
			b.logger.Warn("auto role", zap.String("guild_id", m.GuildID), zap.String("role_id", cfg.Welcome.AutoRole), zap.Error(err))
		}
	}
}

func (b *Bot) onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	ctx := context.Background()
	cfg := b.guildConfig(ctx, m.GuildID)
	if !cfg.Goodbye.Enabled || cfg.Goodbye.Channel == "" || cfg.Goodbye.Message == "" {
		return
	}

	guild, _ := s.State.Guild(m.GuildID)
	if _, err := s.ChannelMessageSend(cfg.Goodbye.Channel, renderMemberMessage(cfg.Goodbye.Message, m.User, guild)); err != nil {
		b.logger.Warn("goodbye send", zap.String("guild_id", m.GuildID), zap.Error(err))
	}
}

// renderMemberMessage fills welcome/goodbye templates.
func renderMemberMessage(template string, user *discordgo.User, guild *discordgo.Guild) string {
	replacements := []string{
		"{user}", user.Mention(),
		"{username}", user.Username,
	}
	if guild != nil {
		replacements = append(replacements,
			"{server}", guild.Name,
			"{count}", strconv.Itoa(guild.MemberCount),
		)
	}
	return strings.NewReplacer(replacements...).Replace(template)
}

// canBypassLinks lets staff with manage-messages post links even when the
// anti-link rule is on. Gateway message payloads carry no resolved
// permissions, so they are computed from the cached guild roles.
func canBypassLinks(state *discordgo.State, m *discordgo.Message) bool {
	if state == nil || m.Author == nil {
		return false
	}
	permissions, err := state.MessagePermissions(m)
	if err != nil {
		return false
	}
	return permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageMessages) != 0
}
