package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ultrabot/internal/config"
	"ultrabot/internal/giveaways"
	"ultrabot/internal/modules/automod"
	"ultrabot/internal/modules/economy"
	"ultrabot/internal/modules/leveling"
	"ultrabot/internal/modules/modlog"
	"ultrabot/internal/storage"
	"ultrabot/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.Store
	session  *discordgo.Session
	automod  *automod.Filter
	leveling *leveling.Engine
	economy  *economy.Engine
	tickets  *tickets.Workflow
	sweeper  *giveaways.Sweeper
	modlog   *modlog.Logger

	pollMu sync.Mutex
	polls  map[string]*pollState

	cancelSweeper context.CancelFunc
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		session:  session,
		automod:  automod.New(logger),
		leveling: leveling.New(store, logger),
		economy:  economy.New(store, logger),
		modlog:   modlog.New(logger),
		polls:    make(map[string]*pollState),
	}
	b.modlog.SetNotifier(b.notifyModLog)
	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	b.tickets = tickets.NewWorkflow(b.store, b.session, b.logger, b.session.State.User.ID)
	b.sweeper = giveaways.NewSweeper(b.store, b.session, b.logger)

	ctx, cancel := context.WithCancel(context.Background())
	b.cancelSweeper = cancel
	go b.sweeper.Run(ctx)

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	b.logger.Info("bot started", zap.String("user_id", b.session.State.User.ID))
	return nil
}

func (b *Bot) Stop() {
	if b.cancelSweeper != nil {
		b.cancelSweeper()
	}
	if err := b.session.Close(); err != nil {
		b.logger.Warn("session close", zap.Error(err))
	}
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	_ = s.UpdateGameStatus(0, "/help")
}

// guildConfig loads the per-guild settings document. A load failure falls
// back to the defaults so a storage hiccup never disables the bot.
func (b *Bot) guildConfig(ctx context.Context, guildID string) storage.GuildConfig {
	cfg, err := b.store.GetGuildConfig(ctx, guildID)
	if err != nil {
		b.logger.Warn("load guild config", zap.String("guild_id", guildID), zap.Error(err))
		cfg = storage.DefaultGuildConfig()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = b.cfg.DefaultPrefix
	}
	if cfg.Language == "" {
		cfg.Language = b.cfg.DefaultLanguage
	}
	return cfg
}

func (b *Bot) notifyModLog(ctx context.Context, entry modlog.Entry) {
	cfg := b.guildConfig(ctx, entry.GuildID)
	if cfg.Moderation.LogChannel == "" {
		return
	}
	embed := b.embed(
		"Moderation: "+entry.Action,
		entry.Reason,
		b.cfg.Embeds.Warning,
		[]*discordgo.MessageEmbedField{
			{Name: "Member", Value: mention(entry.TargetID), Inline: true},
			{Name: "Moderator", Value: mention(entry.ModeratorID), Inline: true},
		},
	)
	if _, err := b.session.ChannelMessageSendEmbed(cfg.Moderation.LogChannel, embed); err != nil {
		b.logger.Warn("mod log send", zap.String("guild_id", entry.GuildID), zap.Error(err))
	}
}

func (b *Bot) embed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Warn("interaction respond", zap.Error(err))
	}
}

func (b *Bot) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Warn("interaction respond", zap.Error(err))
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func hasPermission(i *discordgo.InteractionCreate, permission int64) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return i.Member.Permissions&permission != 0
}

// canTarget enforces role hierarchy: a moderator may not sanction a member
// whose top role sits at or above their own.
func canTarget(s *discordgo.Session, guildID string, moderator *discordgo.Member, targetID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		return true
	}
	if guild.OwnerID == moderator.User.ID {
		return true
	}
	if guild.OwnerID == targetID {
		return false
	}
	target, err := s.GuildMember(guildID, targetID)
	if err != nil {
		return false
	}
	return topRolePosition(guild, moderator.Roles) > topRolePosition(guild, target.Roles)
}

func topRolePosition(guild *discordgo.Guild, roleIDs []string) int {
	top := -1
	for _, roleID := range roleIDs {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > top {
				top = role.Position
			}
		}
	}
	return top
}

func mention(userID string) string {
	return "<@" + userID + ">"
}
