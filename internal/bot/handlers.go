package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	if i.GuildID == "" {
		b.respond(s, i, b.t(b.cfg.DefaultLanguage, "error.guild_only"), true)
		return
	}
	cfg := b.guildConfig(ctx, i.GuildID)
	options := data.Options

	switch data.Name {
	case "ban":
		b.handleBan(ctx, s, i, cfg, options)
	case "kick":
		b.handleKick(ctx, s, i, cfg, options)
	case "mute":
		b.handleMute(ctx, s, i, cfg, options)
	case "unmute":
		b.handleUnmute(ctx, s, i, cfg, options)
	case "warn":
		b.handleWarn(ctx, s, i, cfg, options)
	case "warnings":
		b.handleWarnings(ctx, s, i, cfg, options)
	case "clearwarns":
		b.handleClearWarns(ctx, s, i, cfg, options)
	case "clear":
		b.handleClear(ctx, s, i, cfg, options)
	case "slowmode":
		b.handleSlowmode(ctx, s, i, cfg, options)
	case "lock":
		b.handleLock(ctx, s, i, cfg, true)
	case "unlock":
		b.handleLock(ctx, s, i, cfg, false)
	case "rank":
		b.handleRank(ctx, s, i, cfg, options)
	case "leaderboard":
		b.handleLeaderboard(ctx, s, i, cfg, options)
	case "setxp":
		b.handleSetXP(ctx, s, i, cfg, options)
	case "setlevel":
		b.handleSetLevel(ctx, s, i, cfg, options)
	case "balance":
		b.handleBalance(ctx, s, i, cfg, options)
	case "daily":
		b.handleDaily(ctx, s, i, cfg)
	case "work":
		b.handleWork(ctx, s, i, cfg)
	case "pay":
		b.handlePay(ctx, s, i, cfg, options)
	case "deposit":
		b.handleBankMove(ctx, s, i, cfg, options, true)
	case "withdraw":
		b.handleBankMove(ctx, s, i, cfg, options, false)
	case "addcash":
		b.handleAdjustCash(ctx, s, i, cfg, options, 1)
	case "removecash":
		b.handleAdjustCash(ctx, s, i, cfg, options, -1)
	case "shop":
		b.handleShop(ctx, s, i, cfg)
	case "additem":
		b.handleAddItem(ctx, s, i, cfg, options)
	case "removeitem":
		b.handleRemoveItem(ctx, s, i, cfg, options)
	case "inventory":
		b.handleInventory(ctx, s, i, cfg)
	case "ticket":
		b.handleTicket(ctx, s, i, cfg, options)
	case "giveaway":
		b.handleGiveaway(ctx, s, i, cfg, options)
	case "customcmd":
		b.handleCustomCmd(ctx, s, i, cfg, options)
	case "poll":
		b.handlePoll(s, i, cfg, options)
	case "remind":
		b.handleRemind(s, i, cfg, options)
	case "userinfo":
		b.handleUserInfo(ctx, s, i, cfg, options)
	case "serverinfo":
		b.handleServerInfo(ctx, s, i, cfg)
	case "avatar":
		b.handleAvatar(s, i, cfg, options)
	case "help":
		b.handleHelp(s, i, cfg)
	case "8ball":
		b.handleEightBall(s, i, cfg, options)
	case "coinflip":
		b.handleCoinflip(s, i, cfg)
	case "roll":
		b.handleRoll(s, i, cfg, options)
	case "rps":
		b.handleRPS(s, i, cfg, options)
	case "joke":
		b.handleJoke(s, i, cfg)
	case "config":
		b.handleConfig(ctx, s, i, cfg, options)
	default:
		b.logger.Warn("unknown command", zap.String("name", data.Name))
	}
}

func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	cfg := b.guildConfig(ctx, i.GuildID)
	customID := data.CustomID

	switch {
	case customID == "ticket_category":
		b.handleTicketCategorySelect(ctx, s, i, cfg, data)
	case customID == "ticket_close":
		b.handleTicketCloseButton(ctx, s, i, cfg)
	case customID == "ticket_claim":
		b.handleTicketClaimButton(ctx, s, i, cfg)
	case customID == "ticket_transcript":
		b.handleTicketTranscriptButton(ctx, s, i, cfg)
	case strings.HasPrefix(customID, "ticket_confirm:"):
		b.handleTicketConfirm(ctx, s, i, cfg, strings.TrimPrefix(customID, "ticket_confirm:"), false)
	case strings.HasPrefix(customID, "ticket_archive:"):
		b.handleTicketConfirm(ctx, s, i, cfg, strings.TrimPrefix(customID, "ticket_archive:"), true)
	case strings.HasPrefix(customID, "ticket_cancel:"):
		b.handleTicketCancel(s, i, cfg, strings.TrimPrefix(customID, "ticket_cancel:"))
	case customID == "shop_buy":
		b.handleShopBuy(ctx, s, i, cfg, data)
	case strings.HasPrefix(customID, "poll:"):
		b.handlePollVote(s, i, customID)
	default:
		b.logger.Debug("unknown component", zap.String("custom_id", customID))
	}
}

// optionMap indexes interaction options by name.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	result := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		result[option.Name] = option
	}
	return result
}

func optionalUser(s *discordgo.Session, i *discordgo.InteractionCreate, options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	if option, ok := options[name]; ok {
		return option.UserValue(s)
	}
	return interactionUser(i)
}
