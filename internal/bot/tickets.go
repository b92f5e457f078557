package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ultrabot/internal/storage"
	"ultrabot/internal/tickets"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleTicket(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	sub := options[0]
	switch sub.Name {
	case "panel":
		b.handleTicketPanel(s, i, cfg)
	case "close":
		b.handleTicketClose(ctx, s, i, cfg)
	case "claim":
		b.handleTicketClaim(ctx, s, i, cfg)
	case "transcript":
		b.handleTicketTranscript(ctx, s, i, cfg)
	case "add":
		b.handleTicketMember(ctx, s, i, cfg, sub.Options, true)
	case "remove":
		b.handleTicketMember(ctx, s, i, cfg, sub.Options, false)
	}
}

// handleTicketPanel posts the public panel members use to open tickets.
func (b *Bot) handleTicketPanel(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	selectOptions := make([]discordgo.SelectMenuOption, 0, len(cfg.Tickets.Categories))
	for _, category := range cfg.Tickets.Categories {
		selectOptions = append(selectOptions, discordgo.SelectMenuOption{
			Label:       category.Name,
			Value:       category.Name,
			Description: category.Description,
			Emoji:       discordgo.ComponentEmoji{Name: category.Emoji},
		})
	}

	embed := b.embed("Support tickets",
		"Pick a category below to open a private channel with the staff.",
		b.cfg.Embeds.Primary, nil)
	_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "ticket_category",
					Placeholder: "Select a category",
					Options:     selectOptions,
				},
			}},
		},
	})
	if err != nil {
		b.logger.Warn("ticket panel", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, "Ticket panel posted.", true)
}

func (b *Bot) handleTicketCategorySelect(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, data discordgo.MessageComponentInteractionData) {
	lang := cfg.Language
	if len(data.Values) == 0 {
		return
	}
	if !cfg.Tickets.Enabled {
		b.respond(s, i, b.t(lang, "ticket.disabled"), true)
		return
	}
	user := interactionUser(i)

	channel, ticket, err := b.tickets.Open(ctx, i.GuildID, user.ID, user.Username, data.Values[0], cfg.Tickets)
	if errors.Is(err, tickets.ErrDuplicateTicket) {
		b.respond(s, i, b.t(lang, "ticket.duplicate", ticket.ChannelID), true)
		return
	}
	if err != nil {
		b.logger.Error("open ticket", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	// Greeting with the staff controls inside the fresh channel.
	greeting := b.embed(data.Values[0],
		fmt.Sprintf("Welcome %s, describe your issue and the staff will be with you shortly.", mention(user.ID)),
		b.cfg.Embeds.Primary, nil)
	_, err = s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{greeting},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: "ticket_close", Emoji: discordgo.ComponentEmoji{Name: "\U0001F512"}},
				discordgo.Button{Label: "Claim", Style: discordgo.SecondaryButton, CustomID: "ticket_claim", Emoji: discordgo.ComponentEmoji{Name: "\U0001F590"}},
				discordgo.Button{Label: "Transcript", Style: discordgo.SecondaryButton, CustomID: "ticket_transcript", Emoji: discordgo.ComponentEmoji{Name: "\U0001F4C4"}},
			}},
		},
	})
	if err != nil {
		b.logger.Warn("ticket greeting", zap.String("channel_id", channel.ID), zap.Error(err))
	}
	b.respond(s, i, b.t(lang, "ticket.created", channel.ID), true)
}

func (b *Bot) handleTicketClose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	token, err := b.tickets.RequestClose(ctx, i.ChannelID, interactionUser(i).ID, time.Now())
	if errors.Is(err, tickets.ErrNotTicket) {
		b.respond(s, i, b.t(lang, "ticket.not_ticket"), true)
		return
	}
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: b.t(lang, "ticket.confirm"),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Delete", Style: discordgo.DangerButton, CustomID: "ticket_confirm:" + token},
					discordgo.Button{Label: "Archive", Style: discordgo.PrimaryButton, CustomID: "ticket_archive:" + token},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: "ticket_cancel:" + token},
				}},
			},
		},
	})
	if err != nil {
		b.logger.Warn("close confirm respond", zap.Error(err))
	}
}

func (b *Bot) handleTicketCloseButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	b.handleTicketClose(ctx, s, i, cfg)
}

func (b *Bot) handleTicketConfirm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, token string, archive bool) {
	lang := cfg.Language
	err := b.tickets.ConfirmClose(ctx, token, archive, cfg.Tickets, time.Now())
	switch {
	case err == nil:
		if archive {
			b.respond(s, i, "Ticket archived.", false)
		} else {
			b.respond(s, i, "Ticket closed.", false)
		}
	case errors.Is(err, tickets.ErrConfirmExpired):
		b.respond(s, i, b.t(lang, "ticket.expired"), true)
	default:
		b.logger.Error("confirm close", zap.String("channel_id", i.ChannelID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
	}
}

func (b *Bot) handleTicketCancel(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, token string) {
	b.tickets.CancelClose(token)
	b.respond(s, i, b.t(cfg.Language, "ticket.cancelled"), true)
}

func (b *Bot) handleTicketClaim(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	user := interactionUser(i)
	err := b.tickets.Claim(ctx, i.ChannelID, user.ID)
	if errors.Is(err, tickets.ErrNotTicket) {
		b.respond(s, i, b.t(lang, "ticket.not_ticket"), true)
		return
	}
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, b.t(lang, "ticket.claimed", mention(user.ID)), false)
}

func (b *Bot) handleTicketClaimButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	b.handleTicketClaim(ctx, s, i, cfg)
}

func (b *Bot) handleTicketTranscript(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	transcript, err := b.tickets.Transcript(ctx, i.ChannelID)
	if errors.Is(err, tickets.ErrNotTicket) {
		b.respond(s, i, b.t(lang, "ticket.not_ticket"), true)
		return
	}
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if transcript == "" {
		transcript = "(no messages)"
	}

	file := &discordgo.File{
		Name:        "transcript-" + i.ChannelID + ".txt",
		ContentType: "text/plain",
		Reader:      strings.NewReader(transcript),
	}
	if cfg.Tickets.LogChannel != "" {
		_, err = s.ChannelMessageSendComplex(cfg.Tickets.LogChannel, &discordgo.MessageSend{
			Content: fmt.Sprintf("Transcript of <#%s>", i.ChannelID),
			Files:   []*discordgo.File{file},
		})
		if err == nil {
			b.respond(s, i, fmt.Sprintf("Transcript sent to <#%s>.", cfg.Tickets.LogChannel), true)
			return
		}
		b.logger.Warn("transcript to log channel", zap.String("guild_id", i.GuildID), zap.Error(err))
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Transcript attached.",
			Files:   []*discordgo.File{file},
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("transcript respond", zap.Error(err))
	}
}

func (b *Bot) handleTicketTranscriptButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	b.handleTicketTranscript(ctx, s, i, cfg)
}

func (b *Bot) handleTicketMember(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption, add bool) {
	lang := cfg.Language
	target := optionMap(options)["member"].UserValue(s)

	var err error
	if add {
		err = b.tickets.AddMember(ctx, i.ChannelID, target.ID)
	} else {
		err = b.tickets.RemoveMember(ctx, i.ChannelID, target.ID)
	}
	if errors.Is(err, tickets.ErrNotTicket) {
		b.respond(s, i, b.t(lang, "ticket.not_ticket"), true)
		return
	}
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	key := "ticket.member_removed"
	if add {
		key = "ticket.member_added"
	}
	b.respond(s, i, b.t(lang, key, mention(target.ID)), false)
}
