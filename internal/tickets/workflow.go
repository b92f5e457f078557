package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDuplicateTicket = errors.New("user already has an open ticket")
	ErrNotTicket       = errors.New("channel is not a ticket")
	ErrConfirmExpired  = errors.New("close confirmation expired")
)

const (
	confirmWindow  = 60 * time.Second
	deleteGrace    = 5 * time.Second
	transcriptMax  = 1000
	closedPrefix   = "closed-"
	memberAllow    = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory
	viewOnlyAllow  = discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory
	everyoneDenied = discordgo.PermissionViewChannel
)

// Session is the slice of the gateway API the workflow needs. It is
// satisfied by *discordgo.Session and by test fakes.
type Session interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelPermissionDelete(channelID, targetID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

type pendingClose struct {
	channelID string
	userID    string
	expires   time.Time
}

// Workflow drives the ticket lifecycle: open, close with a timed
// confirmation, archive or delete, transcript.
type Workflow struct {
	store   *storage.Store
	session Session
	logger  *zap.Logger
	botID   string

	mu      sync.Mutex
	pending map[string]pendingClose

	grace time.Duration
}

func NewWorkflow(store *storage.Store, session Session, logger *zap.Logger, botID string) *Workflow {
	return &Workflow{
		store:   store,
		session: session,
		logger:  logger,
		botID:   botID,
		pending: make(map[string]pendingClose),
		grace:   deleteGrace,
	}
}

// Open provisions a ticket channel and records the ledger row. The row is
// written only after the channel exists, so a failed channel create leaves
// no trace. At most one open ticket per (user, guild).
func (w *Workflow) Open(ctx context.Context, guildID, userID, username, category string, cfg storage.TicketsConfig) (*discordgo.Channel, storage.Ticket, error) {
	existing, open, err := w.store.OpenTicketFor(ctx, guildID, userID)
	if err != nil {
		return nil, storage.Ticket{}, err
	}
	if open {
		return nil, existing, ErrDuplicateTicket
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: everyoneDenied},
		{ID: userID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
		{ID: w.botID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
	}
	if cfg.SupportRole != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    cfg.SupportRole,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberAllow,
		})
	}

	channel, err := w.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 ticketChannelName(username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket for %s", category, username),
		ParentID:             cfg.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, storage.Ticket{}, fmt.Errorf("create ticket channel: %w", err)
	}

	ticket := storage.Ticket{
		ChannelID: channel.ID,
		GuildID:   guildID,
		UserID:    userID,
		Category:  category,
		CreatedAt: time.Now(),
	}
	id, err := w.store.CreateTicket(ctx, ticket)
	if err != nil {
		// Channel without a row is unusable; best effort teardown.
		_, _ = w.session.ChannelDelete(channel.ID)
		return nil, storage.Ticket{}, err
	}
	ticket.ID = id
	ticket.Status = storage.TicketOpen

	w.logger.Info("ticket opened",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("channel_id", channel.ID),
		zap.String("category", category),
	)
	return channel, ticket, nil
}

// RequestClose opens a 60 second confirmation window and returns its token.
func (w *Workflow) RequestClose(ctx context.Context, channelID, userID string, now time.Time) (string, error) {
	_, found, err := w.store.GetTicketByChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotTicket
	}

	token := uuid.NewString()
	w.mu.Lock()
	w.prune(now)
	w.pending[token] = pendingClose{channelID: channelID, userID: userID, expires: now.Add(confirmWindow)}
	w.mu.Unlock()
	return token, nil
}

// CancelClose drops a pending confirmation; the ticket stays open.
func (w *Workflow) CancelClose(token string) {
	w.mu.Lock()
	delete(w.pending, token)
	w.mu.Unlock()
}

// ConfirmClose finalizes the close. With archive the channel is kept
// read-only under the archive category; otherwise it is deleted after a
// short grace so members see the closing notice.
func (w *Workflow) ConfirmClose(ctx context.Context, token string, archive bool, cfg storage.TicketsConfig, now time.Time) error {
	w.mu.Lock()
	pending, ok := w.pending[token]
	if ok && now.After(pending.expires) {
		delete(w.pending, token)
		ok = false
	}
	if ok {
		delete(w.pending, token)
	}
	w.mu.Unlock()
	if !ok {
		return ErrConfirmExpired
	}

	ticket, found, err := w.store.GetTicketByChannel(ctx, pending.channelID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotTicket
	}

	if err := w.store.CloseTicket(ctx, pending.channelID, now); err != nil {
		return err
	}

	if archive {
		return w.archive(ticket, cfg)
	}

	_, _ = w.session.ChannelMessageSend(pending.channelID, "Ticket closed. This channel will be deleted shortly.")
	channelID := pending.channelID
	time.AfterFunc(w.grace, func() {
		if _, err := w.session.ChannelDelete(channelID); err != nil {
			w.logger.Warn("ticket channel delete failed", zap.String("channel_id", channelID), zap.Error(err))
		}
	})

	w.logger.Info("ticket closed",
		zap.String("guild_id", ticket.GuildID),
		zap.String("channel_id", pending.channelID),
		zap.Bool("archived", false),
	)
	return nil
}

// archive strips the opener's access, leaves the support role read-only and
// parks the renamed channel under the archive category. A missing support
// role or archive category degrades to whatever subset applies.
func (w *Workflow) archive(ticket storage.Ticket, cfg storage.TicketsConfig) error {
	if err := w.session.ChannelPermissionDelete(ticket.ChannelID, ticket.UserID); err != nil {
		w.logger.Warn("archive: opener overwrite removal failed", zap.String("channel_id", ticket.ChannelID), zap.Error(err))
	}
	if cfg.SupportRole != "" {
		if err := w.session.ChannelPermissionSet(ticket.ChannelID, cfg.SupportRole, discordgo.PermissionOverwriteTypeRole, viewOnlyAllow, discordgo.PermissionSendMessages); err != nil {
			w.logger.Warn("archive: support overwrite failed", zap.String("channel_id", ticket.ChannelID), zap.Error(err))
		}
	}

	name := closedPrefix + "ticket"
	if channel, err := w.session.Channel(ticket.ChannelID); err == nil {
		name = closedPrefix + strings.TrimPrefix(channel.Name, closedPrefix)
	}
	edit := &discordgo.ChannelEdit{Name: name}
	if cfg.ArchiveCategoryID != "" {
		edit.ParentID = cfg.ArchiveCategoryID
	}
	if _, err := w.session.ChannelEditComplex(ticket.ChannelID, edit); err != nil {
		return fmt.Errorf("archive ticket channel: %w", err)
	}

	w.logger.Info("ticket archived",
		zap.String("guild_id", ticket.GuildID),
		zap.String("channel_id", ticket.ChannelID),
	)
	return nil
}

// Claim records the support member handling the ticket.
func (w *Workflow) Claim(ctx context.Context, channelID, userID string) error {
	_, found, err := w.store.GetTicketByChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotTicket
	}
	return w.store.ClaimTicket(ctx, channelID, userID)
}

// AddMember grants a user access to the ticket channel; RemoveMember takes
// it away.
func (w *Workflow) AddMember(ctx context.Context, channelID, userID string) error {
	if err := w.requireTicket(ctx, channelID); err != nil {
		return err
	}
	return w.session.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember, memberAllow, 0)
}

func (w *Workflow) RemoveMember(ctx context.Context, channelID, userID string) error {
	if err := w.requireTicket(ctx, channelID); err != nil {
		return err
	}
	return w.session.ChannelPermissionDelete(channelID, userID)
}

func (w *Workflow) requireTicket(ctx context.Context, channelID string) error {
	_, found, err := w.store.GetTicketByChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotTicket
	}
	return nil
}

// Transcript renders up to 1000 messages of the ticket channel as a plain
// text log, oldest first.
func (w *Workflow) Transcript(ctx context.Context, channelID string) (string, error) {
	if err := w.requireTicket(ctx, channelID); err != nil {
		return "", err
	}

	var collected []*discordgo.Message
	before := ""
	for len(collected) < transcriptMax {
		batch, err := w.session.ChannelMessages(channelID, 100, before, "", "")
		if err != nil {
			return "", fmt.Errorf("fetch transcript messages: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		collected = append(collected, batch...)
		before = batch[len(batch)-1].ID
	}
	if len(collected) > transcriptMax {
		collected = collected[:transcriptMax]
	}

	var builder strings.Builder
	for i := len(collected) - 1; i >= 0; i-- {
		msg := collected[i]
		author := "unknown"
		if msg.Author != nil {
			author = msg.Author.Username
		}
		fmt.Fprintf(&builder, "[%s] %s: %s\n", msg.Timestamp.Format("02/01/2006 15:04"), author, msg.Content)
	}
	return builder.String(), nil
}

// prune drops expired confirmations. Caller holds the lock.
func (w *Workflow) prune(now time.Time) {
	for token, pending := range w.pending {
		if now.After(pending.expires) {
			delete(w.pending, token)
		}
	}
}

func ticketChannelName(username string) string {
	name := strings.ToLower(strings.ReplaceAll(username, " ", "-"))
	if name == "" {
		name = "ticket"
	}
	return "ticket-" + name
}
