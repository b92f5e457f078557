package tickets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeSession struct {
	mu         sync.Mutex
	nextID     int
	channels   map[string]*discordgo.Channel
	deleted    []string
	permSets   []string
	permDels   []string
	messages   map[string][]string
	history    []*discordgo.Message
	createFail bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		channels: make(map[string]*discordgo.Channel),
		messages: make(map[string][]string),
	}
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	channel, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return channel, nil
}

func (f *fakeSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createFail {
		return nil, errors.New("create refused")
	}
	f.nextID++
	channel := &discordgo.Channel{
		ID:                   fmt.Sprintf("chan-%d", f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[channel.ID] = channel
	return channel, nil
}

func (f *fakeSession) ChannelEditComplex(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	channel, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	if data.Name != "" {
		channel.Name = data.Name
	}
	if data.ParentID != "" {
		channel.ParentID = data.ParentID
	}
	return channel, nil
}

func (f *fakeSession) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	delete(f.channels, channelID)
	return nil, nil
}

func (f *fakeSession) ChannelPermissionSet(channelID, targetID string, _ discordgo.PermissionOverwriteType, _, _ int64, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permSets = append(f.permSets, channelID+":"+targetID)
	return nil
}

func (f *fakeSession) ChannelPermissionDelete(channelID, targetID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permDels = append(f.permDels, channelID+":"+targetID)
	return nil
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], content)
	return &discordgo.Message{ID: "m1", ChannelID: channelID, Content: content}, nil
}

func (f *fakeSession) ChannelMessages(channelID string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if beforeID != "" {
		return nil, nil
	}
	if limit > len(f.history) {
		limit = len(f.history)
	}
	return f.history[:limit], nil
}

func (f *fakeSession) deletedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func newTestWorkflow(t *testing.T) (*Workflow, *fakeSession, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	session := newFakeSession()
	workflow := NewWorkflow(store, session, zap.NewNop(), "bot-1")
	workflow.grace = time.Millisecond
	return workflow, session, store
}

func testTicketsConfig() storage.TicketsConfig {
	return storage.TicketsConfig{
		Enabled:           true,
		CategoryID:        "cat-1",
		SupportRole:       "support-1",
		ArchiveCategoryID: "archive-1",
	}
}

func TestOpenTicket(t *testing.T) {
	workflow, _, store := newTestWorkflow(t)
	ctx := context.Background()

	channel, ticket, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", testTicketsConfig())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if channel.Name != "ticket-alice" {
		t.Errorf("unexpected channel name %q", channel.Name)
	}
	if channel.ParentID != "cat-1" {
		t.Errorf("channel not under ticket category: %q", channel.ParentID)
	}
	if len(channel.PermissionOverwrites) != 4 {
		t.Errorf("expected 4 overwrites, got %d", len(channel.PermissionOverwrites))
	}
	if ticket.Status != storage.TicketOpen {
		t.Errorf("unexpected status %q", ticket.Status)
	}

	stored, found, err := store.GetTicketByChannel(ctx, channel.ID)
	if err != nil || !found {
		t.Fatalf("ledger row missing: found=%v err=%v", found, err)
	}
	if stored.Category != "Support" {
		t.Errorf("unexpected category %q", stored.Category)
	}
}

func TestOpenDuplicateTicket(t *testing.T) {
	workflow, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	if _, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", testTicketsConfig()); err != nil {
		t.Fatalf("open: %v", err)
	}
	_, existing, err := workflow.Open(ctx, "g1", "u1", "Alice", "Report", testTicketsConfig())
	if !errors.Is(err, ErrDuplicateTicket) {
		t.Fatalf("expected ErrDuplicateTicket, got %v", err)
	}
	if existing.Category != "Support" {
		t.Errorf("duplicate error should carry the existing ticket, got %+v", existing)
	}
}

func TestOpenChannelCreateFails(t *testing.T) {
	workflow, session, store := newTestWorkflow(t)
	session.createFail = true

	if _, _, err := workflow.Open(context.Background(), "g1", "u1", "Alice", "Support", testTicketsConfig()); err == nil {
		t.Fatal("expected error when channel create fails")
	}
	_, open, err := store.OpenTicketFor(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if open {
		t.Fatal("ledger row written despite failed channel create")
	}
}

func TestCloseConfirmDelete(t *testing.T) {
	workflow, session, store := newTestWorkflow(t)
	ctx := context.Background()
	cfg := testTicketsConfig()
	now := time.Now()

	channel, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	token, err := workflow.RequestClose(ctx, channel.ID, "u1", now)
	if err != nil {
		t.Fatalf("request close: %v", err)
	}
	if err := workflow.ConfirmClose(ctx, token, false, cfg, now.Add(10*time.Second)); err != nil {
		t.Fatalf("confirm close: %v", err)
	}

	ticket, _, err := store.GetTicketByChannel(ctx, channel.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if ticket.Status != storage.TicketClosed || ticket.ClosedAt == nil {
		t.Errorf("ticket not closed: %+v", ticket)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if deleted := session.deletedChannels(); len(deleted) == 1 && deleted[0] == channel.ID {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("channel never deleted after grace")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCloseConfirmExpired(t *testing.T) {
	workflow, _, store := newTestWorkflow(t)
	ctx := context.Background()
	cfg := testTicketsConfig()
	now := time.Now()

	channel, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	token, err := workflow.RequestClose(ctx, channel.ID, "u1", now)
	if err != nil {
		t.Fatalf("request close: %v", err)
	}

	err = workflow.ConfirmClose(ctx, token, false, cfg, now.Add(61*time.Second))
	if !errors.Is(err, ErrConfirmExpired) {
		t.Fatalf("expected ErrConfirmExpired, got %v", err)
	}

	ticket, _, _ := store.GetTicketByChannel(ctx, channel.ID)
	if ticket.Status != storage.TicketOpen {
		t.Errorf("expired confirmation closed the ticket: %q", ticket.Status)
	}
}

func TestCancelClose(t *testing.T) {
	workflow, _, store := newTestWorkflow(t)
	ctx := context.Background()
	cfg := testTicketsConfig()
	now := time.Now()

	channel, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	token, err := workflow.RequestClose(ctx, channel.ID, "u1", now)
	if err != nil {
		t.Fatalf("request close: %v", err)
	}
	workflow.CancelClose(token)

	if err := workflow.ConfirmClose(ctx, token, false, cfg, now.Add(time.Second)); !errors.Is(err, ErrConfirmExpired) {
		t.Fatalf("cancelled token accepted: %v", err)
	}
	ticket, _, _ := store.GetTicketByChannel(ctx, channel.ID)
	if ticket.Status != storage.TicketOpen {
		t.Errorf("cancelled close mutated the ticket: %q", ticket.Status)
	}
}

func TestCloseConfirmArchive(t *testing.T) {
	workflow, session, store := newTestWorkflow(t)
	ctx := context.Background()
	cfg := testTicketsConfig()
	now := time.Now()

	channel, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	token, err := workflow.RequestClose(ctx, channel.ID, "u1", now)
	if err != nil {
		t.Fatalf("request close: %v", err)
	}
	if err := workflow.ConfirmClose(ctx, token, true, cfg, now.Add(time.Second)); err != nil {
		t.Fatalf("confirm archive: %v", err)
	}

	if len(session.deletedChannels()) != 0 {
		t.Error("archived channel was deleted")
	}
	got := session.channels[channel.ID]
	if got.Name != "closed-ticket-alice" {
		t.Errorf("unexpected archived name %q", got.Name)
	}
	if got.ParentID != "archive-1" {
		t.Errorf("channel not moved to archive category: %q", got.ParentID)
	}
	if len(session.permDels) != 1 || session.permDels[0] != channel.ID+":u1" {
		t.Errorf("opener overwrite not removed: %v", session.permDels)
	}

	ticket, _, _ := store.GetTicketByChannel(ctx, channel.ID)
	if ticket.Status != storage.TicketClosed {
		t.Errorf("archived ticket not closed: %q", ticket.Status)
	}
}

func TestTranscriptOrder(t *testing.T) {
	workflow, session, _ := newTestWorkflow(t)
	ctx := context.Background()

	channel, _, err := workflow.Open(ctx, "g1", "u1", "Alice", "Support", testTicketsConfig())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// Gateway history arrives newest first.
	session.history = []*discordgo.Message{
		{ID: "3", Content: "third", Timestamp: base.Add(2 * time.Minute), Author: &discordgo.User{Username: "alice"}},
		{ID: "2", Content: "second", Timestamp: base.Add(time.Minute), Author: &discordgo.User{Username: "bob"}},
		{ID: "1", Content: "first", Timestamp: base, Author: &discordgo.User{Username: "alice"}},
	}

	transcript, err := workflow.Transcript(ctx, channel.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	want := "[01/03/2025 12:00] alice: first\n[01/03/2025 12:01] bob: second\n[01/03/2025 12:02] alice: third\n"
	if transcript != want {
		t.Errorf("unexpected transcript:\n%q\nwant:\n%q", transcript, want)
	}
}

func TestTranscriptNotTicket(t *testing.T) {
	workflow, _, _ := newTestWorkflow(t)
	if _, err := workflow.Transcript(context.Background(), "random"); !errors.Is(err, ErrNotTicket) {
		t.Fatalf("expected ErrNotTicket, got %v", err)
	}
}
