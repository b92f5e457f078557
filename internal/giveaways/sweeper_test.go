package giveaways

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type fakeSession struct {
	reactors    []*discordgo.User
	sent        []string
	messageFail bool
}

func (f *fakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.messageFail {
		return nil, errors.New("message gone")
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *fakeSession) MessageReactions(_, _, _ string, limit int, _, after string, _ ...discordgo.RequestOption) ([]*discordgo.User, error) {
	start := 0
	if after != "" {
		for i, user := range f.reactors {
			if user.ID == after {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(f.reactors) {
		end = len(f.reactors)
	}
	return f.reactors[start:end], nil
}

func (f *fakeSession) ChannelMessageSend(_, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, content)
	return &discordgo.Message{Content: content}, nil
}

func newTestSweeper(t *testing.T) (*Sweeper, *fakeSession, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	session := &fakeSession{}
	return NewSweeper(store, session, zap.NewNop()), session, store
}

func seedGiveaway(t *testing.T, store *storage.Store, messageID string, winners int, end time.Time) {
	t.Helper()
	err := store.CreateGiveaway(context.Background(), storage.Giveaway{
		MessageID: messageID,
		ChannelID: "c1",
		GuildID:   "g1",
		Prize:     "Nitro",
		Winners:   winners,
		EndTime:   end,
		HostID:    "h1",
	})
	if err != nil {
		t.Fatalf("seed giveaway: %v", err)
	}
}

func TestSweepPicksWinners(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 2, now.Add(-time.Minute))

	session.reactors = []*discordgo.User{
		{ID: "bot-1", Bot: true},
		{ID: "u1"},
		{ID: "u2"},
		{ID: "u3"},
	}

	sweeper.SweepOnce(context.Background(), now)

	if len(session.sent) != 1 {
		t.Fatalf("expected one announcement, got %v", session.sent)
	}
	announcement := session.sent[0]
	if !strings.Contains(announcement, "Nitro") {
		t.Errorf("announcement missing prize: %q", announcement)
	}
	if strings.Count(announcement, "<@") != 2 {
		t.Errorf("expected 2 winner mentions: %q", announcement)
	}
	if strings.Contains(announcement, "<@bot-1>") {
		t.Errorf("bot selected as winner: %q", announcement)
	}

	due, err := store.ListDueGiveaways(context.Background(), now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatal("giveaway not marked ended")
	}
}

func TestSweepNoParticipants(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 1, now.Add(-time.Minute))
	session.reactors = []*discordgo.User{{ID: "bot-1", Bot: true}}

	sweeper.SweepOnce(context.Background(), now)

	if len(session.sent) != 1 || !strings.Contains(session.sent[0], "no participants") {
		t.Fatalf("expected no-participants announcement, got %v", session.sent)
	}
}

func TestSweepMarksEndedOnFailure(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 1, now.Add(-time.Minute))
	session.messageFail = true

	sweeper.SweepOnce(context.Background(), now)

	due, err := store.ListDueGiveaways(context.Background(), now)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 0 {
		t.Fatal("failed giveaway left pending; it would be retried forever")
	}
}

func TestSweepSkipsFutureGiveaways(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 1, now.Add(time.Hour))

	sweeper.SweepOnce(context.Background(), now)

	if len(session.sent) != 0 {
		t.Fatalf("future giveaway finalized early: %v", session.sent)
	}
	due, _ := store.ListDueGiveaways(context.Background(), now.Add(2*time.Hour))
	if len(due) != 1 {
		t.Fatal("future giveaway should still be pending")
	}
}

func TestEveryoneWinsWhenFewEntrants(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 5, now.Add(-time.Minute))
	session.reactors = []*discordgo.User{{ID: "u1"}, {ID: "u2"}}

	sweeper.SweepOnce(context.Background(), now)

	if len(session.sent) != 1 {
		t.Fatalf("expected one announcement, got %v", session.sent)
	}
	for _, id := range []string{"u1", "u2"} {
		if !strings.Contains(session.sent[0], fmt.Sprintf("<@%s>", id)) {
			t.Errorf("entrant %s missing from %q", id, session.sent[0])
		}
	}
}

func TestReactionPagination(t *testing.T) {
	sweeper, session, store := newTestSweeper(t)
	now := time.Now()
	seedGiveaway(t, store, "m1", 1, now.Add(-time.Minute))

	for i := 0; i < 250; i++ {
		session.reactors = append(session.reactors, &discordgo.User{ID: fmt.Sprintf("u%d", i)})
	}

	entrants, err := sweeper.entrants(storage.Giveaway{ChannelID: "c1", MessageID: "m1"})
	if err != nil {
		t.Fatalf("entrants: %v", err)
	}
	if len(entrants) != 250 {
		t.Fatalf("expected 250 entrants across pages, got %d", len(entrants))
	}
}
