package giveaways

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	sweepInterval = 30 * time.Second
	Emoji         = "\U0001F389"
)

// Session is the slice of the gateway API the sweeper needs.
type Session interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sweeper finalizes expired giveaways on a fixed interval. Each giveaway is
// finalized at most once: the terminal flag is set even when winner
// selection fails, so a broken giveaway cannot wedge the sweep loop.
type Sweeper struct {
	store   *storage.Store
	session Session
	logger  *zap.Logger
	rng     *rand.Rand
}

func NewSweeper(store *storage.Store, session Session, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:   store,
		session: session,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run sweeps every 30 seconds until the context is cancelled. Sweeps run
// back to back on the same goroutine, so they never overlap.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx, time.Now())
		}
	}
}

// SweepOnce finalizes every giveaway due at now.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) {
	due, err := s.store.ListDueGiveaways(ctx, now)
	if err != nil {
		s.logger.Error("list due giveaways", zap.Error(err))
		return
	}

	for _, giveaway := range due {
		if err := s.finalize(ctx, giveaway); err != nil {
			s.logger.Warn("giveaway finalize failed",
				zap.String("message_id", giveaway.MessageID),
				zap.String("guild_id", giveaway.GuildID),
				zap.Error(err),
			)
		}
		if err := s.store.EndGiveaway(ctx, giveaway.MessageID); err != nil {
			s.logger.Error("mark giveaway ended",
				zap.String("message_id", giveaway.MessageID),
				zap.Error(err),
			)
		}
	}
}

func (s *Sweeper) finalize(ctx context.Context, giveaway storage.Giveaway) error {
	if _, err := s.session.ChannelMessage(giveaway.ChannelID, giveaway.MessageID); err != nil {
		return fmt.Errorf("fetch giveaway message: %w", err)
	}

	entrants, err := s.entrants(giveaway)
	if err != nil {
		return err
	}

	if len(entrants) == 0 {
		_, err := s.session.ChannelMessageSend(giveaway.ChannelID,
			fmt.Sprintf("%s The giveaway for **%s** ended with no participants.", Emoji, giveaway.Prize))
		return err
	}

	winners := s.pickWinners(entrants, giveaway.Winners)
	mentions := make([]string, len(winners))
	for i, winner := range winners {
		mentions[i] = "<@" + winner.ID + ">"
	}

	_, err = s.session.ChannelMessageSend(giveaway.ChannelID,
		fmt.Sprintf("%s Congratulations %s! You won **%s**!", Emoji, strings.Join(mentions, ", "), giveaway.Prize))
	if err != nil {
		return err
	}

	s.logger.Info("giveaway ended",
		zap.String("guild_id", giveaway.GuildID),
		zap.String("message_id", giveaway.MessageID),
		zap.Int("entrants", len(entrants)),
		zap.Int("winners", len(winners)),
	)
	return nil
}

// entrants collects the reactors page by page, skipping bots (including the
// seed reaction from the bot itself).
func (s *Sweeper) entrants(giveaway storage.Giveaway) ([]*discordgo.User, error) {
	var entrants []*discordgo.User
	after := ""
	for {
		page, err := s.session.MessageReactions(giveaway.ChannelID, giveaway.MessageID, Emoji, 100, "", after)
		if err != nil {
			return nil, fmt.Errorf("fetch giveaway reactions: %w", err)
		}
		if len(page) == 0 {
			break
		}
		for _, user := range page {
			if user.Bot {
				continue
			}
			entrants = append(entrants, user)
		}
		after = page[len(page)-1].ID
		if len(page) < 100 {
			break
		}
	}
	return entrants, nil
}

// pickWinners samples without replacement; fewer entrants than requested
// winners means everyone wins.
func (s *Sweeper) pickWinners(entrants []*discordgo.User, count int) []*discordgo.User {
	if count < 1 {
		count = 1
	}
	if count >= len(entrants) {
		return entrants
	}
	winners := make([]*discordgo.User, 0, count)
	for _, idx := range s.rng.Perm(len(entrants))[:count] {
		winners = append(winners, entrants[idx])
	}
	return winners
}
