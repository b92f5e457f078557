package bot

import (
	"fmt"
	"strconv"
	"strings"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pollState tracks an in-flight poll. One vote per member, switching is
// allowed. Polls are not persisted: a restart forgets them.
type pollState struct {
	question string
	options  []string
	votes    map[string]int // userID -> option index
}

func (b *Bot) handlePoll(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(options)
	question := opts["question"].StringValue()

	choices := make([]string, 0, 4)
	for _, name := range []string{"option1", "option2", "option3", "option4"} {
		if option, ok := opts[name]; ok {
			choices = append(choices, option.StringValue())
		}
	}
	if len(choices) < 2 {
		b.respond(s, i, "A poll needs at least two options.", true)
		return
	}

	pollID := uuid.NewString()
	state := &pollState{question: question, options: choices, votes: make(map[string]int)}

	buttons := make([]discordgo.MessageComponent, 0, len(choices))
	for idx, choice := range choices {
		buttons = append(buttons, discordgo.Button{
			Label:    choice,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("poll:%s:%d", pollID, idx),
		})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{b.pollEmbed(state)},
			Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
		},
	})
	if err != nil {
		b.logger.Warn("poll respond", zap.Error(err))
		return
	}

	b.pollMu.Lock()
	b.polls[pollID] = state
	b.pollMu.Unlock()
}

func (b *Bot) handlePollVote(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 {
		return
	}
	pollID := parts[1]
	choice, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}

	b.pollMu.Lock()
	state, ok := b.polls[pollID]
	if ok && choice >= 0 && choice < len(state.options) {
		state.votes[interactionUser(i).ID] = choice
	}
	var embed *discordgo.MessageEmbed
	if ok {
		embed = b.pollEmbed(state)
	}
	b.pollMu.Unlock()

	if !ok {
		b.respond(s, i, "This poll is no longer active.", true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: i.Message.Components,
		},
	})
	if err != nil {
		b.logger.Warn("poll vote respond", zap.Error(err))
	}
}

func (b *Bot) pollEmbed(state *pollState) *discordgo.MessageEmbed {
	counts := make([]int, len(state.options))
	for _, choice := range state.votes {
		counts[choice]++
	}
	total := len(state.votes)

	var sb strings.Builder
	for idx, option := range state.options {
		share := 0
		if total > 0 {
			share = counts[idx] * 100 / total
		}
		fmt.Fprintf(&sb, "**%s**\n%s %d vote(s) - %d%%\n", option, progressBar(int64(share), 100), counts[idx], share)
	}
	fmt.Fprintf(&sb, "\nTotal votes: %d", total)

	return b.embed("\U0001F4CA "+state.question, sb.String(), b.cfg.Embeds.Primary, nil)
}
