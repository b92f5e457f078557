package bot

import (
	"fmt"
	"math/rand"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

var eightBallAnswers = []string{
	"It is certain.",
	"Without a doubt.",
	"Yes, definitely.",
	"Most likely.",
	"Signs point to yes.",
	"Reply hazy, try again.",
	"Ask again later.",
	"Better not tell you now.",
	"Don't count on it.",
	"My reply is no.",
	"Outlook not so good.",
	"Very doubtful.",
}

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"There are 10 types of people: those who understand binary and those who don't.",
	"I told my computer I needed a break, and it said \"no problem, I'll go to sleep.\"",
	"Why did the developer go broke? Because they used up all their cache.",
	"A SQL query walks into a bar, goes up to two tables and asks: \"Can I join you?\"",
	"Why do Java developers wear glasses? Because they don't C#.",
}

func (b *Bot) handleEightBall(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	question := optionMap(options)["question"].StringValue()
	answer := eightBallAnswers[rand.Intn(len(eightBallAnswers))]
	b.respondEmbed(s, i, b.embed("\U0001F3B1 "+question, answer, b.cfg.Embeds.Primary, nil), false)
}

func (b *Bot) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	result := "Heads"
	if rand.Intn(2) == 1 {
		result = "Tails"
	}
	b.respond(s, i, "\U0001FA99 "+result+"!", false)
}

func (b *Bot) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	sides := int64(6)
	if option, ok := optionMap(options)["sides"]; ok {
		sides = option.IntValue()
	}
	if sides < 2 {
		sides = 2
	}
	b.respond(s, i, fmt.Sprintf("\U0001F3B2 You rolled a **%d** (d%d).", rand.Int63n(sides)+1, sides), false)
}

func (b *Bot) handleRPS(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player := optionMap(options)["choice"].StringValue()
	choices := []string{"rock", "paper", "scissors"}
	bot := choices[rand.Intn(len(choices))]

	var outcome string
	switch {
	case player == bot:
		outcome = "It's a tie!"
	case (player == "rock" && bot == "scissors") ||
		(player == "paper" && bot == "rock") ||
		(player == "scissors" && bot == "paper"):
		outcome = "You win!"
	default:
		outcome = "I win!"
	}
	b.respond(s, i, fmt.Sprintf("You chose **%s**, I chose **%s**. %s", player, bot, outcome), false)
}

func (b *Bot) handleJoke(s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	b.respond(s, i, jokes[rand.Intn(len(jokes))], false)
}
