package bot

import (
	"context"
	"fmt"
	"strings"

	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleCustomCmd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}
	if len(options) == 0 {
		return
	}

	sub := options[0]
	opts := optionMap(sub.Options)
	switch sub.Name {
	case "add":
		name := strings.ToLower(opts["name"].StringValue())
		if err := b.store.UpsertCustomCommand(ctx, storage.CustomCommand{
			GuildID:   i.GuildID,
			Name:      name,
			Response:  opts["response"].StringValue(),
			CreatorID: interactionUser(i).ID,
		}); err != nil {
			b.respond(s, i, b.t(lang, "error.generic"), true)
			return
		}
		b.respond(s, i, b.t(lang, "customcmd.saved", name), false)
	case "delete":
		name := strings.ToLower(opts["name"].StringValue())
		deleted, err := b.store.DeleteCustomCommand(ctx, i.GuildID, name)
		if err != nil {
			b.respond(s, i, b.t(lang, "error.generic"), true)
			return
		}
		if !deleted {
			b.respond(s, i, b.t(lang, "customcmd.missing", name), true)
			return
		}
		b.respond(s, i, b.t(lang, "customcmd.deleted", name), false)
	case "list":
		commands, err := b.store.ListCustomCommands(ctx, i.GuildID)
		if err != nil {
			b.respond(s, i, b.t(lang, "error.generic"), true)
			return
		}
		if len(commands) == 0 {
			b.respond(s, i, b.t(lang, "customcmd.empty"), true)
			return
		}
		var sb strings.Builder
		for _, command := range commands {
			fmt.Fprintf(&sb, "`%s%s` - used %d time(s)\n", cfg.Prefix, command.Name, command.Uses)
		}
		b.respondEmbed(s, i, b.embed("Custom commands", sb.String(), b.cfg.Embeds.Primary, nil), true)
	}
}

// renderCustomResponse substitutes the placeholders a response may carry.
func renderCustomResponse(response string, author *discordgo.User, guild *discordgo.Guild) string {
	replacements := []string{
		"{user}", author.Mention(),
		"{username}", author.Username,
	}
	if guild != nil {
		replacements = append(replacements, "{server}", guild.Name)
	}
	return strings.NewReplacer(replacements...).Replace(response)
}
