package bot

import "github.com/bwmarrin/discordgo"

func localized(fr string) *map[discordgo.Locale]string {
	return &map[discordgo.Locale]string{discordgo.French: fr}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		// moderation
		{
			Name:                     "ban",
			Description:              "Ban a member from the server",
			DescriptionLocalizations: localized("Bannir un membre du serveur"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member to ban", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason", Required: false},
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member from the server",
			DescriptionLocalizations: localized("Expulser un membre du serveur"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member to kick", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason", Required: false},
			},
		},
		{
			Name:                     "mute",
			Description:              "Timeout a member",
			DescriptionLocalizations: localized("Rendre un membre muet"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member to mute", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Duration like 10m, 2h, 1d (max 28d)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason", Required: false},
			},
		},
		{
			Name:                     "unmute",
			Description:              "Remove a member's timeout",
			DescriptionLocalizations: localized("Retirer le mute d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member to unmute", Required: true},
			},
		},
		{
			Name:                     "warn",
			Description:              "Warn a member",
			DescriptionLocalizations: localized("Avertir un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member to warn", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason", Required: true},
			},
		},
		{
			Name:                     "warnings",
			Description:              "List a member's warnings",
			DescriptionLocalizations: localized("Lister les avertissements d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
			},
		},
		{
			Name:                     "clearwarns",
			Description:              "Clear a member's warnings",
			DescriptionLocalizations: localized("Effacer les avertissements d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
			},
		},
		{
			Name:                     "clear",
			Description:              "Bulk delete messages in this channel",
			DescriptionLocalizations: localized("Supprimer des messages en masse"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "Number of messages (1-100)", Required: true},
			},
		},
		{
			Name:                     "slowmode",
			Description:              "Set the channel slowmode",
			DescriptionLocalizations: localized("Definir le mode lent du salon"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "Seconds between messages (0-21600)", Required: true},
			},
		},
		{
			Name:                     "lock",
			Description:              "Lock this channel",
			DescriptionLocalizations: localized("Verrouiller ce salon"),
		},
		{
			Name:                     "unlock",
			Description:              "Unlock this channel",
			DescriptionLocalizations: localized("Deverrouiller ce salon"),
		},
		// leveling
		{
			Name:                     "rank",
			Description:              "Show a member's level card",
			DescriptionLocalizations: localized("Afficher le niveau d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member (defaults to you)", Required: false},
			},
		},
		{
			Name:                     "leaderboard",
			Description:              "Show the server leaderboard",
			DescriptionLocalizations: localized("Afficher le classement du serveur"),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "metric", Description: "Ranking metric", Required: false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "xp", Value: "xp"},
						{Name: "economy", Value: "economy"},
					},
				},
			},
		},
		{
			Name:                     "setxp",
			Description:              "Set a member's XP",
			DescriptionLocalizations: localized("Definir l'XP d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "xp", Description: "XP value", Required: true},
			},
		},
		{
			Name:                     "setlevel",
			Description:              "Set a member's level",
			DescriptionLocalizations: localized("Definir le niveau d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level value", Required: true},
			},
		},
		// economy
		{
			Name:                     "balance",
			Description:              "Show a member's balance",
			DescriptionLocalizations: localized("Afficher le solde d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member (defaults to you)", Required: false},
			},
		},
		{
			Name:                     "daily",
			Description:              "Collect your daily reward",
			DescriptionLocalizations: localized("Recuperer votre recompense quotidienne"),
		},
		{
			Name:                     "work",
			Description:              "Work to earn some coins",
			DescriptionLocalizations: localized("Travailler pour gagner des pieces"),
		},
		{
			Name:                     "pay",
			Description:              "Send coins to another member",
			DescriptionLocalizations: localized("Envoyer des pieces a un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Recipient", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount", Required: true},
			},
		},
		{
			Name:                     "deposit",
			Description:              "Deposit coins into your bank",
			DescriptionLocalizations: localized("Deposer des pieces a la banque"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "amount", Description: "Amount or 'all'", Required: true},
			},
		},
		{
			Name:                     "withdraw",
			Description:              "Withdraw coins from your bank",
			DescriptionLocalizations: localized("Retirer des pieces de la banque"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "amount", Description: "Amount or 'all'", Required: true},
			},
		},
		{
			Name:                     "addcash",
			Description:              "Add coins to a member (admin)",
			DescriptionLocalizations: localized("Ajouter des pieces a un membre (admin)"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount", Required: true},
			},
		},
		{
			Name:                     "removecash",
			Description:              "Remove coins from a member (admin)",
			DescriptionLocalizations: localized("Retirer des pieces a un membre (admin)"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount", Required: true},
			},
		},
		{
			Name:                     "shop",
			Description:              "Browse the server shop",
			DescriptionLocalizations: localized("Parcourir la boutique du serveur"),
		},
		{
			Name:                     "additem",
			Description:              "Add an item to the shop (admin)",
			DescriptionLocalizations: localized("Ajouter un article a la boutique (admin)"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Item name", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "price", Description: "Price", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Item description", Required: false},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role granted on purchase", Required: false},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "stock", Description: "Stock (-1 for unlimited)", Required: false},
			},
		},
		{
			Name:                     "removeitem",
			Description:              "Remove an item from the shop (admin)",
			DescriptionLocalizations: localized("Retirer un article de la boutique (admin)"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Item id", Required: true},
			},
		},
		{
			Name:                     "inventory",
			Description:              "Show your purchased items",
			DescriptionLocalizations: localized("Afficher vos articles achetes"),
		},
		// tickets
		{
			Name:                     "ticket",
			Description:              "Ticket management",
			DescriptionLocalizations: localized("Gestion des tickets"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "panel", Description: "Post the ticket panel in this channel"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "close", Description: "Close this ticket"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "claim", Description: "Claim this ticket"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "transcript", Description: "Generate a transcript of this ticket"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "Add a member to this ticket",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove", Description: "Remove a member from this ticket",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member", Required: true},
					},
				},
			},
		},
		// giveaways
		{
			Name:                     "giveaway",
			Description:              "Start a giveaway",
			DescriptionLocalizations: localized("Lancer un giveaway"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Duration like 30m, 2h, 1d", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "winners", Description: "Number of winners", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "prize", Description: "Prize", Required: true},
			},
		},
		// custom commands
		{
			Name:                     "customcmd",
			Description:              "Manage custom commands",
			DescriptionLocalizations: localized("Gerer les commandes personnalisees"),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "Add or update a custom command",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Command name", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "response", Description: "Response text", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "delete", Description: "Delete a custom command",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Command name", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List custom commands"},
			},
		},
		// utility
		{
			Name:                     "poll",
			Description:              "Create a poll with up to 4 options",
			DescriptionLocalizations: localized("Creer un sondage avec jusqu'a 4 options"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "question", Description: "Poll question", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "option1", Description: "First option", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "option2", Description: "Second option", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "option3", Description: "Third option", Required: false},
				{Type: discordgo.ApplicationCommandOptionString, Name: "option4", Description: "Fourth option", Required: false},
			},
		},
		{
			Name:                     "remind",
			Description:              "Set a reminder",
			DescriptionLocalizations: localized("Definir un rappel"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Duration like 10m, 2h", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "What to remind you of", Required: true},
			},
		},
		{
			Name:                     "userinfo",
			Description:              "Show information about a member",
			DescriptionLocalizations: localized("Afficher les informations d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member (defaults to you)", Required: false},
			},
		},
		{
			Name:                     "serverinfo",
			Description:              "Show information about this server",
			DescriptionLocalizations: localized("Afficher les informations du serveur"),
		},
		{
			Name:                     "avatar",
			Description:              "Show a member's avatar",
			DescriptionLocalizations: localized("Afficher l'avatar d'un membre"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "member", Description: "Member (defaults to you)", Required: false},
			},
		},
		{
			Name:                     "help",
			Description:              "Show the command overview",
			DescriptionLocalizations: localized("Afficher la liste des commandes"),
		},
		// fun
		{
			Name:                     "8ball",
			Description:              "Ask the magic 8-ball",
			DescriptionLocalizations: localized("Interroger la boule magique"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "question", Description: "Your question", Required: true},
			},
		},
		{
			Name:                     "coinflip",
			Description:              "Flip a coin",
			DescriptionLocalizations: localized("Lancer une piece"),
		},
		{
			Name:                     "roll",
			Description:              "Roll a die",
			DescriptionLocalizations: localized("Lancer un de"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "sides", Description: "Number of sides (default 6)", Required: false},
			},
		},
		{
			Name:                     "rps",
			Description:              "Play rock-paper-scissors",
			DescriptionLocalizations: localized("Jouer a pierre-feuille-ciseaux"),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "choice", Description: "Your move", Required: true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "rock", Value: "rock"},
						{Name: "paper", Value: "paper"},
						{Name: "scissors", Value: "scissors"},
					},
				},
			},
		},
		{
			Name:                     "joke",
			Description:              "Tell a joke",
			DescriptionLocalizations: localized("Raconter une blague"),
		},
		// configuration
		{
			Name:                     "config",
			Description:              "Server configuration",
			DescriptionLocalizations: localized("Configuration du serveur"),
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "view", Description: "View the current configuration"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "prefix", Description: "Set the text command prefix",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "value", Description: "New prefix", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "language", Description: "Set the bot language",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type: discordgo.ApplicationCommandOptionString, Name: "value", Description: "Language", Required: true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "English", Value: "en"},
								{Name: "Français", Value: "fr"},
							},
						},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "welcome", Description: "Configure welcome messages",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable welcome messages", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Welcome channel", Required: false},
						{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Template with {user} {username} {server} {count}", Required: false},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "autorole", Description: "Role given on join", Required: false},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "goodbye", Description: "Configure goodbye messages",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable goodbye messages", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Goodbye channel", Required: false},
						{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Template with {username} {server}", Required: false},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "leveling", Description: "Configure the leveling system",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable XP gain", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Level-up announcement channel", Required: false},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "levelrole", Description: "Reward a role at a level",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level", Required: true},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to grant", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "logs", Description: "Set the moderation log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Log channel", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "automod", Description: "Configure auto-moderation",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable auto-moderation", Required: true},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "anti_spam", Description: "Flag message bursts", Required: false},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "anti_links", Description: "Flag links", Required: false},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "anti_caps", Description: "Flag shouting", Required: false},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "caps_threshold", Description: "Uppercase percentage threshold", Required: false},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_mentions", Description: "Max mentions per message", Required: false},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "bannedword", Description: "Add or remove a banned word",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type: discordgo.ApplicationCommandOptionString, Name: "action", Description: "add or remove", Required: true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "add", Value: "add"},
								{Name: "remove", Value: "remove"},
							},
						},
						{Type: discordgo.ApplicationCommandOptionString, Name: "word", Description: "Word", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "tickets", Description: "Configure the ticket system",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable tickets", Required: true},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "category", Description: "Category for new tickets", Required: false},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "archive_category", Description: "Category for archived tickets", Required: false},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "support_role", Description: "Support role", Required: false},
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "log_channel", Description: "Channel for transcripts", Required: false},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "economy", Description: "Configure the economy system",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable economy", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "daily_amount", Description: "Daily reward", Required: false},
						{Type: discordgo.ApplicationCommandOptionString, Name: "currency_name", Description: "Currency name", Required: false},
						{Type: discordgo.ApplicationCommandOptionString, Name: "currency_symbol", Description: "Currency symbol", Required: false},
					},
				},
			},
		},
	}
}

func (b *Bot) registerCommands() error {
	commands := commandDefinitions()
	appID := b.session.State.User.ID

	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, "", cmd.ID)
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildCmds, err := b.session.ApplicationCommands(appID, guild.ID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guild.ID, cmd.ID)
		}
	}
	return nil
}
