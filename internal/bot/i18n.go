package bot

import "fmt"

// translations holds the user-facing strings per language. Guilds choose
// their language in the config document; anything missing falls back to
// English.
var translations = map[string]map[string]string{
	"en": {
		"error.permission":     "You do not have permission to use this command.",
		"error.hierarchy":      "You cannot act on a member with an equal or higher role.",
		"error.amount":         "The amount must be a positive number.",
		"error.generic":        "Something went wrong, try again later.",
		"error.guild_only":     "This command can only be used in a server.",
		"automod.spam":         "%s please slow down, you are sending messages too fast.",
		"automod.links":        "%s links are not allowed here.",
		"automod.caps":         "%s please do not use so many capital letters.",
		"automod.mentions":     "%s too many mentions in one message.",
		"automod.banned_word":  "%s that word is not allowed here.",
		"level.up":             "GG %s, you reached level **%d**!",
		"economy.daily":        "You collected your daily **%d %s**!",
		"economy.daily_wait":   "You already collected your daily reward. Come back in %s.",
		"economy.work":         "You %s and earned **%d %s**!",
		"economy.work_wait":    "You are tired. You can work again in %s.",
		"economy.pay":          "You sent **%d %s** to %s.",
		"economy.insufficient": "You do not have enough funds for that.",
		"economy.deposit":      "Deposited **%d %s** into your bank.",
		"economy.withdraw":     "Withdrew **%d %s** from your bank.",
		"economy.self_pay":     "You cannot pay yourself.",
		"economy.disabled":     "The economy is disabled on this server.",
		"shop.empty":           "The shop is empty.",
		"shop.bought":          "You bought **%s** for **%d %s**!",
		"shop.out_of_stock":    "That item is out of stock.",
		"shop.not_found":       "That item does not exist.",
		"ticket.disabled":      "Tickets are disabled on this server.",
		"ticket.duplicate":     "You already have an open ticket: <#%s>",
		"ticket.created":       "Your ticket has been created: <#%s>",
		"ticket.not_ticket":    "This channel is not a ticket.",
		"ticket.confirm":       "Are you sure you want to close this ticket?",
		"ticket.cancelled":     "Close cancelled.",
		"ticket.expired":       "This confirmation has expired, run the close again.",
		"ticket.claimed":       "Ticket claimed by %s.",
		"ticket.member_added":  "%s was added to the ticket.",
		"ticket.member_removed": "%s was removed from the ticket.",
		"giveaway.started":     "%s **GIVEAWAY** %s\nPrize: **%s**\nWinners: **%d**\nReact with %s to enter! Ends in %s.",
		"customcmd.saved":      "Custom command `%s` saved.",
		"customcmd.deleted":    "Custom command `%s` deleted.",
		"customcmd.missing":    "No custom command named `%s`.",
		"customcmd.empty":      "This server has no custom commands.",
		"config.saved":         "Configuration updated.",
		"warn.dm":              "You were warned in **%s**: %s",
		"remind.set":           "I will remind you in %s.",
		"remind.fire":          "Reminder: %s",
	},
	"fr": {
		"error.permission":     "Vous n'avez pas la permission d'utiliser cette commande.",
		"error.hierarchy":      "Vous ne pouvez pas agir sur un membre de rang égal ou supérieur.",
		"error.amount":         "Le montant doit être un nombre positif.",
		"error.generic":        "Une erreur est survenue, réessayez plus tard.",
		"error.guild_only":     "Cette commande ne peut être utilisée que sur un serveur.",
		"automod.spam":         "%s merci de ralentir, vous envoyez des messages trop vite.",
		"automod.links":        "%s les liens ne sont pas autorisés ici.",
		"automod.caps":         "%s merci de ne pas abuser des majuscules.",
		"automod.mentions":     "%s trop de mentions dans un seul message.",
		"automod.banned_word":  "%s ce mot n'est pas autorisé ici.",
		"level.up":             "GG %s, vous avez atteint le niveau **%d** !",
		"economy.daily":        "Vous avez récupéré votre récompense quotidienne de **%d %s** !",
		"economy.daily_wait":   "Récompense déjà récupérée. Revenez dans %s.",
		"economy.work":         "Vous avez %s et gagné **%d %s** !",
		"economy.work_wait":    "Vous êtes fatigué. Vous pourrez retravailler dans %s.",
		"economy.pay":          "Vous avez envoyé **%d %s** à %s.",
		"economy.insufficient": "Vous n'avez pas assez de fonds pour cela.",
		"economy.deposit":      "**%d %s** déposés à la banque.",
		"economy.withdraw":     "**%d %s** retirés de la banque.",
		"economy.self_pay":     "Vous ne pouvez pas vous payer vous-même.",
		"economy.disabled":     "L'économie est désactivée sur ce serveur.",
		"shop.empty":           "La boutique est vide.",
		"shop.bought":          "Vous avez acheté **%s** pour **%d %s** !",
		"shop.out_of_stock":    "Cet article est en rupture de stock.",
		"shop.not_found":       "Cet article n'existe pas.",
		"ticket.disabled":      "Les tickets sont désactivés sur ce serveur.",
		"ticket.duplicate":     "Vous avez déjà un ticket ouvert : <#%s>",
		"ticket.created":       "Votre ticket a été créé : <#%s>",
		"ticket.not_ticket":    "Ce salon n'est pas un ticket.",
		"ticket.confirm":       "Voulez-vous vraiment fermer ce ticket ?",
		"ticket.cancelled":     "Fermeture annulée.",
		"ticket.expired":       "Cette confirmation a expiré, relancez la fermeture.",
		"ticket.claimed":       "Ticket pris en charge par %s.",
		"ticket.member_added":  "%s a été ajouté au ticket.",
		"ticket.member_removed": "%s a été retiré du ticket.",
		"giveaway.started":     "%s **GIVEAWAY** %s\nLot : **%s**\nGagnants : **%d**\nRéagissez avec %s pour participer ! Fin dans %s.",
		"customcmd.saved":      "Commande personnalisée `%s` enregistrée.",
		"customcmd.deleted":    "Commande personnalisée `%s` supprimée.",
		"customcmd.missing":    "Aucune commande personnalisée nommée `%s`.",
		"customcmd.empty":      "Ce serveur n'a aucune commande personnalisée.",
		"config.saved":         "Configuration mise à jour.",
		"warn.dm":              "Vous avez reçu un avertissement sur **%s** : %s",
		"remind.set":           "Je vous le rappellerai dans %s.",
		"remind.fire":          "Rappel : %s",
	},
}

func (b *Bot) t(lang, key string, args ...any) string {
	table, ok := translations[lang]
	if !ok {
		table = translations["en"]
	}
	template, ok := table[key]
	if !ok {
		template = translations["en"][key]
	}
	if template == "" {
		return key
	}
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
