package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ultrabot/internal/modules/economy"
	"ultrabot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) handleBalance(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	target := optionalUser(s, i, optionMap(options), "member")

	user, err := b.store.GetUser(ctx, target.ID, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: fmt.Sprintf("%d %s", user.Balance, cfg.Economy.CurrencySymbol), Inline: true},
		{Name: "Bank", Value: fmt.Sprintf("%d %s", user.Bank, cfg.Economy.CurrencySymbol), Inline: true},
		{Name: "Total", Value: fmt.Sprintf("%d %s", user.Balance+user.Bank, cfg.Economy.CurrencySymbol), Inline: true},
	}
	b.respondEmbed(s, i, b.embed("Balance - "+target.Username, "", b.cfg.Embeds.Primary, fields), false)
}

func (b *Bot) handleDaily(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	if !cfg.Economy.Enabled {
		b.respond(s, i, b.t(lang, "economy.disabled"), true)
		return
	}
	userID := interactionUser(i).ID

	amount, err := b.economy.Daily(ctx, i.GuildID, userID, cfg.Economy, time.Now())
	if err != nil {
		var cooldown *economy.CooldownError
		if errors.As(err, &cooldown) {
			b.respond(s, i, b.t(lang, "economy.daily_wait", formatRemaining(cooldown.Remaining)), true)
			return
		}
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, b.t(lang, "economy.daily", amount, cfg.Economy.CurrencyName), false)
}

func (b *Bot) handleWork(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	if !cfg.Economy.Enabled {
		b.respond(s, i, b.t(lang, "economy.disabled"), true)
		return
	}
	userID := interactionUser(i).ID

	earned, job, err := b.economy.Work(ctx, i.GuildID, userID, cfg.Economy, time.Now())
	if err != nil {
		var cooldown *economy.CooldownError
		if errors.As(err, &cooldown) {
			b.respond(s, i, b.t(lang, "economy.work_wait", formatRemaining(cooldown.Remaining)), true)
			return
		}
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, b.t(lang, "economy.work", job, earned, cfg.Economy.CurrencyName), false)
}

func (b *Bot) handlePay(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	amount := opts["amount"].IntValue()
	from := interactionUser(i)

	err := b.economy.Pay(ctx, i.GuildID, from.ID, target.ID, amount)
	switch {
	case err == nil:
		b.respond(s, i, b.t(lang, "economy.pay", amount, cfg.Economy.CurrencyName, mention(target.ID)), false)
	case errors.Is(err, economy.ErrSelfTransfer):
		b.respond(s, i, b.t(lang, "economy.self_pay"), true)
	case errors.Is(err, economy.ErrInvalidAmount):
		b.respond(s, i, b.t(lang, "error.amount"), true)
	case errors.Is(err, storage.ErrInsufficientFunds):
		b.respond(s, i, b.t(lang, "economy.insufficient"), true)
	default:
		b.logger.Error("pay", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
	}
}

func (b *Bot) handleBankMove(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption, deposit bool) {
	lang := cfg.Language
	userID := interactionUser(i).ID

	raw := strings.TrimSpace(strings.ToLower(optionMap(options)["amount"].StringValue()))
	var amount int64
	if raw == "all" {
		amount = -1
	} else {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			b.respond(s, i, b.t(lang, "error.amount"), true)
			return
		}
		amount = parsed
	}

	var moved int64
	var err error
	if deposit {
		moved, err = b.economy.Deposit(ctx, i.GuildID, userID, amount)
	} else {
		moved, err = b.economy.Withdraw(ctx, i.GuildID, userID, amount)
	}
	switch {
	case err == nil:
		key := "economy.withdraw"
		if deposit {
			key = "economy.deposit"
		}
		b.respond(s, i, b.t(lang, key, moved, cfg.Economy.CurrencyName), false)
	case errors.Is(err, economy.ErrInvalidAmount):
		b.respond(s, i, b.t(lang, "error.amount"), true)
	case errors.Is(err, storage.ErrInsufficientFunds):
		b.respond(s, i, b.t(lang, "economy.insufficient"), true)
	default:
		b.logger.Error("bank move", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
	}
}

func (b *Bot) handleAdjustCash(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption, sign int64) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	target := opts["member"].UserValue(s)
	amount := opts["amount"].IntValue()
	if amount <= 0 {
		b.respond(s, i, b.t(lang, "error.amount"), true)
		return
	}

	if _, err := b.store.GetUser(ctx, target.ID, i.GuildID); err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if err := b.store.AddBalance(ctx, target.ID, i.GuildID, sign*amount); err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	verb := "Added"
	if sign < 0 {
		verb = "Removed"
	}
	b.respond(s, i, fmt.Sprintf("%s **%d %s** for %s.", verb, amount, cfg.Economy.CurrencyName, target.Username), false)
}

func (b *Bot) handleShop(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	items, err := b.store.ListShopItems(ctx, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if len(items) == 0 {
		b.respond(s, i, b.t(lang, "shop.empty"), true)
		return
	}

	var sb strings.Builder
	selectOptions := make([]discordgo.SelectMenuOption, 0, len(items))
	for _, item := range items {
		stock := "∞"
		if item.Stock >= 0 {
			stock = strconv.FormatInt(item.Stock, 10)
		}
		fmt.Fprintf(&sb, "`#%d` **%s** - %d %s (stock: %s)\n", item.ID, item.Name, item.Price, cfg.Economy.CurrencySymbol, stock)
		if item.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", item.Description)
		}
		if len(selectOptions) < 25 {
			selectOptions = append(selectOptions, discordgo.SelectMenuOption{
				Label:       item.Name,
				Value:       strconv.FormatInt(item.ID, 10),
				Description: fmt.Sprintf("%d %s", item.Price, cfg.Economy.CurrencyName),
			})
		}
	}

	embed := b.embed("Shop", sb.String(), b.cfg.Embeds.Primary, nil)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    "shop_buy",
						Placeholder: "Buy an item",
						Options:     selectOptions,
					},
				}},
			},
		},
	})
	if err != nil {
		b.logger.Warn("shop respond", zap.Error(err))
	}
}

func (b *Bot) handleShopBuy(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, data discordgo.MessageComponentInteractionData) {
	lang := cfg.Language
	if len(data.Values) == 0 {
		return
	}
	itemID, err := strconv.ParseInt(data.Values[0], 10, 64)
	if err != nil {
		return
	}
	buyer := interactionUser(i)

	item, err := b.economy.Buy(ctx, i.GuildID, buyer.ID, itemID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrItemNotFound):
		b.respond(s, i, b.t(lang, "shop.not_found"), true)
		return
	case errors.Is(err, storage.ErrOutOfStock):
		b.respond(s, i, b.t(lang, "shop.out_of_stock"), true)
		return
	case errors.Is(err, storage.ErrInsufficientFunds):
		b.respond(s, i, b.t(lang, "economy.insufficient"), true)
		return
	default:
		b.logger.Error("shop buy", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}

	if item.RoleID != "" {
		if err := s.GuildMemberRoleAdd(i.GuildID, buyer.ID, item.RoleID); err != nil {
			b.logger.Warn("grant shop role", zap.String("guild_id", i.GuildID), zap.String("role_id", item.RoleID), zap.Error(err))
		}
	}
	b.respond(s, i, b.t(lang, "shop.bought", item.Name, item.Price, cfg.Economy.CurrencyName), true)
}

func (b *Bot) handleAddItem(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	opts := optionMap(options)
	item := storage.ShopItem{
		GuildID: i.GuildID,
		Name:    opts["name"].StringValue(),
		Price:   opts["price"].IntValue(),
		Stock:   -1,
	}
	if item.Price <= 0 {
		b.respond(s, i, b.t(lang, "error.amount"), true)
		return
	}
	if option, ok := opts["description"]; ok {
		item.Description = option.StringValue()
	}
	if option, ok := opts["role"]; ok {
		item.RoleID = option.RoleValue(s, i.GuildID).ID
	}
	if option, ok := opts["stock"]; ok {
		item.Stock = option.IntValue()
	}

	id, err := b.store.AddShopItem(ctx, item)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("Item **%s** added to the shop (`#%d`).", item.Name, id), false)
}

func (b *Bot) handleRemoveItem(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig, options []*discordgo.ApplicationCommandInteractionDataOption) {
	lang := cfg.Language
	if !hasPermission(i, discordgo.PermissionManageServer) {
		b.respond(s, i, b.t(lang, "error.permission"), true)
		return
	}

	itemID := optionMap(options)["id"].IntValue()
	removed, err := b.store.DeleteShopItem(ctx, i.GuildID, itemID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if !removed {
		b.respond(s, i, b.t(lang, "shop.not_found"), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("Item `#%d` removed from the shop.", itemID), false)
}

func (b *Bot) handleInventory(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cfg storage.GuildConfig) {
	lang := cfg.Language
	user, err := b.store.GetUser(ctx, interactionUser(i).ID, i.GuildID)
	if err != nil {
		b.respond(s, i, b.t(lang, "error.generic"), true)
		return
	}
	if len(user.Inventory) == 0 {
		b.respond(s, i, "Your inventory is empty.", true)
		return
	}

	names := make([]string, 0, len(user.Inventory))
	for name := range user.Inventory {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "**%s** ×%d\n", name, user.Inventory[name])
	}
	b.respondEmbed(s, i, b.embed("Inventory - "+interactionUser(i).Username, sb.String(), b.cfg.Embeds.Primary, nil), true)
}

// formatRemaining renders a cooldown with minute precision so "23h59m59s"
// style strings do not leak into user messages.
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
