package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// Bot is the Telegram storefront. It shares the service layer with the HTTP
// API, so bot and Mini App customers see the same catalogue, cart and orders.
type Bot struct {
	client      *Client
	users       service.UserService
	catalog     service.CatalogService
	carts       service.CartService
	pollTimeout int
	logger      zerolog.Logger
}

// New creates a bot on top of the shared services.
func New(client *Client, users service.UserService, catalog service.CatalogService, carts service.CartService, pollTimeout int, logger zerolog.Logger) *Bot {
	return &Bot{
		client:      client,
		users:       users,
		catalog:     catalog,
		carts:       carts,
		pollTimeout: pollTimeout,
		logger:      logger.With().Str("component", "bot").Logger(),
	}
}

// Run long-polls for updates until the context is cancelled. Polling errors
// are logged and retried; a failed update never stops the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().Msg("bot started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("bot stopped")
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info().Msg("bot stopped")
				return ctx.Err()
			}
			b.logger.Error().Err(err).Msg("failed to poll updates")
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	user, err := b.resolveUser(ctx, msg.From)
	if err != nil {
		b.logger.Error().Err(err).Int64("telegram_id", msg.From.ID).Msg("failed to resolve user")
		_ = b.client.SendMessage(ctx, msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	command, args := splitCommand(msg.Text)
	switch command {
	case "/start":
		b.handleStart(ctx, msg.Chat.ID, user)
	case "/catalog":
		b.handleCatalog(ctx, msg.Chat.ID)
	case "/add":
		b.handleAdd(ctx, msg.Chat.ID, user, args)
	case "/cart":
		b.handleCart(ctx, msg.Chat.ID, user)
	case "/checkout":
		b.handleCheckout(ctx, msg.Chat.ID, user)
	default:
		_ = b.client.SendMessage(ctx, msg.Chat.ID,
			"Commands:\n/catalog - browse products\n/add <product> <qty> - add to cart\n/cart - view cart\n/checkout - place a pickup order")
	}
}

// resolveUser maps the Telegram sender onto an internal user, creating or
// merging the profile along the way.
func (b *Bot) resolveUser(ctx context.Context, from *User) (*model.User, error) {
	profile := model.UserProfile{
		IsBot:     &from.IsBot,
		IsPremium: &from.IsPremium,
	}
	if from.Username != "" {
		profile.Username = &from.Username
	}
	if from.FirstName != "" {
		profile.FirstName = &from.FirstName
	}
	if from.LastName != "" {
		profile.LastName = &from.LastName
	}
	if from.LanguageCode != "" {
		profile.LanguageCode = &from.LanguageCode
	}
	return b.users.GetOrCreateByTelegram(ctx, from.ID, profile)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, user *model.User) {
	name := "there"
	if user.FirstName != nil {
		name = *user.FirstName
	}
	_ = b.client.SendMessage(ctx, chatID,
		fmt.Sprintf("Hi %s! Welcome to Green Basket.\nUse /catalog to browse products.", name))
}

func (b *Bot) handleCatalog(ctx context.Context, chatID int64) {
	products, err := b.catalog.ListProducts(ctx)
	if err != nil {
		_ = b.client.SendMessage(ctx, chatID, "Could not load the catalogue, please try again later.")
		return
	}
	if len(products) == 0 {
		_ = b.client.SendMessage(ctx, chatID, "The catalogue is empty right now.")
		return
	}

	var sb strings.Builder
	sb.WriteString("*Catalogue*\n")
	for _, p := range products {
		if p.Price == nil || p.StockQuantity == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%d. %s - %.2f per %s\n", p.ID, p.Name, *p.Price, p.UnitSymbol)
	}
	sb.WriteString("\nAdd with /add <product> <qty>")
	_ = b.client.SendMessage(ctx, chatID, sb.String())
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, user *model.User, args []string) {
	if len(args) != 2 {
		_ = b.client.SendMessage(ctx, chatID, "Usage: /add <product> <qty>")
		return
	}
	productID, err1 := strconv.ParseInt(args[0], 10, 64)
	qty, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		_ = b.client.SendMessage(ctx, chatID, "Usage: /add <product> <qty>")
		return
	}

	if err := b.carts.AddItem(ctx, user.ID, productID, qty); err != nil {
		_ = b.client.SendMessage(ctx, chatID, domainMessage(err, "Could not add the product."))
		return
	}
	_ = b.client.SendMessage(ctx, chatID, "Added. View with /cart")
}

func (b *Bot) handleCart(ctx context.Context, chatID int64, user *model.User) {
	cart, err := b.carts.GetCart(ctx, user.ID)
	if err != nil {
		_ = b.client.SendMessage(ctx, chatID, "Could not load your cart, please try again later.")
		return
	}
	if len(cart.Items) == 0 {
		_ = b.client.SendMessage(ctx, chatID, "Your cart is empty. Browse with /catalog")
		return
	}

	var sb strings.Builder
	sb.WriteString("*Your cart*\n")
	for _, ln := range cart.Items {
		if ln.LineTotal != nil {
			fmt.Fprintf(&sb, "%s x%d %s - %.2f\n", ln.Name, ln.Quantity, ln.UnitSymbol, *ln.LineTotal)
		} else {
			fmt.Fprintf(&sb, "%s x%d %s - price unavailable\n", ln.Name, ln.Quantity, ln.UnitSymbol)
		}
	}
	fmt.Fprintf(&sb, "\nTotal: %.2f\nPlace a pickup order with /checkout", cart.Total)
	_ = b.client.SendMessage(ctx, chatID, sb.String())
}

func (b *Bot) handleCheckout(ctx context.Context, chatID int64, user *model.User) {
	authUser := model.AuthUser{ID: user.ID, TelegramID: user.TelegramID, Role: user.Role}
	order, err := b.carts.Checkout(ctx, authUser, model.CheckoutRequest{
		DeliveryType: model.DeliveryTypePickup,
	})
	if err != nil {
		_ = b.client.SendMessage(ctx, chatID, domainMessage(err, "Could not place the order."))
		return
	}

	_ = b.client.SendMessage(ctx, chatID,
		fmt.Sprintf("Order placed!\nNumber: %s\nTotal: %.2f\nPickup when you are ready.", order.ID, order.TotalAmount))
}

// domainMessage surfaces business-rule failures to the chat while hiding
// internal errors behind a generic fallback.
func domainMessage(err error, fallback string) string {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return fallback
}

func splitCommand(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", nil
	}
	// Strip the bot mention suffix from group chats.
	command, _, _ := strings.Cut(fields[0], "@")
	return command, fields[1:]
}
