package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"menu-telegram/config"
	"menu-telegram/db"
	"menu-telegram/models"
	"menu-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// storeTimeout bounds every store call made from a handler so a slow
// database fails the request instead of hanging the update loop.
const storeTimeout = 5 * time.Second

type Bot struct {
	api  *tgbotapi.BotAPI
	repo *services.Repository
	menu *services.Menu

	admins      map[int64]struct{}
	reportLimit int

	// lastMessageID tracks the bot's previous message per chat so each
	// screen replaces the one before it instead of piling up.
	lastMessageID   map[int64]int
	lastMessageIDMu sync.Mutex
}

func New(cfg *config.Config, repo *services.Repository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:           api,
		repo:          repo,
		menu:          services.NewMenu(repo, cfg.Menu.AllowNegativePrice),
		admins:        cfg.Menu.AdminChatIDs,
		reportLimit:   cfg.Menu.ReportLimit,
		lastMessageID: make(map[int64]int),
	}, nil
}

// Start runs the long-polling loop. It processes one update at a time;
// traffic is operator plus end-user browsing, not high throughput.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range b.api.GetUpdatesChan(u) {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if msg.Text != "" {
		b.logInbound(ctx, msg.Text)
	}

	switch msg.Command() {
	case "start":
		greeting := fmt.Sprintf("Hello, %s, choose an action:", msg.From.FirstName)
		b.replaceMessage(msg.Chat.ID, greeting, startKeyboard())
	case "add_category":
		b.handleAddCategory(ctx, msg)
	case "add_dish":
		b.handleAddDish(ctx, msg)
	}
}

// logInbound appends the raw text to the activity log. Before the first
// bootstrap the table does not exist; that state is expected and the
// write is skipped.
func (b *Bot) logInbound(ctx context.Context, text string) {
	err := b.repo.InsertInboundMessage(ctx, text)
	if err != nil && !errors.Is(err, db.ErrUndefinedTable) {
		log.Printf("log inbound message: %v", err)
	}
}

func (b *Bot) handleAddCategory(ctx context.Context, msg *tgbotapi.Message) {
	if !services.IsAdmin(msg.Chat.ID, b.admins) {
		b.replyText(msg.Chat.ID, answerNoAccess)
		return
	}
	result := b.menu.AddCategory(ctx, msg.CommandArguments())
	b.replyResult(msg.Chat.ID, result, answerCategoryAdded)
}

func (b *Bot) handleAddDish(ctx context.Context, msg *tgbotapi.Message) {
	if !services.IsAdmin(msg.Chat.ID, b.admins) {
		b.replyText(msg.Chat.ID, answerNoAccess)
		return
	}
	result := b.menu.AddDish(ctx, msg.CommandArguments())
	b.replyResult(msg.Chat.ID, result, answerDishAdded)
}

func (b *Bot) replyResult(chatID int64, result services.Result, successText string) {
	switch {
	case result.Created:
		b.replyText(chatID, successText)
	case result.Err != nil:
		log.Printf("store error: %v", result.Err)
		b.replyText(chatID, answerStoreTrouble)
	default:
		b.replyText(chatID, result.Reason)
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	// Acknowledge the button press so the client stops the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("answer callback: %v", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	data := cq.Data
	switch {
	case data == cbMenu:
		b.showMenu(ctx, chatID)
	case data == cbAdmin:
		b.showAdminPanel(ctx, chatID)
	case data == cbCreateMenu:
		b.createMenu(ctx, chatID)
	case data == cbAddCategory:
		b.replyText(chatID, answerAddCategoryHelp)
	case data == cbAddDish:
		b.showAddDishHelp(ctx, chatID)
	case data == cbTopDishes:
		b.showReport(chatID, func() (string, error) { return b.menu.TopDishesReport(ctx, b.reportLimit) })
	case data == cbTopUsers:
		b.showReport(chatID, func() (string, error) { return b.menu.TopUsersReport(ctx, b.reportLimit) })
	case data == cbLastMessages:
		b.showReport(chatID, func() (string, error) { return b.menu.RecentMessagesReport(ctx, b.reportLimit) })
	case data == cbBack:
		b.replaceMessage(chatID, answerChooseAction, startKeyboard())
	case strings.HasPrefix(data, cbCategoryPrefix):
		b.showCategory(ctx, chatID, strings.TrimPrefix(data, cbCategoryPrefix))
	case strings.HasPrefix(data, cbDishPrefix):
		b.showDish(ctx, chatID, cq.From, strings.TrimPrefix(data, cbDishPrefix))
	}
}

func (b *Bot) showMenu(ctx context.Context, chatID int64) {
	exists, err := services.MenuExists(ctx, b.repo)
	if err != nil {
		log.Printf("menu exists check: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	if !exists {
		b.replyText(chatID, answerNoMenuYet)
		return
	}
	categories, err := b.repo.ListCategories(ctx)
	if err != nil {
		log.Printf("list categories: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	b.replaceMessage(chatID, answerChooseAction, categoriesKeyboard(categories))
}

func (b *Bot) showAdminPanel(ctx context.Context, chatID int64) {
	if !services.IsAdmin(chatID, b.admins) {
		b.replyText(chatID, answerNoAccess)
		return
	}
	exists, err := services.MenuExists(ctx, b.repo)
	if err != nil {
		log.Printf("menu exists check: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	b.replaceMessage(chatID, answerChooseAction, adminKeyboard(exists))
}

func (b *Bot) createMenu(ctx context.Context, chatID int64) {
	if !services.IsAdmin(chatID, b.admins) {
		b.replyText(chatID, answerNoAccess)
		return
	}
	if err := b.repo.EnsureMenuSchema(ctx); err != nil {
		log.Printf("ensure menu schema: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	if err := b.repo.EnsureAnalyticsSchema(ctx); err != nil {
		log.Printf("ensure analytics schema: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	b.replyText(chatID, answerMenuCreated)
}

func (b *Bot) showAddDishHelp(ctx context.Context, chatID int64) {
	list, err := b.menu.CategoryList(ctx)
	if err != nil {
		log.Printf("category list: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	b.replyText(chatID, answerAddDishHelp+list)
}

func (b *Bot) showReport(chatID int64, report func() (string, error)) {
	if !services.IsAdmin(chatID, b.admins) {
		b.replyText(chatID, answerNoAccess)
		return
	}
	text, err := report()
	if err != nil {
		log.Printf("report: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	b.replyText(chatID, text)
}

func (b *Bot) showCategory(ctx context.Context, chatID int64, idToken string) {
	categoryID, err := strconv.ParseInt(idToken, 10, 64)
	if err != nil {
		return
	}
	dishes, err := b.repo.ListDishesByCategory(ctx, categoryID)
	if err != nil {
		log.Printf("list dishes: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}
	if len(dishes) == 0 {
		b.replyText(chatID, answerCategoryEmpty)
		return
	}
	b.replaceMessage(chatID, answerChooseAction, dishesKeyboard(dishes))
}

func (b *Bot) showDish(ctx context.Context, chatID int64, from *tgbotapi.User, idToken string) {
	dishID, err := strconv.ParseInt(idToken, 10, 64)
	if err != nil {
		return
	}
	dish, err := b.repo.GetDish(ctx, dishID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			b.replyText(chatID, answerDishGone)
			return
		}
		log.Printf("get dish: %v", err)
		b.replyText(chatID, answerStoreTrouble)
		return
	}

	ev := models.SelectionEvent{Username: displayName(from), DishID: dishID, At: time.Now()}
	if err := b.repo.InsertSelection(ctx, ev); err != nil {
		log.Printf("record selection: %v", err)
	}

	var card strings.Builder
	fmt.Fprintf(&card, "%s\nPrice: %s", dish.Name, dish.Price)
	if dish.Description != "" {
		fmt.Fprintf(&card, "\n%s", dish.Description)
	}
	if !dish.InStock {
		card.WriteString("\nCurrently out of stock.")
	}
	b.replyText(chatID, card.String())
}

func displayName(from *tgbotapi.User) string {
	if from == nil {
		return "unknown"
	}
	if from.UserName != "" {
		return from.UserName
	}
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}

// replaceMessage deletes the bot's previous message in the chat and sends
// the next screen, so navigation feels like a single updating panel.
func (b *Bot) replaceMessage(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	b.deleteLast(chatID)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) replyText(chatID int64, text string) {
	b.deleteLast(chatID)
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) deleteLast(chatID int64) {
	b.lastMessageIDMu.Lock()
	messageID, ok := b.lastMessageID[chatID]
	delete(b.lastMessageID, chatID)
	b.lastMessageIDMu.Unlock()
	if !ok {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		// Stale or already deleted messages are fine to leave behind.
		log.Printf("delete message %d in chat %d: %v", messageID, chatID, err)
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send message to chat %d: %v", msg.ChatID, err)
		return
	}
	b.lastMessageIDMu.Lock()
	b.lastMessageID[msg.ChatID] = sent.MessageID
	b.lastMessageIDMu.Unlock()
}
