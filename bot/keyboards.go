package bot

import (
	"fmt"

	"menu-telegram/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback tokens. Category and dish buttons carry the row id after a
// colon prefix.
const (
	cbMenu         = "menu"
	cbAdmin        = "admin"
	cbCreateMenu   = "create_menu"
	cbAddCategory  = "add_category"
	cbAddDish      = "add_dish"
	cbTopDishes    = "top_dishes"
	cbTopUsers     = "top_users"
	cbLastMessages = "last_messages"
	cbBack         = "back_to_start"

	cbCategoryPrefix = "cat:"
	cbDishPrefix     = "dish:"
)

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Menu", cbMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Admin panel", cbAdmin),
		),
	)
}

// adminKeyboard adapts to the bootstrap state: until the menu exists the
// only useful action is creating it; afterwards the create button gives
// way to the management and report actions.
func adminKeyboard(menuExists bool) tgbotapi.InlineKeyboardMarkup {
	if !menuExists {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Back", cbBack),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Create menu", cbCreateMenu),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Back", cbBack),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add category", cbAddCategory),
			tgbotapi.NewInlineKeyboardButtonData("Add dish", cbAddDish),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Top dishes", cbTopDishes),
			tgbotapi.NewInlineKeyboardButtonData("Top users", cbTopUsers),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Recent messages", cbLastMessages),
		),
	)
}

func categoriesKeyboard(categories []models.Category) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories)+1)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", cbBack),
	))
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, fmt.Sprintf("%s%d", cbCategoryPrefix, c.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dishesKeyboard(dishes []models.Dish) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(dishes)+1)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", cbMenu),
	))
	for _, d := range dishes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(d.Name, fmt.Sprintf("%s%d", cbDishPrefix, d.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
