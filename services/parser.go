package services

import (
	"strings"

	"menu-telegram/models"
)

// Commands arrive as single-line space-delimited text, so multi-word
// names are written with underscores in place of spaces. The convention
// is lossy: a literal underscore cannot appear in a name.

// ParseAddCategory extracts the category name from the arguments of an
// /add_category command. All tokens are joined into one name. ok is
// false when no name was supplied.
func ParseAddCategory(argsText string) (name string, ok bool) {
	tokens := strings.Fields(argsText)
	if len(tokens) == 0 {
		return "", false
	}
	for i, tok := range tokens {
		tokens[i] = expandUnderscores(tok)
	}
	return strings.Join(tokens, " "), true
}

// ParseAddDish extracts the positional {category, dish, price,
// description?} arguments of an /add_dish command. ok is false when the
// token count is not 3 or 4. Category existence and price validity are
// checked later, not here.
func ParseAddDish(argsText string) (cmd models.DishCommand, ok bool) {
	tokens := strings.Fields(argsText)
	if len(tokens) < 3 || len(tokens) > 4 {
		return models.DishCommand{}, false
	}
	cmd = models.DishCommand{
		Category: expandUnderscores(tokens[0]),
		Dish:     expandUnderscores(tokens[1]),
		Price:    expandUnderscores(tokens[2]),
	}
	if len(tokens) == 4 {
		cmd.Description = expandUnderscores(tokens[3])
	}
	return cmd, true
}

func expandUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
