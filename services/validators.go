package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IsAdmin reports whether the chat belongs to the configured admin set.
func IsAdmin(chatID int64, admins map[int64]struct{}) bool {
	_, ok := admins[chatID]
	return ok
}

// MenuExists reports whether the menu has been bootstrapped. An existing
// but empty menu_categories table still counts as an existing menu.
func MenuExists(ctx context.Context, repo *Repository) (bool, error) {
	tables, err := repo.ListTables(ctx)
	if err != nil {
		return false, err
	}
	_, ok := tables["menu_categories"]
	return ok, nil
}

// WithinLength reports whether s fits the column limit. varchar(n)
// counts characters, not bytes, so multi-byte names are measured in
// runes.
func WithinLength(s string, maxLen int) bool {
	return utf8.RuneCountInString(s) <= maxLen
}

// IsValidPrice reports whether text is a usable price. A decimal comma is
// accepted and normalized to a point. Negative prices are rejected unless
// allowNegative is set.
func IsValidPrice(text string, allowNegative bool) bool {
	normalized := strings.ReplaceAll(text, ",", ".")
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return false
	}
	if price < 0 && !allowNegative {
		return false
	}
	return true
}
