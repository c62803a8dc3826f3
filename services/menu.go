package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menu-telegram/db"
	"menu-telegram/models"
)

// Result is the outcome of a mutating use-case. A rejection carries a
// user-facing reason; Err is set only for unexpected store faults.
type Result struct {
	Created bool
	Reason  string
	Err     error
}

func created() Result {
	return Result{Created: true}
}

func rejected(reason string) Result {
	return Result{Reason: reason}
}

func failed(err error) Result {
	return Result{Err: err}
}

const (
	ReasonNoCategoryName   = "no category name supplied"
	ReasonBadDishCommand   = "the command does not match the expected form"
	ReasonCategoryNotFound = "no such category in the menu"
	ReasonBadPrice         = "the price is not a valid number"
	ReasonNameTooLong      = "the name is too long (60 characters max)"
	ReasonDescTooLong      = "the description is too long (255 characters max)"
)

// Menu composes the parser, validators and repository into the
// menu-management use-cases.
type Menu struct {
	repo               *Repository
	allowNegativePrice bool
}

func NewMenu(repo *Repository, allowNegativePrice bool) *Menu {
	return &Menu{repo: repo, allowNegativePrice: allowNegativePrice}
}

// AddCategory handles the /add_category command arguments. No row is
// inserted when parsing or validation fails.
func (m *Menu) AddCategory(ctx context.Context, argsText string) Result {
	name, ok := ParseAddCategory(argsText)
	if !ok {
		return rejected(ReasonNoCategoryName)
	}
	if !WithinLength(name, models.MaxNameLen) {
		return rejected(ReasonNameTooLong)
	}
	if _, err := m.repo.InsertCategory(ctx, name); err != nil {
		return failed(err)
	}
	return created()
}

// AddDish handles the /add_dish command arguments: parse, resolve the
// category, validate the price and lengths, insert.
func (m *Menu) AddDish(ctx context.Context, argsText string) Result {
	cmd, ok := ParseAddDish(argsText)
	if !ok {
		return rejected(ReasonBadDishCommand)
	}

	categoryID, found, err := m.repo.FindCategoryIDByName(ctx, cmd.Category)
	if err != nil {
		if errors.Is(err, db.ErrUndefinedTable) {
			return rejected(ReasonCategoryNotFound)
		}
		return failed(err)
	}
	if !found {
		return rejected(ReasonCategoryNotFound)
	}

	if !IsValidPrice(cmd.Price, m.allowNegativePrice) {
		return rejected(ReasonBadPrice)
	}
	if !WithinLength(cmd.Dish, models.MaxNameLen) {
		return rejected(ReasonNameTooLong)
	}
	if !WithinLength(cmd.Description, models.MaxDescriptionLen) {
		return rejected(ReasonDescTooLong)
	}

	price := strings.ReplaceAll(cmd.Price, ",", ".")
	if _, err := m.repo.InsertDish(ctx, cmd.Dish, categoryID, price, cmd.Description); err != nil {
		// The store re-checks the price type; treat its complaint like
		// the validator's.
		if errors.Is(err, db.ErrInvalidValue) {
			return rejected(ReasonBadPrice)
		}
		return failed(err)
	}
	return created()
}

// CategoryList renders the category names for display.
func (m *Menu) CategoryList(ctx context.Context) (string, error) {
	categories, err := m.repo.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	return FormatCategories(categories), nil
}

// TopDishesReport renders the top-n selected dishes as ranked lines.
// Before the analytics tables exist the report is simply empty.
func (m *Menu) TopDishesReport(ctx context.Context, n int) (string, error) {
	rows, err := m.repo.TopDishes(ctx, n)
	if err != nil && !errors.Is(err, db.ErrUndefinedTable) {
		return "", err
	}
	return FormatRanked(rows), nil
}

// TopUsersReport renders the top-n most active users as ranked lines.
func (m *Menu) TopUsersReport(ctx context.Context, n int) (string, error) {
	rows, err := m.repo.TopUsers(ctx, n)
	if err != nil && !errors.Is(err, db.ErrUndefinedTable) {
		return "", err
	}
	return FormatRanked(rows), nil
}

// RecentMessagesReport renders the latest inbound messages, newest first.
func (m *Menu) RecentMessagesReport(ctx context.Context, n int) (string, error) {
	messages, err := m.repo.RecentInboundMessages(ctx, n)
	if err != nil {
		if errors.Is(err, db.ErrUndefinedTable) {
			return FormatNumbered(nil), nil
		}
		return "", err
	}
	return FormatNumbered(messages), nil
}

const NoCategoriesText = "There are no categories in the menu yet."

// FormatCategories joins category names one per line.
func FormatCategories(categories []models.Category) string {
	if len(categories) == 0 {
		return NoCategoriesText
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return strings.Join(names, "\n")
}

// FormatRanked renders leaderboard rows as "1. Name (5)" lines.
func FormatRanked(rows []RankedRow) string {
	if len(rows) == 0 {
		return "Nothing to report yet."
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf("%d. %s (%d)", i+1, row.Name, row.Count)
	}
	return strings.Join(lines, "\n")
}

// FormatNumbered renders plain lines with a 1-based index.
func FormatNumbered(lines []string) string {
	if len(lines) == 0 {
		return "Nothing to report yet."
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%d. %s", i+1, line)
	}
	return strings.Join(out, "\n")
}
