package services

import (
	"context"
	"errors"

	"menu-telegram/db"
	"menu-telegram/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the only component that talks to the store. Every query
// is parameterized; table and column names are fixed in the statements.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListTables returns the names of all tables in the public schema.
func (r *Repository) ListTables(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public'`,
	)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	tables := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = struct{}{}
	}
	return tables, db.MapError(rows.Err())
}

// ListCategories returns all categories ordered by id. An absent table is
// reported as an empty list: callers that need to tell "menu not created"
// from "menu empty" check ListTables instead.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category_id, name_category FROM menu_categories
		ORDER BY category_id`,
	)
	if err != nil {
		return nil, undefinedAsEmpty(err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	// pgx may defer a query error (including an undefined table) until
	// the rows are drained.
	if err := rows.Err(); err != nil {
		return nil, undefinedAsEmpty(err)
	}
	return categories, nil
}

func undefinedAsEmpty(err error) error {
	if errors.Is(db.MapError(err), db.ErrUndefinedTable) {
		return nil
	}
	return db.MapError(err)
}

func (r *Repository) InsertCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menu_categories (name_category) VALUES ($1)
		RETURNING category_id`,
		name,
	).Scan(&id)
	return id, db.MapError(err)
}

// FindCategoryIDByName returns the id of the category with the given name,
// or ok=false when no such category exists.
func (r *Repository) FindCategoryIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT category_id FROM menu_categories WHERE name_category = $1
		ORDER BY category_id LIMIT 1`,
		name,
	).Scan(&id)
	if err != nil {
		if errors.Is(db.MapError(err), db.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, db.MapError(err)
	}
	return id, true, nil
}

// InsertDish adds a dish. The price is passed as text and cast by the
// store; a non-numeric price surfaces as db.ErrInvalidValue.
func (r *Repository) InsertDish(ctx context.Context, name string, categoryID int64, price, description string) (int64, error) {
	var desc any
	if description != "" {
		desc = description
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO dishes (name_dish, category_id, price, description)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING dish_id`,
		name, categoryID, price, desc,
	).Scan(&id)
	return id, db.MapError(err)
}

func (r *Repository) ListDishesByCategory(ctx context.Context, categoryID int64) ([]models.Dish, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT dish_id, name_dish FROM dishes
		WHERE category_id = $1
		ORDER BY dish_id`,
		categoryID,
	)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		d.CategoryID = categoryID
		dishes = append(dishes, d)
	}
	return dishes, db.MapError(rows.Err())
}

// GetDish returns the full dish record or db.ErrNotFound.
func (r *Repository) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	var (
		d    models.Dish
		desc *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT dish_id, name_dish, category_id, price::text, description, in_stock
		FROM dishes WHERE dish_id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.CategoryID, &d.Price, &desc, &d.InStock)
	if err != nil {
		return nil, db.MapError(err)
	}
	if desc != nil {
		d.Description = *desc
	}
	return &d, nil
}

func (r *Repository) InsertSelection(ctx context.Context, ev models.SelectionEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO selection_dishes (username, dish_id, datetime)
		VALUES ($1, $2, $3)`,
		ev.Username, ev.DishID, ev.At,
	)
	return db.MapError(err)
}

func (r *Repository) InsertInboundMessage(ctx context.Context, text string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO last_messages (text_message) VALUES ($1)`,
		text,
	)
	return db.MapError(err)
}

// RankedRow is one line of a leaderboard report.
type RankedRow struct {
	Name  string
	Count int64
}

// TopDishes returns dish names with selection counts, most selected
// first. Ties are broken by name so the order is deterministic.
func (r *Repository) TopDishes(ctx context.Context, limit int) ([]RankedRow, error) {
	return r.ranked(ctx, `
		SELECT name_dish, count(name_dish)
		FROM selection_dishes JOIN dishes USING (dish_id)
		GROUP BY name_dish
		ORDER BY count(name_dish) DESC, name_dish
		LIMIT $1`,
		limit,
	)
}

// TopUsers returns usernames with selection counts, most active first.
func (r *Repository) TopUsers(ctx context.Context, limit int) ([]RankedRow, error) {
	return r.ranked(ctx, `
		SELECT username, count(username)
		FROM selection_dishes JOIN dishes USING (dish_id)
		GROUP BY username
		ORDER BY count(username) DESC, username
		LIMIT $1`,
		limit,
	)
}

func (r *Repository) ranked(ctx context.Context, query string, limit int) ([]RankedRow, error) {
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var result []RankedRow
	for rows.Next() {
		var row RankedRow
		if err := rows.Scan(&row.Name, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, db.MapError(rows.Err())
}

// RecentInboundMessages returns the latest logged messages, newest first.
func (r *Repository) RecentInboundMessages(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT text_message FROM last_messages
		ORDER BY last_message_id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		messages = append(messages, text)
	}
	return messages, db.MapError(rows.Err())
}
