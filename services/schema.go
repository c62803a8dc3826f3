package services

import (
	"context"
	"fmt"
)

// DDL mirrors the production schema. Every statement is IF NOT EXISTS so
// bootstrap can be re-run from the admin panel without error.
var menuSchema = []string{
	`CREATE TABLE IF NOT EXISTS menu_categories (
		  category_id SERIAL PRIMARY KEY,
		name_category VARCHAR(60) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		    dish_id SERIAL PRIMARY KEY,
		  name_dish VARCHAR(60) NOT NULL,
		category_id INTEGER NOT NULL,
		      price NUMERIC(5, 2) NOT NULL,
		description VARCHAR(255),
		   in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		FOREIGN KEY (category_id) REFERENCES menu_categories (category_id) ON DELETE CASCADE
	)`,
}

var analyticsSchema = []string{
	`CREATE TABLE IF NOT EXISTS last_messages (
		last_message_id SERIAL PRIMARY KEY,
		   text_message TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS selection_dishes (
		selection_dishes_id SERIAL PRIMARY KEY,
		           username VARCHAR(255) NOT NULL,
		            dish_id INTEGER NOT NULL,
		           datetime TIMESTAMP WITH TIME ZONE NOT NULL,
		FOREIGN KEY (dish_id) REFERENCES dishes (dish_id) ON DELETE CASCADE
	)`,
}

// EnsureMenuSchema creates the menu_categories and dishes tables if they
// do not exist yet.
func (r *Repository) EnsureMenuSchema(ctx context.Context) error {
	return r.execAll(ctx, menuSchema)
}

// EnsureAnalyticsSchema creates the last_messages and selection_dishes
// tables if they do not exist yet. selection_dishes references dishes, so
// the menu schema must be in place first.
func (r *Repository) EnsureAnalyticsSchema(ctx context.Context) error {
	return r.execAll(ctx, analyticsSchema)
}

func (r *Repository) execAll(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
