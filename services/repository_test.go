package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"menu-telegram/db"
	"menu-telegram/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests run against a disposable database:
//
//	TEST_DATABASE_URL=postgres://postgres@localhost:5432/menu_test go test ./services
//
// They drop and recreate the four tables on every run.
func setupTestRepo(t *testing.T) (*Repository, context.Context) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	repo := NewRepository(pool)
	for _, table := range []string{"selection_dishes", "last_messages", "dishes", "menu_categories"} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			t.Fatalf("drop %s: %v", table, err)
		}
	}
	return repo, ctx
}

func TestMenuSchemaBootstrap(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	exists, err := MenuExists(ctx, repo)
	if err != nil {
		t.Fatalf("MenuExists before bootstrap: %v", err)
	}
	if exists {
		t.Fatal("menu should not exist before bootstrap")
	}

	// Absent table reads as an empty menu, not an error.
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories before bootstrap: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("expected no categories, got %d", len(categories))
	}

	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}
	// Second run must be a no-op, not a duplicate-table error.
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema rerun: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema rerun: %v", err)
	}

	exists, err = MenuExists(ctx, repo)
	if err != nil || !exists {
		t.Fatalf("menu should exist after bootstrap (exists=%v, err=%v)", exists, err)
	}
	categories, err = repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories after bootstrap: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("fresh menu should be empty, got %d categories", len(categories))
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}

	id, err := repo.InsertCategory(ctx, "Desserts")
	if err != nil {
		t.Fatalf("InsertCategory: %v", err)
	}
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	found := false
	for _, c := range categories {
		if c.ID == id && c.Name == "Desserts" {
			found = true
		}
	}
	if !found {
		t.Fatalf("inserted category not listed: %+v", categories)
	}

	gotID, ok, err := repo.FindCategoryIDByName(ctx, "Desserts")
	if err != nil || !ok || gotID != id {
		t.Fatalf("FindCategoryIDByName = (%d, %v, %v), want (%d, true, nil)", gotID, ok, err, id)
	}
	_, ok, err = repo.FindCategoryIDByName(ctx, "NoSuchCategory")
	if err != nil || ok {
		t.Fatalf("lookup of missing category = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestAddDishEndToEnd(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema: %v", err)
	}
	menu := NewMenu(repo, false)

	if r := menu.AddCategory(ctx, "Drinks"); !r.Created {
		t.Fatalf("AddCategory rejected: %+v", r)
	}

	// Unknown category: rejected, nothing inserted.
	if r := menu.AddDish(ctx, "NoSuchCategory Pizza 10"); r.Created || r.Reason != ReasonCategoryNotFound {
		t.Fatalf("AddDish with unknown category: %+v", r)
	}

	if r := menu.AddDish(ctx, "Drinks Cola free"); r.Created || r.Reason != ReasonBadPrice {
		t.Fatalf("AddDish with bad price: %+v", r)
	}

	if r := menu.AddDish(ctx, "Drinks Cola 2.50 Cold_soda"); !r.Created {
		t.Fatalf("AddDish rejected: %+v", r)
	}

	drinksID, ok, err := repo.FindCategoryIDByName(ctx, "Drinks")
	if err != nil || !ok {
		t.Fatalf("Drinks category lookup failed: %v", err)
	}
	dishes, err := repo.ListDishesByCategory(ctx, drinksID)
	if err != nil {
		t.Fatalf("ListDishesByCategory: %v", err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Cola" {
		t.Fatalf("expected only Cola in Drinks, got %+v", dishes)
	}

	dish, err := repo.GetDish(ctx, dishes[0].ID)
	if err != nil {
		t.Fatalf("GetDish: %v", err)
	}
	if dish.Price != "2.50" || dish.Description != "Cold soda" || !dish.InStock {
		t.Fatalf("dish record mismatch: %+v", dish)
	}

	_, err = repo.GetDish(ctx, dish.ID+1000)
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("GetDish for missing id: got %v, want ErrNotFound", err)
	}
}

func TestTopReportsOrdering(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema: %v", err)
	}

	categoryID, err := repo.InsertCategory(ctx, "Main Course")
	if err != nil {
		t.Fatalf("InsertCategory: %v", err)
	}
	ids := make(map[string]int64)
	for _, name := range []string{"A", "B", "C"} {
		id, err := repo.InsertDish(ctx, name, categoryID, "5.00", "")
		if err != nil {
			t.Fatalf("InsertDish %s: %v", name, err)
		}
		ids[name] = id
	}

	now := time.Now()
	counts := map[string]int{"A": 3, "B": 5, "C": 1}
	for name, n := range counts {
		for i := 0; i < n; i++ {
			user := "alice"
			if i%2 == 1 {
				user = "bob"
			}
			ev := models.SelectionEvent{Username: user, DishID: ids[name], At: now}
			if err := repo.InsertSelection(ctx, ev); err != nil {
				t.Fatalf("InsertSelection: %v", err)
			}
		}
	}

	top, err := repo.TopDishes(ctx, 2)
	if err != nil {
		t.Fatalf("TopDishes: %v", err)
	}
	want := []RankedRow{{Name: "B", Count: 5}, {Name: "A", Count: 3}}
	if len(top) != 2 || top[0] != want[0] || top[1] != want[1] {
		t.Fatalf("TopDishes(2) = %+v, want %+v", top, want)
	}

	users, err := repo.TopUsers(ctx, 2)
	if err != nil {
		t.Fatalf("TopUsers: %v", err)
	}
	// 9 selections total: alice takes the even indexes (6), bob the odd (3).
	if len(users) != 2 || users[0].Name != "alice" || users[0].Count != 6 || users[1].Name != "bob" || users[1].Count != 3 {
		t.Fatalf("TopUsers(2) = %+v", users)
	}
}

func TestCascadeDeletes(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema: %v", err)
	}

	categoryID, err := repo.InsertCategory(ctx, "Soups")
	if err != nil {
		t.Fatalf("InsertCategory: %v", err)
	}
	dishID, err := repo.InsertDish(ctx, "Borscht", categoryID, "4.20", "")
	if err != nil {
		t.Fatalf("InsertDish: %v", err)
	}
	ev := models.SelectionEvent{Username: "alice", DishID: dishID, At: time.Now()}
	if err := repo.InsertSelection(ctx, ev); err != nil {
		t.Fatalf("InsertSelection: %v", err)
	}

	if _, err := repo.pool.Exec(ctx, "DELETE FROM menu_categories WHERE category_id = $1", categoryID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := repo.GetDish(ctx, dishID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("dish should be cascade-deleted, GetDish err = %v", err)
	}
	var selections int
	if err := repo.pool.QueryRow(ctx, "SELECT count(*) FROM selection_dishes WHERE dish_id = $1", dishID).Scan(&selections); err != nil {
		t.Fatalf("count selections: %v", err)
	}
	if selections != 0 {
		t.Fatalf("selections should be cascade-deleted, found %d", selections)
	}
}

func TestInboundMessageLog(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		t.Fatalf("EnsureMenuSchema: %v", err)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		t.Fatalf("EnsureAnalyticsSchema: %v", err)
	}

	for _, text := range []string{"first", "second", "third"} {
		if err := repo.InsertInboundMessage(ctx, text); err != nil {
			t.Fatalf("InsertInboundMessage: %v", err)
		}
	}
	messages, err := repo.RecentInboundMessages(ctx, 2)
	if err != nil {
		t.Fatalf("RecentInboundMessages: %v", err)
	}
	if len(messages) != 2 || messages[0] != "third" || messages[1] != "second" {
		t.Fatalf("RecentInboundMessages(2) = %v, want [third second]", messages)
	}
}
