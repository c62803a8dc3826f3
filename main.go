package main

import (
	"context"
	"fmt"
	"os"

	"menu-telegram/bot"
	"menu-telegram/config"
	"menu-telegram/db"
	"menu-telegram/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "BOT_TOKEN not set")
		os.Exit(1)
	}
	if len(cfg.Menu.AdminChatIDs) == 0 {
		fmt.Fprintln(os.Stderr, "warning: ADMIN_CHAT_ID not set, admin panel is unreachable")
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := services.NewRepository(pool)

	// `migrate` creates all tables up front instead of waiting for the
	// admin to press "Create menu".
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(ctx, repo)
		return
	}

	// The analytics tables depend on the menu schema, so they are only
	// ensured once the menu has been bootstrapped.
	if err := ensureAnalytics(ctx, repo); err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		os.Exit(1)
	}

	b, err := bot.New(cfg, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}

func runMigrate(ctx context.Context, repo *services.Repository) {
	if err := repo.EnsureMenuSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	if err := repo.EnsureAnalyticsSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Println("Schema is up to date.")
}

func ensureAnalytics(ctx context.Context, repo *services.Repository) error {
	exists, err := services.MenuExists(ctx, repo)
	if err != nil || !exists {
		return err
	}
	return repo.EnsureAnalyticsSchema(ctx)
}
