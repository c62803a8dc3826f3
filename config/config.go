package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Menu     MenuConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token string
}

type MenuConfig struct {
	// AdminChatIDs is the set of chat IDs allowed to open the admin panel
	// and run the mutating commands. Parsed from a space-delimited string.
	AdminChatIDs map[int64]struct{}
	// AllowNegativePrice relaxes the price rule; by default a price below
	// zero is rejected.
	AllowNegativePrice bool
	// ReportLimit is the row count for the top-dishes, top-users and
	// recent-messages reports.
	ReportLimit int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	limit, err := strconv.Atoi(getEnv("REPORT_LIMIT", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "menu"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("BOT_TOKEN", ""),
		},
		Menu: MenuConfig{
			AdminChatIDs:       ParseAdminChatIDs(os.Getenv("ADMIN_CHAT_ID")),
			AllowNegativePrice: boolEnv("ALLOW_NEGATIVE_PRICE"),
			ReportLimit:        limit,
		},
	}, nil
}

// ParseAdminChatIDs splits a space-delimited list of chat IDs into a set.
// Tokens that are not integers are skipped.
func ParseAdminChatIDs(s string) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, tok := range strings.Fields(s) {
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}
