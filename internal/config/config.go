package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Telegram
	BotToken      string
	AdminChatID   int64 // private admin review group
	ChannelID     int64 // public broadcast channel
	AdminIDs      []int64
	BotHandle     string // e.g. "@dbumarketersbot", shown in channel posts
	ChannelHandle string // e.g. "@dbumarketers", shown in "post is live" notices

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis (flow draft sessions)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DraftTTL      time.Duration

	// Liveness endpoint
	LivenessPort string

	// Policy
	MaxPostsPerDay     int
	MaxFeedbackPerDay  int
	UniversityIDPrefix string

	// Flood limiting (per-user token bucket at the update loop)
	FloodBucketSize int
	FloodRefillRate int // tokens per second
}

// Load configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.BotToken, err = getRequiredEnv("BOT_TOKEN")
	if err != nil {
		return nil, err
	}
	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "unimarket")

	cfg.AdminChatID, err = strconv.ParseInt(getEnv("ADMIN_GROUP_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_GROUP_ID: %w", err)
	}
	cfg.ChannelID, err = strconv.ParseInt(getEnv("CHANNEL_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CHANNEL_ID: %w", err)
	}

	// Comma-separated operator allow-list
	for _, part := range strings.Split(getEnv("ADMIN_IDS", ""), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, parseErr := strconv.ParseInt(part, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, parseErr)
		}
		cfg.AdminIDs = append(cfg.AdminIDs, id)
	}

	cfg.BotHandle = getEnv("BOT_HANDLE", "@dbumarketersbot")
	cfg.ChannelHandle = getEnv("CHANNEL_HANDLE", "@dbumarketers")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	draftTTLSeconds, err := strconv.ParseInt(getEnv("DRAFT_TTL_SECONDS", "3600"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DRAFT_TTL_SECONDS: %w", err)
	}
	cfg.DraftTTL = time.Duration(draftTTLSeconds) * time.Second

	cfg.LivenessPort = getEnv("PORT", "8080")

	cfg.MaxPostsPerDay, err = strconv.Atoi(getEnv("MAX_POSTS_PER_DAY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_POSTS_PER_DAY: %w", err)
	}
	cfg.MaxFeedbackPerDay, err = strconv.Atoi(getEnv("MAX_FEEDBACK_PER_DAY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FEEDBACK_PER_DAY: %w", err)
	}

	cfg.UniversityIDPrefix = strings.ToUpper(getEnv("UNIVERSITY_ID_PREFIX", "DBU"))
	if len(cfg.UniversityIDPrefix) != 3 {
		return nil, fmt.Errorf("UNIVERSITY_ID_PREFIX must be exactly 3 letters, got %q", cfg.UniversityIDPrefix)
	}

	cfg.FloodBucketSize, err = strconv.Atoi(getEnv("FLOOD_BUCKET_SIZE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLOOD_BUCKET_SIZE: %w", err)
	}
	cfg.FloodRefillRate, err = strconv.Atoi(getEnv("FLOOD_REFILL_RATE", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid FLOOD_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

// IsAdmin reports whether the given Telegram user id is in the operator
// allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
