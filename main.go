package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/issac-D/uni-market-bot/internal/bot"
	"github.com/issac-D/uni-market-bot/internal/cache"
	"github.com/issac-D/uni-market-bot/internal/config"
	"github.com/issac-D/uni-market-bot/internal/db"
	"github.com/issac-D/uni-market-bot/internal/flow"
	"github.com/issac-D/uni-market-bot/internal/keepalive"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(indexCtx, mongoDb); err != nil {
		log.Printf("WARNING: failed to ensure indexes: %v", err)
	}
	cancelIndex()

	// Initialize Cache (Redis) for flow drafts
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize Telegram client
	client, err := telegram.NewAPIClient(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// Initialize Services
	userService := services.NewUserService(mongoDb)
	postService := services.NewPostService(mongoDb)
	feedbackService := services.NewFeedbackService(mongoDb)
	interactionService := services.NewInteractionService(mongoDb)
	moderationService := services.NewModerationService(postService, userService, client, cfg)

	// Conversation flows over a Redis-backed draft store
	sessions := flow.NewRedisSessionStore(redisClient, cfg.DraftTTL)
	flows := flow.NewManager(sessions,
		flow.NewRegistrationFlow(userService, cfg.UniversityIDPrefix),
		flow.NewSellFlow(userService, postService, moderationService, cfg.MaxPostsPerDay),
		flow.NewLostFlow(postService, moderationService, cfg.MaxPostsPerDay),
		flow.NewFoundFlow(userService, postService, moderationService, cfg.UniversityIDPrefix, cfg.MaxPostsPerDay),
		flow.NewFeedbackFlow(feedbackService, client, cfg.AdminChatID, cfg.MaxFeedbackPerDay),
	)

	b := bot.New(client, cfg, userService, postService, interactionService, moderationService, flows)
	liveness := keepalive.New(cfg.LivenessPort)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		liveness.Run(ctx)
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down gracefully...", sig)

	cancel()
	wg.Wait()

	log.Println("Bot gracefully stopped")
}
