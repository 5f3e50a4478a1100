// Command migrate connects to MongoDB and creates the indexes the API
// depends on. The API also runs this bootstrap at startup; the command
// exists for provisioning a database ahead of a deploy.
package main

import (
	"context"
	"time"

	"achievo/internal/config"
	"achievo/internal/database"
	"achievo/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewManager(cfg)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalw("index bootstrap failed", "error", err)
	}
	log.Infow("indexes ensured", "database", cfg.MongoDB)

	if err := db.Close(ctx); err != nil {
		log.Errorw("database disconnect failed", "error", err)
	}
}
