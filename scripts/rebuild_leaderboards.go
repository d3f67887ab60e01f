// Manual leaderboard rebuild.
//
// The same rebuild runs on a schedule inside the main application; this
// script exists for first deployments and after bulk imports of attempt
// data.
//
// Usage: go run scripts/rebuild_leaderboards.go

package main

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}
	if cfg.Leaderboard.TopLimit <= 0 {
		cfg.Leaderboard.TopLimit = 100
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "logs/rebuild_leaderboards.log"
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	leaderboardRepo := repository.NewLeaderboardRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	mockTestRepo := repository.NewMockTestRepository(db)

	svc := service.NewLeaderboardService(leaderboardRepo, attemptRepo, mockTestRepo, nil, nil, &cfg)

	log.Println("rebuilding all leaderboard partitions...")
	svc.RecalculateAll()
	log.Println("done")
}
