package seeders

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baesapp/arcade_api/model"
)

// GameSeeder loads the starter catalog. Existing slugs are skipped so
// the seeder is safe to rerun.
type GameSeeder struct {
	db *gorm.DB
}

func NewGameSeeder(db *gorm.DB) *GameSeeder {
	return &GameSeeder{db: db}
}

func (s *GameSeeder) Seed() error {
	if err := s.db.AutoMigrate(&model.Game{}, &model.Comment{}, &model.RatingSession{}, &model.Rating{}); err != nil {
		return err
	}

	for _, game := range starterGames() {
		var existing model.Game
		if err := s.db.Where("slug = ?", game.Slug).First(&existing).Error; err == nil {
			log.Printf("Game %q already exists, skipping", game.Slug)
			continue
		}

		id, _ := uuid.NewV7()
		game.ID = id.String()
		if err := s.db.Create(&game).Error; err != nil {
			return err
		}
		log.Printf("Seeded game %q", game.Slug)
	}

	return nil
}

func starterGames() []model.Game {
	return []model.Game{
		{
			Slug:        "pixel-racer",
			Title:       "Pixel Racer",
			Description: "Top-down arcade racing with drift physics.",
			Category:    "racing",
			Images:      json.RawMessage(`[]`),
			IsActive:    true,
		},
		{
			Slug:        "block-breaker",
			Title:       "Block Breaker",
			Description: "Classic brick breaking with power-ups.",
			Category:    "arcade",
			Images:      json.RawMessage(`[]`),
			IsActive:    true,
		},
		{
			Slug:        "star-miner",
			Title:       "Star Miner",
			Description: "Dig deep, upgrade your rig, reach the core.",
			Category:    "adventure",
			Images:      json.RawMessage(`[]`),
			IsActive:    true,
		},
	}
}
