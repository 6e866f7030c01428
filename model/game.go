package model

import (
	"encoding/json"
	"time"
)

type Game struct {
	ID              string          `json:"id" gorm:"primaryKey;type:text;not null"`
	Slug            string          `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Title           string          `json:"title" gorm:"not null;size:255"`
	Description     string          `json:"description" gorm:"type:text"`
	Source          string          `json:"source" gorm:"size:255"`
	Category        string          `json:"category" gorm:"not null;index;size:100"`
	Images          json.RawMessage `json:"images" gorm:"type:jsonb;default:'[]'"`
	Cartridge       string          `json:"cartridge" gorm:"size:512"`
	ContractAddress string          `json:"contract_address" gorm:"size:64"`
	OpenseaURL      string          `json:"opensea_url" gorm:"size:512"`
	StoragePath     string          `json:"storage_path" gorm:"size:512"`
	Plays           int64           `json:"plays" gorm:"default:0;not null"`
	AverageRating   float64         `json:"average_rating" gorm:"default:0;not null"`
	TotalRatings    int             `json:"total_ratings" gorm:"default:0;not null"`
	IsActive        bool            `json:"is_active" gorm:"default:true;not null;index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null"`
}

func (g *Game) ImageURLs() []string {
	var urls []string
	if len(g.Images) == 0 {
		return urls
	}
	_ = json.Unmarshal(g.Images, &urls)
	return urls
}
