package model

import "time"

type Comment struct {
	ID            string    `json:"id" gorm:"primaryKey;type:text;not null"`
	GameID        string    `json:"game_id" gorm:"not null;index;size:64"`
	WalletAddress string    `json:"wallet_address" gorm:"not null;index;size:64"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	IsEdited      bool      `json:"is_edited" gorm:"default:false;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null"`

	Game *Game `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
