package model

import "time"

// RatingSession identifies an anonymous browser session so a visitor can
// rate a game once without holding a wallet session.
type RatingSession struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	GameID    string    `json:"game_id" gorm:"not null;uniqueIndex:idx_game_session;size:64"`
	SessionID string    `json:"session_id" gorm:"not null;uniqueIndex:idx_game_session;size:64"`
	Rating    int       `json:"rating" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`

	Game *Game `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
