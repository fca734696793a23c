package models

import (
	"gorm.io/gorm"
)

// GormRoomSnapshot holds the serialized canonical state of a live room,
// rewritten after every mutation and removed on explicit closure.
type GormRoomSnapshot struct {
	gorm.Model
	RoomCode string `gorm:"uniqueIndex;not null"`
	Mode     string `gorm:"not null"`
	Phase    string `gorm:"not null"`
	State    []byte `gorm:"type:jsonb;not null"`
}

// GormGameRecord is the archived result of a finished game.
type GormGameRecord struct {
	gorm.Model
	RoomCode  string `gorm:"index;not null"`
	Mode      string `gorm:"not null"`
	Rounds    int    `gorm:"default:0"`
	CluesUsed int    `gorm:"default:0"`
	Teams     []byte `gorm:"type:jsonb;not null"`
}

// GormRoomStats accumulates per-room-code counters across games.
type GormRoomStats struct {
	gorm.Model
	RoomCode    string `gorm:"uniqueIndex;not null"`
	GamesPlayed int    `gorm:"default:0"`
	RoundsTotal int    `gorm:"default:0"`
}
