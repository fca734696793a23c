package services

import (
	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
	"github.com/openparty/charades/persistence"
)

// RecordService archives finished games and serves their history.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// RecordFinishedGame derives a record from a FINISHED state and persists it.
func (s *RecordService) RecordFinishedGame(state game.GameState) error {
	return s.db.SaveGameRecord(models.NewGameRecord(state))
}

// History returns the most recent records, optionally filtered by room code.
func (s *RecordService) History(roomCode string, limit int) ([]models.GameRecord, error) {
	return s.db.ListGameRecords(roomCode, limit)
}
