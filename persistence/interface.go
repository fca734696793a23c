// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
)

// Database 数据库接口
type Database interface {
	SaveRoomState(roomCode string, state game.GameState) error
	LoadRoomState(roomCode string) (game.GameState, bool, error)
	DeleteRoomState(roomCode string) error
	SaveGameRecord(record models.GameRecord) error
	ListGameRecords(roomCode string, limit int) ([]models.GameRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
