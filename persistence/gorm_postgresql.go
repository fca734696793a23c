// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormRoomSnapshot{},
		&models.GormGameRecord{},
		&models.GormRoomStats{},
	)
}

// SaveRoomState 保存房间状态快照
func (p *GormPostgreSQL) SaveRoomState(roomCode string, state game.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	var snapshot models.GormRoomSnapshot
	result := p.db.Where("room_code = ?", roomCode).First(&snapshot)

	if result.Error == gorm.ErrRecordNotFound {
		snapshot = models.GormRoomSnapshot{
			RoomCode: roomCode,
			Mode:     string(state.Mode),
			Phase:    string(state.Phase),
			State:    data,
		}
		return p.db.Create(&snapshot).Error
	} else if result.Error != nil {
		return result.Error
	}

	snapshot.Mode = string(state.Mode)
	snapshot.Phase = string(state.Phase)
	snapshot.State = data
	snapshot.UpdatedAt = time.Now()
	return p.db.Save(&snapshot).Error
}

// LoadRoomState 加载房间状态快照
func (p *GormPostgreSQL) LoadRoomState(roomCode string) (game.GameState, bool, error) {
	var snapshot models.GormRoomSnapshot
	if err := p.db.Where("room_code = ?", roomCode).First(&snapshot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return game.GameState{}, false, nil
		}
		return game.GameState{}, false, err
	}

	var state game.GameState
	if err := json.Unmarshal(snapshot.State, &state); err != nil {
		return game.GameState{}, false, err
	}
	return state, true, nil
}

// DeleteRoomState 删除房间状态快照
func (p *GormPostgreSQL) DeleteRoomState(roomCode string) error {
	return p.db.Unscoped().
		Where("room_code = ?", roomCode).
		Delete(&models.GormRoomSnapshot{}).Error
}

// SaveGameRecord writes the archived result and bumps the per-room counters
// in one transaction.
func (p *GormPostgreSQL) SaveGameRecord(record models.GameRecord) error {
	teams, err := json.Marshal(record.Teams)
	if err != nil {
		return err
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		row := models.GormGameRecord{
			RoomCode:  record.RoomCode,
			Mode:      string(record.Mode),
			Rounds:    record.Rounds,
			CluesUsed: record.CluesUsed,
			Teams:     teams,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var stats models.GormRoomStats
		result := tx.Where("room_code = ?", record.RoomCode).First(&stats)
		if result.Error == gorm.ErrRecordNotFound {
			stats = models.GormRoomStats{RoomCode: record.RoomCode}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		} else if result.Error != nil {
			return result.Error
		}

		return tx.Model(&stats).Updates(map[string]interface{}{
			"games_played": gorm.Expr("games_played + 1"),
			"rounds_total": gorm.Expr("rounds_total + ?", record.Rounds),
		}).Error
	})
}

// ListGameRecords 查询游戏记录
func (p *GormPostgreSQL) ListGameRecords(roomCode string, limit int) ([]models.GameRecord, error) {
	var rows []models.GormGameRecord
	query := p.db.Order("created_at desc")
	if roomCode != "" {
		query = query.Where("room_code = ?", roomCode)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		record := models.GameRecord{
			RoomCode:   row.RoomCode,
			Mode:       game.Mode(row.Mode),
			Rounds:     row.Rounds,
			CluesUsed:  row.CluesUsed,
			FinishedAt: row.CreatedAt,
		}
		if err := json.Unmarshal(row.Teams, &record.Teams); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
