// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
)

// PostgreSQL is the raw database/sql implementation of Database. Same
// behavior as the GORM one; kept for deployments that want plain SQL.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS room_snapshots (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) UNIQUE NOT NULL,
            mode VARCHAR(16) NOT NULL,
            phase VARCHAR(16) NOT NULL,
            state JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) NOT NULL,
            mode VARCHAR(16) NOT NULL,
            rounds INT NOT NULL DEFAULT 0,
            clues_used INT NOT NULL DEFAULT 0,
            teams JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS room_stats (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(16) UNIQUE NOT NULL,
            games_played INT NOT NULL DEFAULT 0,
            rounds_total INT NOT NULL DEFAULT 0
        )
    `)
	return err
}

// SaveRoomState 保存房间状态快照
func (p *PostgreSQL) SaveRoomState(roomCode string, state game.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO room_snapshots (room_code, mode, phase, state, updated_at)
        VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
        ON CONFLICT (room_code)
        DO UPDATE SET mode = $2, phase = $3, state = $4, updated_at = CURRENT_TIMESTAMP
    `, roomCode, string(state.Mode), string(state.Phase), data)
	return err
}

// LoadRoomState 加载房间状态快照
func (p *PostgreSQL) LoadRoomState(roomCode string) (game.GameState, bool, error) {
	var data []byte
	err := p.db.QueryRow(
		`SELECT state FROM room_snapshots WHERE room_code = $1`, roomCode,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return game.GameState{}, false, nil
	}
	if err != nil {
		return game.GameState{}, false, err
	}

	var state game.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return game.GameState{}, false, err
	}
	return state, true, nil
}

// DeleteRoomState 删除房间状态快照
func (p *PostgreSQL) DeleteRoomState(roomCode string) error {
	_, err := p.db.Exec(`DELETE FROM room_snapshots WHERE room_code = $1`, roomCode)
	return err
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(record models.GameRecord) error {
	teams, err := json.Marshal(record.Teams)
	if err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO game_records (room_code, mode, rounds, clues_used, teams)
        VALUES ($1, $2, $3, $4, $5)
    `, record.RoomCode, string(record.Mode), record.Rounds, record.CluesUsed, teams)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO room_stats (room_code, games_played, rounds_total)
        VALUES ($1, 1, $2)
        ON CONFLICT (room_code)
        DO UPDATE SET games_played = room_stats.games_played + 1,
                      rounds_total = room_stats.rounds_total + $2
    `, record.RoomCode, record.Rounds)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListGameRecords 查询游戏记录
func (p *PostgreSQL) ListGameRecords(roomCode string, limit int) ([]models.GameRecord, error) {
	query := `SELECT room_code, mode, rounds, clues_used, teams, created_at FROM game_records`
	args := []interface{}{}
	if roomCode != "" {
		query += ` WHERE room_code = $1`
		args = append(args, roomCode)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var mode string
		var teams []byte
		if err := rows.Scan(&record.RoomCode, &mode, &record.Rounds, &record.CluesUsed, &teams, &record.FinishedAt); err != nil {
			return nil, err
		}
		record.Mode = game.Mode(mode)
		if err := json.Unmarshal(teams, &record.Teams); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
