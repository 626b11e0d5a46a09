package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// 加载状态
const (
	LoadStatusLoading = "loading"
	LoadStatusSuccess = "success"
	LoadStatusFailed  = "failed"
)

// LoadLog 一次数据集加载记录
type LoadLog struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	TotalRows    int        `json:"totalRows"`
	SkippedRows  int        `json:"skippedRows"`
	Bytes        int        `json:"bytes"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateLoadLog 创建加载日志，返回记录 id
func (s *Store) CreateLoadLog(source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO load_logs (id, source, status, started_at)
		VALUES (?, ?, ?, ?)
	`, id, source, LoadStatusLoading, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create load log: %w", err)
	}
	return id, nil
}

// CompleteLoadLog 加载成功
func (s *Store) CompleteLoadLog(id string, totalRows, skippedRows, bytes int) error {
	return s.finishLoadLog(id, LoadStatusSuccess, totalRows, skippedRows, bytes, "")
}

// FailLoadLog 加载失败
func (s *Store) FailLoadLog(id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.finishLoadLog(id, LoadStatusFailed, 0, 0, 0, msg)
}

func (s *Store) finishLoadLog(id, status string, totalRows, skippedRows, bytes int, errorMessage string) error {
	res, err := s.db.Exec(`
		UPDATE load_logs SET
			status = ?,
			total_rows = ?,
			skipped_rows = ?,
			bytes = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, status, totalRows, skippedRows, bytes, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update load log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("load log not found: %s", id)
	}
	return nil
}

// LatestLoadLog 最近一次加载记录；没有记录时返回 nil
func (s *Store) LatestLoadLog() (*LoadLog, error) {
	logs, err := s.ListLoadLogs(1)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

// ListLoadLogs 按开始时间倒序列出加载记录
func (s *Store) ListLoadLogs(limit int) ([]LoadLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, source, status, total_rows, skipped_rows, bytes, error_message, started_at, completed_at
		FROM load_logs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query load logs failed: %w", err)
	}
	defer rows.Close()

	var out []LoadLog
	for rows.Next() {
		var it LoadLog
		var completed sql.NullTime
		if err := rows.Scan(&it.ID, &it.Source, &it.Status, &it.TotalRows, &it.SkippedRows, &it.Bytes,
			&it.ErrorMessage, &it.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan load log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load logs failed: %w", err)
	}
	return out, nil
}
