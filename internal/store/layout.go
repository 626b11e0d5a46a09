package store

import "fmt"

// PanelPosition 网格中面板的位置与尺寸（网格单位）
type PanelPosition struct {
	PanelID string `json:"panelId" yaml:"-"`
	X       int    `json:"x" yaml:"x"`
	Y       int    `json:"y" yaml:"y"`
	W       int    `json:"w" yaml:"w"`
	H       int    `json:"h" yaml:"h"`
}

// ListPanelPositions 已保存的面板位置
func (s *Store) ListPanelPositions() (map[string]PanelPosition, error) {
	rows, err := s.db.Query(`SELECT panel_id, x, y, w, h FROM layout_panels`)
	if err != nil {
		return nil, fmt.Errorf("query layout panels failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]PanelPosition)
	for rows.Next() {
		var p PanelPosition
		if err := rows.Scan(&p.PanelID, &p.X, &p.Y, &p.W, &p.H); err != nil {
			return nil, fmt.Errorf("scan layout panel failed: %w", err)
		}
		out[p.PanelID] = p
	}
	return out, rows.Err()
}

// SavePanelPositions 在一个事务内覆盖保存面板位置
func (s *Store) SavePanelPositions(panels []PanelPosition) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO layout_panels (panel_id, x, y, w, h) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(panel_id) DO UPDATE SET
			x = excluded.x, y = excluded.y, w = excluded.w, h = excluded.h,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare layout upsert failed: %w", err)
	}
	defer stmt.Close()

	for _, p := range panels {
		if _, err := stmt.Exec(p.PanelID, p.X, p.Y, p.W, p.H); err != nil {
			return fmt.Errorf("save layout panel %s failed: %w", p.PanelID, err)
		}
	}
	return tx.Commit()
}

// ClearPanelPositions 清除已保存布局，恢复默认
func (s *Store) ClearPanelPositions() error {
	_, err := s.db.Exec(`DELETE FROM layout_panels`)
	return err
}
