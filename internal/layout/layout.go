// Package layout 页面布局：标题、面板、控件与网格位置。
// 默认布局来自内嵌的 layout.yaml，用户拖拽后的位置保存在 SQLite 中并覆盖默认值。
package layout

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"countrydash/internal/store"
)

//go:embed layout.yaml
var defaultLayoutYAML []byte

// ErrUnknownPanel 面板 id 不存在
var ErrUnknownPanel = errors.New("unknown panel")

// ErrInvalidPosition 面板位置超出网格
var ErrInvalidPosition = errors.New("invalid panel position")

// Layout 页面布局
type Layout struct {
	Title     string  `yaml:"title" json:"title"`
	YearLabel string  `yaml:"yearLabel" json:"yearLabel"`
	Columns   int     `yaml:"columns" json:"columns"`
	RowHeight int     `yaml:"rowHeight" json:"rowHeight"`
	Panels    []Panel `yaml:"panels" json:"panels"`
}

// Panel 网格中的一个面板
type Panel struct {
	ID       string              `yaml:"id" json:"id"`
	Title    string              `yaml:"title" json:"title"`
	Output   string              `yaml:"output" json:"output"`
	Controls []Control           `yaml:"controls" json:"controls"`
	Position store.PanelPosition `yaml:"position" json:"position"`
}

// Control 面板内的下拉控件
type Control struct {
	ID      string `yaml:"id" json:"id"`
	Kind    string `yaml:"kind" json:"kind"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Options string `yaml:"options" json:"options"`
}

// Default 解析内嵌的默认布局
func Default() (*Layout, error) {
	return Parse(defaultLayoutYAML)
}

// Parse 解析布局 YAML
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if l.Columns <= 0 {
		l.Columns = 12
	}
	seen := make(map[string]bool, len(l.Panels))
	for i := range l.Panels {
		p := &l.Panels[i]
		if p.ID == "" {
			return nil, fmt.Errorf("parse layout: panel %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("parse layout: duplicate panel %s", p.ID)
		}
		seen[p.ID] = true
		p.Position.PanelID = p.ID
	}
	return &l, nil
}

// Panel 按 id 查找面板
func (l *Layout) Panel(id string) (*Panel, bool) {
	for i := range l.Panels {
		if l.Panels[i].ID == id {
			return &l.Panels[i], true
		}
	}
	return nil, false
}

// PanelByOutput 按输出元素 id 查找面板
func (l *Layout) PanelByOutput(output string) (*Panel, bool) {
	for i := range l.Panels {
		if l.Panels[i].Output == output {
			return &l.Panels[i], true
		}
	}
	return nil, false
}

// Merge 用已保存的位置覆盖默认位置，未知面板忽略
func (l *Layout) Merge(saved map[string]store.PanelPosition) {
	for i := range l.Panels {
		if pos, ok := saved[l.Panels[i].ID]; ok {
			pos.PanelID = l.Panels[i].ID
			l.Panels[i].Position = pos
		}
	}
}

// Validate 校验待保存的位置：面板必须存在，尺寸为正且不超出列数
func (l *Layout) Validate(positions []store.PanelPosition) error {
	for _, p := range positions {
		if _, ok := l.Panel(p.PanelID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPanel, p.PanelID)
		}
		if p.X < 0 || p.Y < 0 || p.W <= 0 || p.H <= 0 || p.X+p.W > l.Columns {
			return fmt.Errorf("%w: %s", ErrInvalidPosition, p.PanelID)
		}
	}
	return nil
}
