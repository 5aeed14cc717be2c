package models

import "time"

// BoxState is the fill level of a single progress bar cell
type BoxState int

const (
	BoxEmpty BoxState = iota
	BoxHalf
	BoxFull
)

// ProgressFill is the discretized quota bar
type ProgressFill struct {
	FullBoxes  int  `json:"full_boxes"`
	HalfFilled bool `json:"half_filled"`
}

// Cells expands the fill into boxCount cell states
func (p ProgressFill) Cells(boxCount int) []BoxState {
	if boxCount <= 0 {
		return nil
	}
	cells := make([]BoxState, boxCount)
	for i := range cells {
		switch {
		case i < p.FullBoxes:
			cells[i] = BoxFull
		case i == p.FullBoxes && p.HalfFilled:
			cells[i] = BoxHalf
		default:
			cells[i] = BoxEmpty
		}
	}
	return cells
}

// WidgetView is everything a renderer needs to draw one refresh
type WidgetView struct {
	Title        string          `json:"title"`
	Interface    string          `json:"interface"`
	FetchedAt    time.Time       `json:"fetched_at"`
	NextRefresh  time.Time       `json:"next_refresh"`
	Snapshot     TrafficSnapshot `json:"snapshot"`
	TodayText    string          `json:"today_text"`
	MonthText    string          `json:"month_text"`
	TotalText    string          `json:"total_text"`
	UsagePercent float64         `json:"usage_percent"`
	UsageText    string          `json:"usage_text"`
	QuotaText    string          `json:"quota_text"`
	Progress     ProgressFill    `json:"progress"`
	BoxCount     int             `json:"box_count"`
	Square       bool            `json:"square"`
}
