package model

import "fmt"

// Priority is the urgency of a task. Higher rank sorts first.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority in ascending rank.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}

// ParsePriority accepts the stored value of a priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: critical > high > normal > low. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return string(p)
	}
}

// PriorityRankSQL is an ORDER BY expression giving the same ranks as Rank.
const PriorityRankSQL = "CASE priority WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 WHEN 'low' THEN 1 ELSE 0 END"
