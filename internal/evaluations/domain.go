package evaluations

import "time"

// KPI is one evaluation criterion with a relative weight.
type KPI struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Weight      float64   `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	UpdatedBy   *string   `json:"updated_by,omitempty"`
}

// Score is one KPI measurement for a user in a period. Period uses the
// YYYY-MM form.
type Score struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	KPIID     string    `json:"kpi_id"`
	Period    string    `json:"period"`
	Value     float64   `json:"value"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *string   `json:"created_by,omitempty"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
}

// ScoredKPI pairs a KPI with the value recorded for it.
type ScoredKPI struct {
	KPIID  string  `json:"kpi_id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// Summary is the weighted evaluation result for one user and period.
type Summary struct {
	UserID       string      `json:"user_id"`
	Period       string      `json:"period"`
	Overall      float64     `json:"overall"`
	Scores       []ScoredKPI `json:"scores"`
	CalculatedAt time.Time   `json:"calculated_at"`
}
