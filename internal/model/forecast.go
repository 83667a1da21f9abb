package model

import "time"

// Confidence classifies how much a forecast can be trusted, driven by
// sample size and whether the model fit succeeded.
type Confidence string

const (
	ConfidenceInsufficientData Confidence = "insufficient_data"
	ConfidenceLow              Confidence = "low"
	ConfidenceMedium           Confidence = "medium"
	ConfidenceHigh             Confidence = "high"
)

// DaysIndeterminate is the days-remaining sentinel for "no usable data".
// Callers must render it as "not enough history yet", never as a number.
const DaysIndeterminate = -1

// Forecast is the ephemeral result of one forecasting run for one item.
// It is recomputed on demand or on schedule and superseded by the next run.
type Forecast struct {
	Daily       []float64  `json:"daily"` // predicted consumption, next 7 days
	Lower       []float64  `json:"lower"`
	Upper       []float64  `json:"upper"`
	Confidence  Confidence `json:"confidence"`
	SampleSize  int        `json:"sample_size"`
	MeanDaily   float64    `json:"mean_daily"` // trailing 30-day mean daily consumption
	GeneratedAt time.Time  `json:"generated_at"`
}
