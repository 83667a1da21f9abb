package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/AbsonDev/estoque-max/internal/model"
)

// Config holds the policy constants of the engine. The sample-size tiers and
// window sizes come from observed product behavior; keep them configurable
// instead of burying literals in the code.
type Config struct {
	MinRecords      int // below this no forecast at all
	MinModelRecords int // below this only the trailing mean is computed
	MediumRecords   int // sample size for medium confidence
	HighRecords     int // sample size for high confidence

	Horizon         int           // forecast steps
	MaxSeriesLength int           // cap on the fitted series length
	MaxWindow       int           // cap on the smoothing window
	MeanWindow      time.Duration // trailing window for mean daily consumption
	HistoryWindow   time.Duration // records older than this are ignored

	TrendSmoothing  float64 // beta of the Holt recursion
	ConfidenceZ     float64 // z-score for the prediction bounds
}

func DefaultConfig() Config {
	return Config{
		MinRecords:      5,
		MinModelRecords: 10,
		MediumRecords:   20,
		HighRecords:     50,
		Horizon:         7,
		MaxSeriesLength: 30,
		MaxWindow:       7,
		MeanWindow:      30 * 24 * time.Hour,
		HistoryWindow:   6 * 30 * 24 * time.Hour,
		TrendSmoothing:  0.1,
		ConfidenceZ:     1.96,
	}
}

// Engine produces short-horizon consumption forecasts. It is a pure function
// of its inputs and keeps no per-item state; callers own any caching.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Forecast derives a 7-step consumption forecast from the item's ledger
// slice. Records must be ordered ascending by timestamp. The engine never
// fails hard: when the model cannot be fit, it degrades to the trailing-mean
// estimate and reports low confidence.
func (e *Engine) Forecast(records []model.ConsumptionRecord, now time.Time) model.Forecast {
	records = e.window(records, now)

	fc := model.Forecast{
		Confidence:  model.ConfidenceInsufficientData,
		SampleSize:  len(records),
		GeneratedAt: now,
	}

	if len(records) < e.cfg.MinRecords {
		return fc
	}

	fc.MeanDaily = e.meanDaily(records, now)
	fc.Confidence = model.ConfidenceLow

	if len(records) < e.cfg.MinModelRecords {
		return fc
	}

	daily, lower, upper, ok := e.fit(records)
	if !ok {
		// Model fitting failure is not surfaced; the mean-based
		// fallback carries the estimate with low confidence.
		return fc
	}

	fc.Daily = daily
	fc.Lower = lower
	fc.Upper = upper
	fc.Confidence = e.confidence(len(records))
	return fc
}

// window drops records outside the trailing history window. Input order is
// preserved, so the fitted series stays deterministic.
func (e *Engine) window(records []model.ConsumptionRecord, now time.Time) []model.ConsumptionRecord {
	cutoff := now.Add(-e.cfg.HistoryWindow)
	for i, r := range records {
		if !r.ConsumedAt.Before(cutoff) {
			return records[i:]
		}
	}
	return nil
}

// meanDaily is the trailing mean: total consumed over the mean window divided
// by the number of distinct days that saw at least one consumption event.
func (e *Engine) meanDaily(records []model.ConsumptionRecord, now time.Time) float64 {
	cutoff := now.Add(-e.cfg.MeanWindow)

	total := 0
	days := make(map[string]struct{})
	for _, r := range records {
		if r.ConsumedAt.Before(cutoff) {
			continue
		}
		total += r.Quantity
		days[r.ConsumedAt.UTC().Format("2006-01-02")] = struct{}{}
	}

	if len(days) == 0 {
		return 0
	}
	return float64(total) / float64(len(days))
}

// fit runs a Holt linear-trend exponential smoothing over the consumed
// quantity series and projects it over the horizon. Returns ok=false when the
// series degenerates (NaN/Inf), which callers treat as a fitting failure.
func (e *Engine) fit(records []model.ConsumptionRecord) (daily, lower, upper []float64, ok bool) {
	n := len(records)

	seriesLen := n
	if seriesLen > e.cfg.MaxSeriesLength {
		seriesLen = e.cfg.MaxSeriesLength
	}
	series := make([]float64, 0, seriesLen)
	for _, r := range records[n-seriesLen:] {
		series = append(series, float64(r.Quantity))
	}

	window := n / 2
	if window > e.cfg.MaxWindow {
		window = e.cfg.MaxWindow
	}
	if window < 2 {
		window = 2
	}

	// EMA-style smoothing factor derived from the window size.
	alpha := 2.0 / (float64(window) + 1.0)
	beta := e.cfg.TrendSmoothing

	level := stat.Mean(series[:window], nil)
	trend := (series[window-1] - series[0]) / float64(window)

	residuals := make([]float64, 0, len(series))
	for _, y := range series {
		fitted := level + trend
		residuals = append(residuals, y-fitted)

		prevLevel := level
		level = alpha*y + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	sd := stat.StdDev(residuals, nil)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		sd = 0
	}

	daily = make([]float64, e.cfg.Horizon)
	lower = make([]float64, e.cfg.Horizon)
	upper = make([]float64, e.cfg.Horizon)
	for h := 0; h < e.cfg.Horizon; h++ {
		point := level + float64(h+1)*trend
		if math.IsNaN(point) || math.IsInf(point, 0) {
			return nil, nil, nil, false
		}
		spread := e.cfg.ConfidenceZ * sd * math.Sqrt(float64(h+1))

		daily[h] = math.Max(0, point)
		lower[h] = math.Max(0, point-spread)
		upper[h] = math.Max(0, point+spread)
	}
	return daily, lower, upper, true
}

func (e *Engine) confidence(sampleSize int) model.Confidence {
	switch {
	case sampleSize >= e.cfg.HighRecords:
		return model.ConfidenceHigh
	case sampleSize >= e.cfg.MediumRecords:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
