package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/AbsonDev/estoque-max/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// makeRecords spreads n consumption events of the given quantity over the
// days leading up to testNow, one per day, oldest first.
func makeRecords(n, quantity int) []model.ConsumptionRecord {
	records := make([]model.ConsumptionRecord, 0, n)
	for i := 0; i < n; i++ {
		ts := testNow.AddDate(0, 0, -(n - i))
		records = append(records, model.ConsumptionRecord{
			StockItemID: "item-1",
			Quantity:    quantity,
			ConsumedAt:  ts,
		})
	}
	return records
}

func TestForecast_InsufficientData(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	fc := engine.Forecast(makeRecords(4, 1), testNow)

	if fc.Confidence != model.ConfidenceInsufficientData {
		t.Errorf("expected insufficient_data, got %s", fc.Confidence)
	}
	if len(fc.Daily) != 0 {
		t.Errorf("expected empty forecast, got %d values", len(fc.Daily))
	}
	if fc.SampleSize != 4 {
		t.Errorf("expected sample size 4, got %d", fc.SampleSize)
	}
}

func TestForecast_MeanOnlyBelowModelMinimum(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	fc := engine.Forecast(makeRecords(7, 2), testNow)

	if fc.Confidence != model.ConfidenceLow {
		t.Errorf("expected low confidence, got %s", fc.Confidence)
	}
	if len(fc.Daily) != 0 {
		t.Errorf("expected no model forecast below 10 records, got %d values", len(fc.Daily))
	}
	// 7 events of 2 units on 7 distinct days.
	if fc.MeanDaily != 2 {
		t.Errorf("expected mean daily 2, got %f", fc.MeanDaily)
	}
}

func TestForecast_MeanDailyUsesDistinctDays(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Two events on each of three days: total 6 units over 3 days.
	records := []model.ConsumptionRecord{}
	for day := 1; day <= 3; day++ {
		for _, hour := range []int{9, 18} {
			records = append(records, model.ConsumptionRecord{
				Quantity:   1,
				ConsumedAt: time.Date(2025, 6, 10+day, hour, 0, 0, 0, time.UTC),
			})
		}
	}

	fc := engine.Forecast(records, testNow)
	if fc.MeanDaily != 2 {
		t.Errorf("expected mean daily 2 (6 units over 3 days), got %f", fc.MeanDaily)
	}
}

func TestForecast_ModelPath(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	fc := engine.Forecast(makeRecords(12, 1), testNow)

	if fc.Confidence != model.ConfidenceLow {
		t.Errorf("expected low confidence for 12 records, got %s", fc.Confidence)
	}
	if len(fc.Daily) != 7 {
		t.Fatalf("expected a 7-day forecast, got %d values", len(fc.Daily))
	}
	for i, v := range fc.Daily {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("day %d: forecast value %f is not a non-negative finite number", i+1, v)
		}
	}
	// A flat one-unit-per-day history must forecast about one unit per day.
	for i, v := range fc.Daily {
		if math.Abs(v-1) > 0.01 {
			t.Errorf("day %d: expected ~1.0 for a constant series, got %f", i+1, v)
		}
	}
	if len(fc.Lower) != 7 || len(fc.Upper) != 7 {
		t.Errorf("expected confidence bounds over the full horizon")
	}
}

func TestForecast_ConfidenceTiers(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		records int
		want    model.Confidence
	}{
		{4, model.ConfidenceInsufficientData},
		{5, model.ConfidenceLow},
		{19, model.ConfidenceLow},
		{20, model.ConfidenceMedium},
		{49, model.ConfidenceMedium},
		{50, model.ConfidenceHigh},
	}

	for _, tt := range tests {
		fc := engine.Forecast(makeRecords(tt.records, 1), testNow)
		if fc.Confidence != tt.want {
			t.Errorf("%d records: expected %s, got %s", tt.records, tt.want, fc.Confidence)
		}
	}
}

func TestForecast_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	records := makeRecords(25, 3)

	first := engine.Forecast(records, testNow)
	second := engine.Forecast(records, testNow)

	if len(first.Daily) != len(second.Daily) {
		t.Fatalf("forecast lengths differ: %d vs %d", len(first.Daily), len(second.Daily))
	}
	for i := range first.Daily {
		if first.Daily[i] != second.Daily[i] {
			t.Errorf("day %d differs between runs: %f vs %f", i+1, first.Daily[i], second.Daily[i])
		}
	}
}

func TestForecast_OldRecordsOutsideWindowIgnored(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Ten records well past the six-month history window.
	records := make([]model.ConsumptionRecord, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, model.ConsumptionRecord{
			Quantity:   1,
			ConsumedAt: testNow.AddDate(-1, 0, i),
		})
	}

	fc := engine.Forecast(records, testNow)
	if fc.Confidence != model.ConfidenceInsufficientData {
		t.Errorf("expected insufficient_data when all records are stale, got %s", fc.Confidence)
	}
	if fc.SampleSize != 0 {
		t.Errorf("expected sample size 0, got %d", fc.SampleSize)
	}
}

func TestForecast_ZeroVarianceSeriesDoesNotDegenerate(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	fc := engine.Forecast(makeRecords(30, 5), testNow)

	if len(fc.Daily) != 7 {
		t.Fatalf("expected forecast despite zero variance, got %d values", len(fc.Daily))
	}
	for i := range fc.Daily {
		if fc.Upper[i] < fc.Daily[i] || fc.Lower[i] > fc.Daily[i] {
			t.Errorf("day %d: bounds [%f, %f] do not bracket %f",
				i+1, fc.Lower[i], fc.Upper[i], fc.Daily[i])
		}
	}
}
