package forecast

import (
	"testing"

	"github.com/AbsonDev/estoque-max/internal/model"
)

func TestDaysRemaining_ZeroQuantity(t *testing.T) {
	fc := model.Forecast{Daily: []float64{1, 1, 1}, MeanDaily: 1}

	if days := DaysRemaining(0, fc); days != 0 {
		t.Errorf("expected 0 days for empty stock, got %d", days)
	}
	if days := DaysRemaining(-2, fc); days != 0 {
		t.Errorf("expected 0 days for negative stock, got %d", days)
	}
}

func TestDaysRemaining_SimulationWithinHorizon(t *testing.T) {
	fc := model.Forecast{Daily: []float64{2, 2, 2, 2, 2, 2, 2}}

	if days := DaysRemaining(5, fc); days != 3 {
		t.Errorf("expected depletion on day 3, got %d", days)
	}
	if days := DaysRemaining(2, fc); days != 1 {
		t.Errorf("expected depletion on day 1, got %d", days)
	}
}

func TestDaysRemaining_ZeroDayDoesNotTerminate(t *testing.T) {
	// A zero-consumption day inside the horizon just passes; the count
	// keeps going until the stock actually runs out.
	fc := model.Forecast{Daily: []float64{3, 0, 0, 3, 0, 0, 3}}

	if days := DaysRemaining(5, fc); days != 4 {
		t.Errorf("expected depletion on day 4, got %d", days)
	}
}

func TestDaysRemaining_ExtrapolatesPastHorizon(t *testing.T) {
	fc := model.Forecast{Daily: []float64{1, 1, 1, 1, 1, 1, 1}}

	// 10 units: 7 consumed over the horizon, 3 remain, positive mean is 1,
	// so 7 + ceil(3/1).
	if days := DaysRemaining(10, fc); days != 10 {
		t.Errorf("expected 10 days, got %d", days)
	}
}

func TestDaysRemaining_ExtrapolationUsesPositiveMean(t *testing.T) {
	fc := model.Forecast{Daily: []float64{2, 0, 0, 0, 0, 0, 0}}

	// 8 units: 2 consumed over the horizon, 6 remain. Positive mean is 2,
	// so 7 + ceil(6/2).
	if days := DaysRemaining(8, fc); days != 10 {
		t.Errorf("expected 10 days, got %d", days)
	}
}

func TestDaysRemaining_MeanFallback(t *testing.T) {
	fc := model.Forecast{MeanDaily: 1.5}

	// ceil(4 / 1.5) = 3
	if days := DaysRemaining(4, fc); days != 3 {
		t.Errorf("expected 3 days from the mean fallback, got %d", days)
	}
}

func TestDaysRemaining_Indeterminate(t *testing.T) {
	fc := model.Forecast{}

	if days := DaysRemaining(4, fc); days != model.DaysIndeterminate {
		t.Errorf("expected indeterminate, got %d", days)
	}

	// An all-zero forecast with no mean is just as indeterminate.
	fc = model.Forecast{Daily: []float64{0, 0, 0, 0, 0, 0, 0}}
	if days := DaysRemaining(4, fc); days != model.DaysIndeterminate {
		t.Errorf("expected indeterminate for an all-zero forecast, got %d", days)
	}
}
