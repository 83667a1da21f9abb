package forecast

import (
	"math"

	"github.com/AbsonDev/estoque-max/internal/model"
)

// DaysRemaining estimates whole days until the item hits zero.
//
// With a usable forecast it simulates day-by-day subtraction over the horizon
// and extrapolates the remainder with the mean of the positive forecast
// values. Without one it falls back to the trailing mean. Returns
// model.DaysIndeterminate when neither path has data.
func DaysRemaining(quantity int, fc model.Forecast) int {
	if quantity <= 0 {
		return 0
	}

	if positive := hasPositive(fc.Daily); positive {
		remaining := float64(quantity)
		days := 0

		for _, consumed := range fc.Daily {
			remaining -= math.Max(0, consumed)
			days++
			if remaining <= 0 {
				return days
			}
		}

		// Stock survives the horizon; extrapolate with the mean of the
		// positive forecast values.
		mean := positiveMean(fc.Daily)
		if mean > 0 {
			return days + int(math.Ceil(remaining/mean))
		}
		return days
	}

	if fc.MeanDaily > 0 {
		return int(math.Ceil(float64(quantity) / fc.MeanDaily))
	}

	return model.DaysIndeterminate
}

func hasPositive(daily []float64) bool {
	for _, v := range daily {
		if v > 0 {
			return true
		}
	}
	return false
}

func positiveMean(daily []float64) float64 {
	sum, count := 0.0, 0
	for _, v := range daily {
		if v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
