package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(start time.Time, values ...float64) []DataPoint {
	points := make([]DataPoint, 0, len(values))
	for i, v := range values {
		points = append(points, DataPoint{
			Date:  start.AddDate(0, 0, i),
			Value: decimal.NewFromFloat(v),
		})
	}
	return points
}

func TestForecast(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("requires at least a week of history", func(t *testing.T) {
		_, err := Forecast(series(start, 10, 11, 12), 7)

		assert.Error(t, err)
	})

	t.Run("rejects invalid horizon", func(t *testing.T) {
		points := series(start, 10, 11, 12, 13, 14, 15, 16)

		_, err := Forecast(points, 0)
		assert.Error(t, err)

		_, err = Forecast(points, 91)
		assert.Error(t, err)
	})

	t.Run("projects a rising linear series", func(t *testing.T) {
		// Perfectly linear: value = 10 + i
		points := series(start, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23)

		forecast, err := Forecast(points, 3)

		require.NoError(t, err)
		require.Len(t, forecast, 3)

		// Next day continues the line at 24. A perfectly linear series has
		// zero residuals, so every weekday offset is zero and the projection
		// never dips below the last observation.
		first := forecast[0]
		assert.Equal(t, points[len(points)-1].Date.AddDate(0, 0, 1), first.Date)
		assert.True(t, first.Value.Equal(decimal.NewFromInt(24)),
			"projection should continue the line at 24, got %s", first.Value)
		assert.True(t, first.Value.GreaterThan(points[len(points)-1].Value),
			"projection should continue the upward trend, got %s", first.Value)

		// Perfect fit keeps confidence high on day one
		assert.True(t, first.Confidence.GreaterThan(decimal.NewFromFloat(0.9)))
	})

	t.Run("confidence degrades with horizon", func(t *testing.T) {
		points := series(start, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)

		forecast, err := Forecast(points, 10)

		require.NoError(t, err)
		for i := 1; i < len(forecast); i++ {
			assert.True(t, forecast[i].Confidence.LessThanOrEqual(forecast[i-1].Confidence))
		}
	})

	t.Run("deterministic for the same input", func(t *testing.T) {
		points := series(start, 30, 28, 35, 31, 29, 33, 32, 30, 34, 31)

		a, err := Forecast(points, 7)
		require.NoError(t, err)
		b, err := Forecast(points, 7)
		require.NoError(t, err)

		for i := range a {
			assert.True(t, a[i].Value.Equal(b[i].Value))
			assert.True(t, a[i].Confidence.Equal(b[i].Confidence))
		}
	})

	t.Run("never projects below zero", func(t *testing.T) {
		// Steeply falling series
		points := series(start, 70, 60, 50, 40, 30, 20, 10, 5, 2, 1)

		forecast, err := Forecast(points, 30)

		require.NoError(t, err)
		for _, p := range forecast {
			assert.False(t, p.Value.IsNegative())
		}
	})

	t.Run("weekday seasonality shifts the projection", func(t *testing.T) {
		// Two weeks where one weekday is consistently double the others
		values := make([]float64, 14)
		for i := range values {
			values[i] = 10
			if start.AddDate(0, 0, i).Weekday() == time.Saturday {
				values[i] = 20
			}
		}
		points := series(start, values...)

		forecast, err := Forecast(points, 7)

		require.NoError(t, err)
		var saturday, monday decimal.Decimal
		for _, p := range forecast {
			switch p.Date.Weekday() {
			case time.Saturday:
				saturday = p.Value
			case time.Monday:
				monday = p.Value
			}
		}
		assert.True(t, saturday.GreaterThan(monday),
			"saturday %s should exceed monday %s", saturday, monday)
	})
}

func TestMovingAverage(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rejects window below 2", func(t *testing.T) {
		_, err := MovingAverage(series(start, 1, 2, 3), 1)

		assert.Error(t, err)
	})

	t.Run("averages over trailing window", func(t *testing.T) {
		points := series(start, 10, 20, 30, 40)

		trend, err := MovingAverage(points, 3)

		require.NoError(t, err)
		require.Len(t, trend, 4)
		assert.True(t, trend[0].MovingAverage.Equal(decimal.NewFromInt(10)))
		assert.True(t, trend[1].MovingAverage.Equal(decimal.NewFromInt(15)))
		assert.True(t, trend[2].MovingAverage.Equal(decimal.NewFromInt(20)))
		assert.True(t, trend[3].MovingAverage.Equal(decimal.NewFromInt(30)))
	})
}

func TestDirection(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, TrendRising, Direction(series(start, 10, 12, 14, 16, 18)))
	assert.Equal(t, TrendFalling, Direction(series(start, 18, 16, 14, 12, 10)))
	assert.Equal(t, TrendFlat, Direction(series(start, 10, 10, 10, 10, 10)))
	assert.Equal(t, TrendFlat, Direction(series(start, 10)))
}
