package report

import (
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TrendPoint is one observed value alongside its moving average
type TrendPoint struct {
	DataPoint
	MovingAverage decimal.Decimal `json:"moving_average"`
}

// TrendDirection classifies how a series is moving
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendFlat    TrendDirection = "flat"
)

// Slope magnitude below which a series counts as flat
var flatThreshold = decimal.NewFromFloat(0.01)

// MovingAverage annotates the series with a trailing moving average over
// the given window. Early points average over what history exists.
func MovingAverage(points []DataPoint, window int) ([]TrendPoint, error) {
	if window < 2 {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Moving average window must be at least 2 days")
	}

	result := make([]TrendPoint, 0, len(points))
	for i, p := range points {
		start := i - window + 1
		if start < 0 {
			start = 0
		}

		sum := decimal.Zero
		for _, q := range points[start : i+1] {
			sum = sum.Add(q.Value)
		}
		avg := sum.DivRound(decimal.NewFromInt(int64(i-start+1)), 4)

		result = append(result, TrendPoint{DataPoint: p, MovingAverage: avg})
	}

	return result, nil
}

// Direction classifies the series by the slope of its OLS fit
func Direction(points []DataPoint) TrendDirection {
	if len(points) < 2 {
		return TrendFlat
	}

	model := fitLinear(points)
	switch {
	case model.slope.GreaterThan(flatThreshold):
		return TrendRising
	case model.slope.LessThan(flatThreshold.Neg()):
		return TrendFalling
	default:
		return TrendFlat
	}
}
