package report

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DataPoint is one observed value on a calendar day
type DataPoint struct {
	Date  time.Time
	Value decimal.Decimal
}

// ForecastPoint is one projected value with a confidence estimate.
// Confidence starts near the model fit quality and degrades with horizon.
type ForecastPoint struct {
	Date       time.Time       `json:"date"`
	Value      decimal.Decimal `json:"value"`
	Confidence decimal.Decimal `json:"confidence"` // 0..1
}

// Minimum history for a usable projection
const minForecastHistory = 7

// Confidence lost per projected day
var confidenceDecay = decimal.NewFromFloat(0.02)

// linearModel is an ordinary least-squares fit y = intercept + slope*x
// where x is the day index of the observation
type linearModel struct {
	slope     decimal.Decimal
	intercept decimal.Decimal
	rSquared  decimal.Decimal
}

// fitLinear fits an OLS line through the series indexed 0..n-1
func fitLinear(points []DataPoint) linearModel {
	n := decimal.NewFromInt(int64(len(points)))

	var sumX, sumY, sumXY, sumXX decimal.Decimal
	for i, p := range points {
		x := decimal.NewFromInt(int64(i))
		sumX = sumX.Add(x)
		sumY = sumY.Add(p.Value)
		sumXY = sumXY.Add(x.Mul(p.Value))
		sumXX = sumXX.Add(x.Mul(x))
	}

	denom := n.Mul(sumXX).Sub(sumX.Mul(sumX))
	if denom.IsZero() {
		mean := decimal.Zero
		if !n.IsZero() {
			mean = sumY.DivRound(n, 8)
		}
		return linearModel{intercept: mean}
	}

	slope := n.Mul(sumXY).Sub(sumX.Mul(sumY)).DivRound(denom, 8)
	intercept := sumY.Sub(slope.Mul(sumX)).DivRound(n, 8)

	// R² = 1 - SSres/SStot
	mean := sumY.DivRound(n, 8)
	var ssRes, ssTot decimal.Decimal
	for i, p := range points {
		x := decimal.NewFromInt(int64(i))
		predicted := intercept.Add(slope.Mul(x))
		res := p.Value.Sub(predicted)
		tot := p.Value.Sub(mean)
		ssRes = ssRes.Add(res.Mul(res))
		ssTot = ssTot.Add(tot.Mul(tot))
	}

	rSquared := decimal.NewFromInt(1)
	if !ssTot.IsZero() {
		rSquared = decimal.NewFromInt(1).Sub(ssRes.DivRound(ssTot, 8))
		if rSquared.IsNegative() {
			rSquared = decimal.Zero
		}
	}

	return linearModel{slope: slope, intercept: intercept, rSquared: rSquared}
}

// seasonalOffsets returns, per weekday, the mean residual of that weekday
// against the fitted line. Offsets are computed on detrended residuals so a
// trending series carries no weekday bias; weekdays without observations get
// an offset of zero.
func seasonalOffsets(points []DataPoint, model linearModel) [7]decimal.Decimal {
	var sums [7]decimal.Decimal
	var counts [7]int64
	for i, p := range points {
		x := decimal.NewFromInt(int64(i))
		fitted := model.intercept.Add(model.slope.Mul(x))
		wd := int(p.Date.Weekday())
		sums[wd] = sums[wd].Add(p.Value.Sub(fitted))
		counts[wd]++
	}

	var offsets [7]decimal.Decimal
	for wd := 0; wd < 7; wd++ {
		if counts[wd] == 0 {
			continue
		}
		offsets[wd] = sums[wd].DivRound(decimal.NewFromInt(counts[wd]), 8)
	}

	return offsets
}

// Forecast projects the series horizon days past its last observation.
// The trend comes from an OLS fit and each day adds its weekday's seasonal
// offset. The projection is deterministic for a given series.
func Forecast(points []DataPoint, horizon int) ([]ForecastPoint, error) {
	if len(points) < minForecastHistory {
		return nil, shared.NewDomainError("INSUFFICIENT_HISTORY", "At least 7 days of history are required to forecast")
	}
	if horizon < 1 || horizon > 90 {
		return nil, shared.NewDomainError("INVALID_HORIZON", "Forecast horizon must be between 1 and 90 days")
	}

	model := fitLinear(points)
	offsets := seasonalOffsets(points, model)

	lastDate := points[len(points)-1].Date
	baseConfidence := model.rSquared

	result := make([]ForecastPoint, 0, horizon)
	for day := 1; day <= horizon; day++ {
		date := lastDate.AddDate(0, 0, day)
		x := decimal.NewFromInt(int64(len(points) - 1 + day))

		value := model.intercept.Add(model.slope.Mul(x))
		value = value.Add(offsets[int(date.Weekday())])
		if value.IsNegative() {
			value = decimal.Zero
		}

		confidence := baseConfidence.Sub(confidenceDecay.Mul(decimal.NewFromInt(int64(day))))
		if confidence.IsNegative() {
			confidence = decimal.Zero
		}

		result = append(result, ForecastPoint{
			Date:       date,
			Value:      value.Round(4),
			Confidence: confidence.Round(4),
		})
	}

	return result, nil
}
