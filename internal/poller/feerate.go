package poller

import (
	"context"
	"fmt"
	"math"

	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/shopspring/decimal"
)

func (e *Engine) pollFeeRate(ctx context.Context, t Trigger, cursor Cursor) ([]Event, Cursor, error) {
	fees, err := e.source.GetRecommendedFees(ctx)
	if err != nil {
		return nil, cursor, err
	}
	current, ok := fees.Tier(t.FeeType)
	if !ok {
		return nil, cursor, fmt.Errorf("unknown fee type %q", t.FeeType)
	}

	next := cursor
	if cursor.LastFeeValue == nil {
		next.LastFeeValue = ptr(current)
		e.logger.Info("Captured fee baseline", "trigger", t.Name, "fee_type", t.FeeType, "fee", current)
		return nil, next, nil
	}

	// The baseline only moves when a change fires, so slow drift accumulates
	// against it until it crosses the threshold.
	previous := *cursor.LastFeeValue
	changePercent, changed := feeChange(previous, current, t.ChangeThreshold)
	if !changed {
		return nil, cursor, nil
	}

	direction := FeeDecreased
	if current > previous {
		direction = FeeIncreased
	}
	next.LastFeeValue = ptr(current)
	next.FeeChanges = cursor.FeeChanges + 1
	return []Event{FeeRateChangeEvent{
		Event:         enum.EventFeeRateChange,
		FeeType:       t.FeeType,
		PreviousFee:   previous,
		CurrentFee:    current,
		ChangePercent: changePercent,
		Direction:     direction,
		AllFees:       *fees,
		Sequence:      next.FeeChanges,
	}}, next, nil
}

// feeChange returns the relative change in percent, rounded to 2 places, and
// whether it reaches threshold. Leaving a zero baseline always counts as a
// change and is reported as 100%.
func feeChange(previous, current, threshold float64) (float64, bool) {
	if previous == 0 {
		if current == 0 {
			return 0, false
		}
		return 100, true
	}
	pct := math.Abs(current-previous) / previous * 100
	if pct < threshold {
		return pct, false
	}
	return decimal.NewFromFloat(pct).Round(2).InexactFloat64(), true
}
