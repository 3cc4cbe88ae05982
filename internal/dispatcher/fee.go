package dispatcher

import "context"

const feeUnit = "sat/vB"

func feeRecommended(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	fees, err := d.api.GetRecommendedFees(ctx)
	if err != nil {
		return nil, err
	}
	return Record{
		"fastest_fee":   fees.FastestFee,
		"half_hour_fee": fees.HalfHourFee,
		"hour_fee":      fees.HourFee,
		"economy_fee":   fees.EconomyFee,
		"minimum_fee":   fees.MinimumFee,
		"unit":          feeUnit,
	}, nil
}

func feeMempoolBlocks(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	blocks, err := d.api.GetMempoolBlocks(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"count": len(blocks), "blocks": blocks, "unit": feeUnit}, nil
}

func feeEstimates(ctx context.Context, d *Dispatcher, _ Params) (Record, error) {
	estimates, err := d.api.GetFeeEstimates(ctx)
	if err != nil {
		return nil, err
	}
	return Record{"estimates": estimates, "unit": feeUnit}, nil
}
