package forecast

import "math"

// Horizons are the forecast offsets in minutes ahead.
var Horizons = []int{5, 10, 15, 30, 60}

// SequenceLength is the fixed input window of historical queue samples,
// zero-padded on the left when there is less history.
const SequenceLength = 20

// Strategy produces raw per-horizon queue forecasts. Both implementations
// honor the same output contract: len(Horizons) values in [0, capacity]
// and a confidence in [0, 1].
type Strategy interface {
	Predict(feats Features, sequence []float64) (queue []float64, confidence float64, err error)
}

// fallbackStrategy is the deterministic statistical predictor. It needs no
// setup and never fails, so the forecaster can always degrade to it.
type fallbackStrategy struct{}

func (fallbackStrategy) Predict(feats Features, sequence []float64) ([]float64, float64, error) {
	capacity := float64(feats.Capacity)
	baseQueue := float64(feats.CurrentQueue)
	trendFactor := feats.Trend * 0.3
	tf := timeFactor(feats.TimeOfDay)

	queue := make([]float64, len(Horizons))
	for i, minutes := range Horizons {
		timeDecay := math.Exp(-float64(minutes) / 30)
		growthRate := trendFactor * (1 - timeDecay)
		predicted := baseQueue + growthRate*capacity + tf*capacity*0.1
		queue[i] = math.Max(0, math.Min(capacity, predicted))
	}

	confidence := 0.70
	if len(sequence) >= 10 {
		confidence = 0.85
	}
	return queue, confidence, nil
}

// timeFactor models the evening peak: hours 18-20 push queues up, the
// shoulder hours 17 and 21 push less, and the rest of the day relaxes them.
func timeFactor(hour int) float64 {
	const peakStart, peakEnd = 18, 20
	if hour >= peakStart && hour <= peakEnd {
		return 0.3
	}
	if hour >= peakStart-1 && hour <= peakEnd+1 {
		return 0.15
	}
	return -0.1
}
