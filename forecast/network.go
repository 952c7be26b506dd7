package forecast

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// networkStrategy is the learned predictor: a small dense network over the
// normalized feature vector, standing in for the original recurrent model.
// The weights start untrained (drawn from N(0, 0.1), simulating a loaded
// pretrained state) and are nudged by the periodic refinement pass. Its
// value is the contract it exercises, not its numeric quality.
type networkStrategy struct {
	mu sync.RWMutex
	w1 *mat.Dense // 64x9
	b1 *mat.VecDense
	w2 *mat.Dense // 32x64
	b2 *mat.VecDense
	w3 *mat.Dense // 16x32
	b3 *mat.VecDense
	w4 *mat.Dense // 5x16
	b4 *mat.VecDense
}

func newNetworkStrategy(rng *rand.Rand) *networkStrategy {
	randDense := func(r, c int) *mat.Dense {
		data := make([]float64, r*c)
		for i := range data {
			data[i] = rng.NormFloat64() * 0.1
		}
		return mat.NewDense(r, c, data)
	}
	randVec := func(n int) *mat.VecDense {
		data := make([]float64, n)
		for i := range data {
			data[i] = rng.NormFloat64() * 0.1
		}
		return mat.NewVecDense(n, data)
	}
	return &networkStrategy{
		w1: randDense(64, 9), b1: randVec(64),
		w2: randDense(32, 64), b2: randVec(32),
		w3: randDense(16, 32), b3: randVec(16),
		w4: randDense(5, 16), b4: randVec(5),
	}
}

func (n *networkStrategy) Predict(feats Features, sequence []float64) ([]float64, float64, error) {
	if feats.Capacity <= 0 {
		return nil, 0, errors.New("gate capacity must be positive")
	}
	capacity := float64(feats.Capacity)

	// The fixed input window repeats one normalized feature row per step
	// (zero-padded history only shifts the last-sample feature), so the
	// forward pass collapses to a single run over the feature vector.
	input := mat.NewVecDense(9, normalize(feats, sequence))

	n.mu.RLock()
	h1 := layer(n.w1, n.b1, input, math.Tanh)
	h2 := layer(n.w2, n.b2, h1, math.Tanh)
	h3 := layer(n.w3, n.b3, h2, relu)
	out := layer(n.w4, n.b4, h3, nil)
	n.mu.RUnlock()

	raw := make([]float64, out.Len())
	queue := make([]float64, out.Len())
	for i := range raw {
		raw[i] = out.AtVec(i)
		queue[i] = math.Max(0, math.Min(capacity, raw[i]*capacity))
	}

	// Lower output variance means higher certainty.
	variance := stat.Variance(raw, nil)
	confidence := math.Max(0.75, math.Min(0.98, 1-variance*2))

	return queue, confidence, nil
}

// refine is the online-refinement step: it pulls the output layer bias a
// small step toward the mean normalized target per horizon. The fit is
// simulated, but it keeps the periodic, lock-guarded refinement path live.
func (n *networkStrategy) refine(targets [][]float64) error {
	if len(targets) == 0 {
		return errors.New("no training windows available")
	}
	const lr = 0.01

	mean := make([]float64, len(Horizons))
	for _, t := range targets {
		if len(t) != len(Horizons) {
			return errors.New("target width mismatch")
		}
		for i, v := range t {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(len(targets))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range mean {
		cur := n.b4.AtVec(i)
		n.b4.SetVec(i, cur+lr*(mean[i]-cur))
	}
	return nil
}

func layer(w *mat.Dense, b *mat.VecDense, x *mat.VecDense, activate func(float64) float64) *mat.VecDense {
	rows, _ := w.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(w, x)
	out.AddVec(out, b)
	if activate != nil {
		for i := 0; i < out.Len(); i++ {
			out.SetVec(i, activate(out.AtVec(i)))
		}
	}
	return out
}

func relu(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
