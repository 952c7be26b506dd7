// Package forecast turns per-gate state and history into multi-horizon
// congestion predictions. Two strategies sit behind one contract: a
// simulated learned network and a statistical fallback. Callers never see
// which one ran; any internal failure degrades to the fallback.
package forecast

import (
	"context"
	"log"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karimlaafif/Event-Flow/history"
	"github.com/karimlaafif/Event-Flow/models"
)

const (
	// maxGatesPerBatch caps the gates forecast in one PredictAll call.
	maxGatesPerBatch = 6

	modelInitTimeout = 3 * time.Second

	refineEvery  = 100
	metricsEvery = 200
)

var (
	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventflow_forecast_predictions_generated_total",
		Help: "Total number of gate predictions computed.",
	})
	predictionsFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventflow_forecast_fallbacks_total",
		Help: "Total number of predictions served by the statistical fallback.",
	})
	refinementsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventflow_forecast_refinements_total",
		Help: "Total number of background model refinement passes.",
	})
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventflow_forecast_batch_duration_seconds",
		Help:    "Duration of a full PredictAll batch.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})
)

// Forecaster owns the strategy selection and the illustrative model
// metrics. Construct it once and share it; all methods are safe for
// concurrent use.
type Forecaster struct {
	hist     *history.Store
	fallback fallbackStrategy

	netMu      sync.RWMutex
	network    *networkStrategy
	modelReady atomic.Bool
	training   atomic.Bool

	total atomic.Int64

	mu      sync.Mutex
	metrics models.ModelMetrics
	rng     *rand.Rand
}

func New(hist *history.Store) *Forecaster {
	f := &Forecaster{
		hist: hist,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		metrics: models.ModelMetrics{
			Accuracy:    0.92,
			Precision:   0.89,
			Recall:      0.94,
			F1Score:     0.915,
			MAE:         15.2,
			RMSE:        22.8,
			LastUpdated: time.Now(),
		},
	}
	go f.initModel()
	return f
}

// initModel builds the learned strategy in the background. Construction is
// bounded; on timeout or failure the forecaster simply stays on the
// statistical fallback.
func (f *Forecaster) initModel() {
	ctx, cancel := context.WithTimeout(context.Background(), modelInitTimeout)
	defer cancel()

	done := make(chan *networkStrategy, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("model init failed, using statistical fallback: %v", r)
			}
		}()
		done <- newNetworkStrategy(rand.New(rand.NewSource(time.Now().UnixNano())))
	}()

	select {
	case net := <-done:
		if net == nil {
			return
		}
		f.netMu.Lock()
		f.network = net
		f.netMu.Unlock()
		f.modelReady.Store(true)
		log.Printf("forecast model initialized")
	case <-ctx.Done():
		log.Printf("forecast model init timed out, using statistical fallback")
	}
}

// Predict produces the multi-horizon prediction for one gate. It never
// fails: a model error falls through to the fallback strategy for this
// call only.
func (f *Forecaster) Predict(gate models.Gate, gates []models.Gate, now time.Time) models.ModelPrediction {
	feats := f.ExtractFeatures(gate, gates, now)
	sequence := f.hist.QueueSequence(gate.ID, SequenceLength)

	var queue []float64
	var confidence float64

	used := false
	if f.modelReady.Load() {
		f.netMu.RLock()
		net := f.network
		f.netMu.RUnlock()
		if net != nil {
			q, c, err := net.Predict(feats, sequence)
			if err != nil {
				log.Printf("model prediction failed for gate=%s, using fallback: %v", gate.ID, err)
			} else {
				queue, confidence = q, c
				used = true
			}
		}
	}
	if !used {
		queue, confidence, _ = f.fallback.Predict(feats, sequence)
		predictionsFallback.Inc()
	}

	pred := compose(gate.ID, now, feats, queue, confidence)

	predictionsGenerated.Inc()
	n := f.total.Add(1)
	if n%refineEvery == 0 && f.modelReady.Load() && f.training.CompareAndSwap(false, true) {
		go f.refineInBackground()
	}
	if n%metricsEvery == 0 {
		f.updateMetrics(now)
	}

	return pred
}

// PredictAll forecasts up to maxGatesPerBatch gates concurrently. Gates
// beyond the cap are left out; callers needing them call again.
func (f *Forecaster) PredictAll(gates []models.Gate, now time.Time) map[string]models.ModelPrediction {
	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	subset := gates
	if len(subset) > maxGatesPerBatch {
		subset = subset[:maxGatesPerBatch]
	}

	results := make([]models.ModelPrediction, len(subset))
	var wg sync.WaitGroup
	for i, gate := range subset {
		wg.Add(1)
		go func(i int, gate models.Gate) {
			defer wg.Done()
			results[i] = f.Predict(gate, gates, now)
		}(i, gate)
	}
	wg.Wait()

	predictions := make(map[string]models.ModelPrediction, len(results))
	for _, p := range results {
		predictions[p.GateID] = p
	}
	return predictions
}

// RecommendGate picks the gate with the lowest first-horizon wait among
// those a spectator profile is eligible for: vip needs fast processing
// (<=12s), family tolerates up to 15s, other profiles take any gate.
func (f *Forecaster) RecommendGate(gates []models.Gate, now time.Time, profile models.Profile) string {
	candidates := gates
	switch profile {
	case models.ProfileVIP:
		candidates = filterGates(gates, 12)
	case models.ProfileFamily:
		candidates = filterGates(gates, 15)
	}
	if len(candidates) == 0 {
		candidates = gates
	}
	if len(candidates) == 0 {
		return ""
	}

	predictions := f.PredictAll(gates, now)

	best := candidates[0].ID
	bestWait := math.Inf(1)
	for _, gate := range candidates {
		pred, ok := predictions[gate.ID]
		if !ok || len(pred.EstimatedWaitTime) == 0 {
			continue
		}
		if pred.EstimatedWaitTime[0] < bestWait {
			bestWait = pred.EstimatedWaitTime[0]
			best = gate.ID
		}
	}
	return best
}

func filterGates(gates []models.Gate, maxProcessTime float64) []models.Gate {
	out := make([]models.Gate, 0, len(gates))
	for _, g := range gates {
		if g.AvgProcessTime <= maxProcessTime {
			out = append(out, g)
		}
	}
	return out
}

// Metrics returns a copy of the current model metrics.
func (f *Forecaster) Metrics() models.ModelMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.metrics
	m.TotalPredictions = f.total.Load()
	return m
}

// ModelReady reports whether the learned strategy is active.
func (f *Forecaster) ModelReady() bool {
	return f.modelReady.Load()
}

// updateMetrics re-noises the illustrative accuracy figures within bounds.
func (f *Forecaster) updateMetrics(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	variation := (f.rng.Float64() - 0.5) * 0.01
	f.metrics.Accuracy = math.Min(0.99, math.Max(0.90, 0.92+variation))
	f.metrics.Precision = f.metrics.Accuracy * 0.97
	f.metrics.Recall = f.metrics.Accuracy * 1.02
	f.metrics.F1Score = (2 * f.metrics.Precision * f.metrics.Recall) /
		(f.metrics.Precision + f.metrics.Recall)
	f.metrics.LastUpdated = now
}

// refineInBackground fits the network on accumulated historical windows
// without blocking new predictions. Failures are logged, never propagated.
func (f *Forecaster) refineInBackground() {
	defer f.training.Store(false)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("online refinement failed: %v", r)
		}
	}()

	targets := f.trainingTargets()
	if len(targets) < 10 {
		return
	}

	f.netMu.RLock()
	net := f.network
	f.netMu.RUnlock()
	if net == nil {
		return
	}
	if err := net.refine(targets); err != nil {
		log.Printf("online refinement failed: %v", err)
		return
	}
	refinementsRun.Inc()
	log.Printf("forecast model refined on %d windows", len(targets))
}

// trainingTargets slides a window over every gate's history, collecting
// the five normalized queue values that follow each full input sequence.
func (f *Forecaster) trainingTargets() [][]float64 {
	const maxSamples = 256
	const normCapacity = 800.0 // average gate capacity

	var targets [][]float64
	for _, gateID := range f.hist.GateIDs() {
		pts := f.hist.Recent(gateID, history.DefaultCapacity)
		if len(pts) < SequenceLength+len(Horizons) {
			continue
		}
		for i := SequenceLength; i <= len(pts)-len(Horizons); i++ {
			target := make([]float64, len(Horizons))
			for j := 0; j < len(Horizons); j++ {
				target[j] = float64(pts[i+j].Queue) / normCapacity
			}
			targets = append(targets, target)
			if len(targets) >= maxSamples {
				return targets
			}
		}
	}
	return targets
}

// compose assembles the full prediction from raw per-horizon queues,
// enforcing the shared output contract: density from queue, risk from peak
// density, action from the density profile.
func compose(gateID string, now time.Time, feats Features, queue []float64, confidence float64) models.ModelPrediction {
	capacity := float64(feats.Capacity)

	density := make([]float64, len(queue))
	for i, q := range queue {
		density[i] = q / capacity
	}

	maxDensity, avgDensity := densityProfile(density)
	risk := riskFor(maxDensity)

	wait := make([]float64, len(queue))
	rate := capacity / (feats.AvgProcessTime * 60)
	for i, q := range queue {
		wait[i] = math.Max(0, q/rate)
	}

	horizons := make([]int, len(Horizons))
	copy(horizons, Horizons)

	return models.ModelPrediction{
		GateID:            gateID,
		Timestamp:         now,
		PredictedQueue:    queue,
		PredictedDensity:  density,
		Confidence:        confidence,
		TimeHorizon:       horizons,
		SuggestedAction:   suggestAction(maxDensity, risk, avgDensity),
		RiskLevel:         risk,
		EstimatedWaitTime: wait,
	}
}

func densityProfile(density []float64) (maxDensity, avgDensity float64) {
	if len(density) == 0 {
		return 0, 0
	}
	maxDensity = density[0]
	sum := 0.0
	for _, d := range density {
		if d > maxDensity {
			maxDensity = d
		}
		sum += d
	}
	return maxDensity, sum / float64(len(density))
}

func riskFor(maxDensity float64) models.RiskLevel {
	switch {
	case maxDensity >= 0.85:
		return models.RiskCritical
	case maxDensity >= 0.70:
		return models.RiskHigh
	case maxDensity >= 0.50:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func suggestAction(maxDensity float64, risk models.RiskLevel, avgDensity float64) models.SuggestedAction {
	switch {
	case maxDensity >= 0.85 || risk == models.RiskCritical:
		return models.ActionRedirect
	case maxDensity >= 0.70 || risk == models.RiskHigh:
		return models.ActionAlert
	case avgDensity >= 0.60:
		return models.ActionIncreaseCapacity
	default:
		return models.ActionMaintain
	}
}
