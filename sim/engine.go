// Package sim advances the gate-flow world one discrete tick at a time:
// gate queues, spectator movement, derived metrics and alerts. The engine
// is the single writer of all live state; forecast refreshes run as
// detached tasks that publish a replacement prediction snapshot.
package sim

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karimlaafif/Event-Flow/forecast"
	"github.com/karimlaafif/Event-Flow/history"
	"github.com/karimlaafif/Event-Flow/models"
	"github.com/karimlaafif/Event-Flow/routing"
	"github.com/karimlaafif/Event-Flow/topology"
)

// Redis channels the engine publishes to when a publisher is attached.
const (
	ChannelLive        = "eventflow:live"
	ChannelPredictions = "eventflow:predictions"
	ChannelAlerts      = "eventflow:alerts"
)

const (
	forecastEvery        = 10
	predictionAlertEvery = 15
	criticalAlertEvery   = 20
	maxAlerts            = 10

	defaultSpectators = 1000
	arrivalRadius     = 5.0
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventflow_sim_ticks_total",
		Help: "Total number of simulation ticks advanced.",
	})
	spectatorsEntered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventflow_sim_spectators_entered",
		Help: "Number of spectators that have entered the stadium.",
	})
	alertsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventflow_sim_alerts_emitted_total",
		Help: "Total number of alerts emitted by the engine.",
	})
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventflow_sim_tick_duration_seconds",
		Help:    "Duration of the synchronous portion of a tick.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

// Publisher is the fire-and-forget outbound channel for live snapshots,
// predictions and alerts. A Redis-backed cache service satisfies it; nil
// disables publishing.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// LiveSnapshot is the compact per-tick view published on ChannelLive.
type LiveSnapshot struct {
	Tick      int64                  `json:"tick"`
	Timestamp time.Time              `json:"timestamp"`
	Gates     []models.Gate          `json:"gates"`
	State     models.SimulationState `json:"state"`
}

type Options struct {
	SpectatorCount int
	Speed          float64
	Seed           int64 // 0 seeds from the clock
	Publisher      Publisher
}

// Engine owns the authoritative mutable simulation state.
type Engine struct {
	mu          sync.RWMutex
	gates       []models.Gate
	spectators  []models.Spectator
	alerts      []models.Alert
	predictions map[string]models.ModelPrediction
	state       models.SimulationState
	tick        int64
	alertSeq    int64
	running     bool
	cancel      context.CancelFunc

	positions   map[string]models.Position
	hist        *history.Store
	forecaster  *forecast.Forecaster
	recommender *routing.Recommender
	publisher   Publisher
	rng         *rand.Rand
}

func New(forecaster *forecast.Forecaster, recommender *routing.Recommender, hist *history.Store, opts Options) *Engine {
	if opts.SpectatorCount <= 0 {
		opts.SpectatorCount = defaultSpectators
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		predictions: make(map[string]models.ModelPrediction),
		positions:   topology.Positions(),
		hist:        hist,
		forecaster:  forecaster,
		recommender: recommender,
		publisher:   opts.Publisher,
		rng:         rand.New(rand.NewSource(seed)),
	}

	now := time.Now()
	for _, cfg := range topology.Gates() {
		queue := e.rng.Intn(50)
		gate := models.Gate{
			ID:             cfg.ID,
			Name:           cfg.Name,
			Capacity:       cfg.Capacity,
			CurrentQueue:   queue,
			AvgProcessTime: cfg.AvgProcessTime,
			Status:         models.StatusForQueue(queue, cfg.Capacity),
			Position:       cfg.Position,
			Throughput:     int(float64(cfg.Capacity) * (0.7 + e.rng.Float64()*0.3)),
		}
		e.gates = append(e.gates, gate)
		e.hist.Append(gate.ID, models.HistoricalDataPoint{
			Timestamp:  now,
			GateID:     gate.ID,
			Queue:      gate.CurrentQueue,
			Throughput: gate.Throughput,
			WaitTime:   gate.AvgProcessTime,
		})
	}

	e.spectators = e.generateSpectators(opts.SpectatorCount, now)

	e.state = models.SimulationState{
		Speed:           opts.Speed,
		CurrentTime:     now,
		TotalSpectators: opts.SpectatorCount,
	}

	metrics := forecaster.Metrics()
	e.alerts = []models.Alert{
		{
			ID:        "1",
			Type:      models.AlertInfo,
			Title:     "System Online",
			Message:   "Gate-flow engine is monitoring all gates",
			Timestamp: now,
		},
		{
			ID:        "2",
			Type:      models.AlertSuccess,
			Title:     "Prediction Model Loaded",
			Message:   fmt.Sprintf("Congestion forecasting initialized. Accuracy: %.1f%%", metrics.Accuracy*100),
			Timestamp: now,
		},
	}

	go e.refreshPredictions(cloneGates(e.gates), now)

	return e
}

func (e *Engine) generateSpectators(count int, now time.Time) []models.Spectator {
	gates := topology.Gates()
	spectators := make([]models.Spectator, 0, count)
	for i := 0; i < count; i++ {
		profile := models.Profiles[e.rng.Intn(len(models.Profiles))]
		assigned := gates[e.rng.Intn(len(gates))].ID
		angle := e.rng.Float64() * 2 * math.Pi
		dist := 30 + e.rng.Float64()*40
		spectators = append(spectators, models.Spectator{
			ID:           fmt.Sprintf("SPEC%05d", i),
			Profile:      profile,
			AssignedGate: assigned,
			Position: models.Position{
				X: 50 + math.Cos(angle)*dist,
				Y: 50 + math.Sin(angle)*dist,
			},
			Status:        models.SpectatorApproaching,
			ArrivalTime:   now.Add(time.Duration(e.rng.Float64() * float64(2*time.Hour))),
			EstimatedWait: 5 + e.rng.Intn(30),
		})
	}
	return spectators
}

// Start installs the periodic tick driver. Calling it while running is a
// no-op; the driver fires at max(200ms, 500ms/speed).
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.state.IsRunning = true
	speed := e.state.Speed
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	interval := tickInterval(speed)
	go e.run(ctx, interval)
	log.Printf("simulation started: interval=%s speed=%.1f", interval, speed)
}

// tickInterval maps the speed multiplier to the driver period, floored at
// 200ms so high speeds cannot starve the scheduler.
func tickInterval(speed float64) time.Duration {
	return time.Duration(math.Max(200, 500/speed)) * time.Millisecond
}

func (e *Engine) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.step()
		}
	}
}

// Stop cancels the tick driver. In-flight forecast refreshes may still
// complete and overwrite the prediction snapshot, which is harmless.
// Stopping an already stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.cancel()
	e.cancel = nil
	e.running = false
	e.state.IsRunning = false
	log.Printf("simulation stopped at tick %d", e.tick)
}

// step advances the world one tick. It is the only writer of live state.
func (e *Engine) step() {
	start := time.Now()
	defer func() {
		tickDuration.Observe(time.Since(start).Seconds())
	}()

	e.mu.Lock()
	e.tick++
	tick := e.tick
	now := e.state.CurrentTime

	for i := range e.gates {
		g := &e.gates[i]
		entering := e.rng.Intn(5) + 1
		processing := g.CurrentQueue
		if limit := g.Capacity / 60; processing > limit {
			processing = limit
		}
		newQueue := g.CurrentQueue + entering - processing
		if newQueue < 0 {
			newQueue = 0
		}
		g.CurrentQueue = newQueue
		g.Throughput += processing
		g.Status = models.StatusForQueue(newQueue, g.Capacity)

		e.hist.Append(g.ID, models.HistoricalDataPoint{
			Timestamp:  now,
			GateID:     g.ID,
			Queue:      newQueue,
			Throughput: g.Throughput,
			WaitTime:   g.AvgProcessTime,
		})
	}

	entered := 0
	for i := range e.spectators {
		s := &e.spectators[i]
		if s.Status == models.SpectatorEntered {
			entered++
			continue
		}
		gatePos, ok := e.positions[s.AssignedGate]
		if !ok {
			continue
		}
		dx := gatePos.X - s.Position.X
		dy := gatePos.Y - s.Position.Y
		dist := math.Hypot(dx, dy)
		if dist < arrivalRadius {
			if e.rng.Float64() > 0.9 {
				s.Status = models.SpectatorEntered
				entered++
			} else {
				s.Status = models.SpectatorQueued
			}
			continue
		}
		speed := 0.3 + e.rng.Float64()*0.2
		s.Position.X += dx / dist * speed
		s.Position.Y += dy / dist * speed
	}

	e.state.EnteredSpectators = entered
	spectatorsEntered.Set(float64(entered))

	avgWait := 0.0
	if len(e.gates) > 0 {
		sum := 0.0
		for _, g := range e.gates {
			if g.Capacity > 0 && g.AvgProcessTime > 0 {
				sum += float64(g.CurrentQueue) / (float64(g.Capacity) / g.AvgProcessTime)
			}
		}
		avgWait = math.Round(sum / float64(len(e.gates)))
	}
	if avgWait == 0 {
		// Transiently empty queues would otherwise show a dead panel.
		avgWait = float64(10 + e.rng.Intn(5))
	}
	e.state.AvgWaitTime = avgWait
	e.state.CurrentTime = now.Add(time.Minute)

	if tick%criticalAlertEvery == 0 {
		for _, g := range e.gates {
			if g.Status == models.StatusCritical {
				e.pushAlertLocked(models.Alert{
					ID:        e.nextAlertIDLocked("alert"),
					Type:      models.AlertCritical,
					Title:     fmt.Sprintf("%s Congestion Alert", g.Name),
					Message:   "Queue exceeds 85% capacity. Recommend redirecting to nearby gates.",
					Timestamp: now,
					GateID:    g.ID,
					Action:    "Redirect Flow",
				})
				break
			}
		}
	}
	if tick%predictionAlertEvery == 0 {
		e.predictionAlertsLocked(now)
	}

	var forecastGates []models.Gate
	if tick%forecastEvery == 0 {
		forecastGates = cloneGates(e.gates)
	}
	snapshot := LiveSnapshot{
		Tick:      tick,
		Timestamp: now,
		Gates:     cloneGates(e.gates),
		State:     e.state,
	}
	e.mu.Unlock()

	ticksTotal.Inc()

	if forecastGates != nil {
		go e.refreshPredictions(forecastGates, now)
	}
	e.publish(ChannelLive, snapshot)
}

// predictionAlertsLocked raises an alert for every gate whose latest
// prediction carries high or critical risk. Caller holds e.mu.
func (e *Engine) predictionAlertsLocked(now time.Time) {
	for gateID, pred := range e.predictions {
		if pred.RiskLevel != models.RiskHigh && pred.RiskLevel != models.RiskCritical {
			continue
		}
		var gate *models.Gate
		for i := range e.gates {
			if e.gates[i].ID == gateID {
				gate = &e.gates[i]
				break
			}
		}
		if gate == nil || len(pred.PredictedDensity) == 0 {
			continue
		}

		maxDensity := pred.PredictedDensity[0]
		maxIdx := 0
		for i, d := range pred.PredictedDensity {
			if d > maxDensity {
				maxDensity = d
				maxIdx = i
			}
		}
		minutesAhead := 0
		if maxIdx < len(pred.TimeHorizon) {
			minutesAhead = pred.TimeHorizon[maxIdx]
		}

		alertType := models.AlertWarning
		if pred.RiskLevel == models.RiskCritical {
			alertType = models.AlertCritical
		}
		action := ""
		if pred.SuggestedAction == models.ActionRedirect {
			action = "Redirect Flow"
		}

		e.pushAlertLocked(models.Alert{
			ID:        e.nextAlertIDLocked("pred-" + gateID),
			Type:      alertType,
			Title:     "Congestion Forecast",
			Message: fmt.Sprintf("%s predicted to reach %.0f%% capacity in %d minutes (confidence: %.0f%%)",
				gate.Name, maxDensity*100, minutesAhead, pred.Confidence*100),
			Timestamp: now,
			GateID:    gateID,
			Action:    action,
		})
	}
}

// nextAlertIDLocked builds an alert id from the tick counter and a
// per-engine sequence, so ids are unique and reproducible under a fixed
// seed. Caller holds e.mu.
func (e *Engine) nextAlertIDLocked(prefix string) string {
	e.alertSeq++
	return fmt.Sprintf("%s-%d-%d", prefix, e.tick, e.alertSeq)
}

// pushAlertLocked prepends an alert and trims the list to the most recent
// maxAlerts entries. Caller holds e.mu.
func (e *Engine) pushAlertLocked(a models.Alert) {
	keep := e.alerts
	if len(keep) > maxAlerts-1 {
		keep = keep[:maxAlerts-1]
	}
	e.alerts = append([]models.Alert{a}, keep...)
	alertsEmitted.Inc()
	e.publish(ChannelAlerts, a)
}

// refreshPredictions recomputes the prediction snapshot off the tick loop.
// Whichever refresh completes last wins; a refresh finishing after Stop
// only overwrites the snapshot, never live gate or spectator state.
func (e *Engine) refreshPredictions(gates []models.Gate, now time.Time) {
	predictions := e.forecaster.PredictAll(gates, now)
	e.mu.Lock()
	e.predictions = predictions
	e.mu.Unlock()
	e.publish(ChannelPredictions, predictions)
}

func (e *Engine) publish(channel string, message interface{}) {
	if e.publisher == nil {
		return
	}
	go func() {
		if err := e.publisher.Publish(context.Background(), channel, message); err != nil {
			log.Printf("publish to %s failed: %v", channel, err)
		}
	}()
}

// ToggleCrisis flips crisis mode. Turning it on emits one critical alert
// and applies a one-time random load shock of 0-100 to every gate queue.
func (e *Engine) ToggleCrisis() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.CrisisMode = !e.state.CrisisMode
	if !e.state.CrisisMode {
		return
	}
	e.pushAlertLocked(models.Alert{
		ID:        e.nextAlertIDLocked("crisis"),
		Type:      models.AlertCritical,
		Title:     "Crisis Mode Activated",
		Message:   "Transport delay detected. Redirecting spectators to alternate gates.",
		Timestamp: e.state.CurrentTime,
	})
	for i := range e.gates {
		g := &e.gates[i]
		g.CurrentQueue += e.rng.Intn(100)
		g.Status = models.StatusForQueue(g.CurrentQueue, g.Capacity)
	}
}

// Redirect reassigns every approaching spectator targeting fromID to toID.
// Spectators already queued or entered are committed and stay put. Unknown
// gate ids make the call a no-op.
func (e *Engine) Redirect(fromID, toID string) {
	if _, ok := topology.Lookup(fromID); !ok {
		return
	}
	if _, ok := topology.Lookup(toID); !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.spectators {
		s := &e.spectators[i]
		if s.AssignedGate == fromID && s.Status == models.SpectatorApproaching {
			s.AssignedGate = toID
		}
	}
	e.pushAlertLocked(models.Alert{
		ID:        e.nextAlertIDLocked("redirect"),
		Type:      models.AlertSuccess,
		Title:     "Redirect Successful",
		Message:   fmt.Sprintf("Spectators redirected from Gate %s to Gate %s", fromID, toID),
		Timestamp: e.state.CurrentTime,
	})
}

// Gates returns a copy of the live gate states.
func (e *Engine) Gates() []models.Gate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneGates(e.gates)
}

// Spectators returns a copy of the live spectator states.
func (e *Engine) Spectators() []models.Spectator {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Spectator, len(e.spectators))
	copy(out, e.spectators)
	return out
}

// Alerts returns the most recent alerts, newest first.
func (e *Engine) Alerts() []models.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// Predictions returns the latest prediction snapshot per gate.
func (e *Engine) Predictions() map[string]models.ModelPrediction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]models.ModelPrediction, len(e.predictions))
	for k, v := range e.predictions {
		out[k] = v
	}
	return out
}

// Metrics returns the forecaster's model metrics.
func (e *Engine) Metrics() models.ModelMetrics {
	return e.forecaster.Metrics()
}

// State returns the current simulation state snapshot.
func (e *Engine) State() models.SimulationState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// RecommendRoute ranks all gates by walking time plus queue wait from the
// given position, using the live gate states.
func (e *Engine) RecommendRoute(pos models.Position) []models.PathRecommendation {
	return e.recommender.RecommendBestGate(pos, e.Gates())
}

func cloneGates(gates []models.Gate) []models.Gate {
	out := make([]models.Gate, len(gates))
	copy(out, gates)
	return out
}
