package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karimlaafif/Event-Flow/forecast"
	"github.com/karimlaafif/Event-Flow/models"
	"github.com/karimlaafif/Event-Flow/sim"
)

// SimulationHandler serves the live engine state and its control commands.
// Everything here reads copies; the engine stays the single writer.
type SimulationHandler struct {
	engine     *sim.Engine
	forecaster *forecast.Forecaster
}

func NewSimulationHandler(engine *sim.Engine, forecaster *forecast.Forecaster) *SimulationHandler {
	return &SimulationHandler{engine: engine, forecaster: forecaster}
}

func (h *SimulationHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.State())
}

func (h *SimulationHandler) GetGates(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Gates())
}

func (h *SimulationHandler) GetSpectators(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Spectators())
}

func (h *SimulationHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Alerts())
}

func (h *SimulationHandler) GetPredictions(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Predictions())
}

func (h *SimulationHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Metrics())
}

func (h *SimulationHandler) Start(c *gin.Context) {
	h.engine.Start()
	c.JSON(http.StatusOK, h.engine.State())
}

func (h *SimulationHandler) Stop(c *gin.Context) {
	h.engine.Stop()
	c.JSON(http.StatusOK, h.engine.State())
}

func (h *SimulationHandler) ToggleCrisis(c *gin.Context) {
	h.engine.ToggleCrisis()
	c.JSON(http.StatusOK, h.engine.State())
}

type RedirectRequest struct {
	FromGate string `json:"from_gate" binding:"required"`
	ToGate   string `json:"to_gate" binding:"required"`
}

func (h *SimulationHandler) Redirect(c *gin.Context) {
	var req RedirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.engine.Redirect(req.FromGate, req.ToGate)
	c.JSON(http.StatusOK, gin.H{"message": "redirect applied", "alerts": h.engine.Alerts()})
}

// GetRecommendations ranks all gates by walk plus queue time from the
// position given in the x and y query parameters.
func (h *SimulationHandler) GetRecommendations(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y query parameters must be numbers"})
		return
	}

	recs := h.engine.RecommendRoute(models.Position{X: x, Y: y})
	c.JSON(http.StatusOK, recs)
}

// GetBestGate picks the single best gate for a spectator profile based on
// the shortest predicted first-horizon wait.
func (h *SimulationHandler) GetBestGate(c *gin.Context) {
	profile := models.Profile(c.DefaultQuery("profile", string(models.ProfileStandard)))
	valid := false
	for _, p := range models.Profiles {
		if p == profile {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown spectator profile"})
		return
	}

	gateID := h.forecaster.RecommendGate(h.engine.Gates(), time.Now(), profile)
	if gateID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no gates available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gate_id": gateID, "profile": profile})
}
