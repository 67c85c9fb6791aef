package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	predictions service.PredictionAppService
	redis       Pinger
	log         logger.Logger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when no
// redis deployment is configured.
func NewHealthHandler(predictions service.PredictionAppService, redis Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		predictions: predictions,
		redis:       redis,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Checks the health of the service and its dependencies.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	checks := h.performChecks(c.Request.Context())

	httpStatus := http.StatusOK
	for name, checkStatus := range checks {
		if checkStatus != "ok" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			h.log.Warn(c.Request.Context(), "Health check failed", logger.Fields{"check": name, "status": checkStatus})
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
		"model":     h.predictions.ModelInfo(),
	})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Checks if the service is ready to accept traffic.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.HealthCheck(c) // the classifier is loaded before the router starts
}

// LivenessCheck godoc
// @Summary      Liveness Check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "timestamp": time.Now().UTC()})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var wg sync.WaitGroup
	checks := make(map[string]string)
	mu := &sync.Mutex{}

	checkers := map[string]func() string{
		"classifier": h.checkClassifier,
	}
	if h.redis != nil {
		checkers["redis"] = func() string { return h.checkRedis(ctx) }
	}

	wg.Add(len(checkers))
	for name, checkFunc := range checkers {
		go func(name string, f func() string) {
			defer wg.Done()
			status := f()
			mu.Lock()
			checks[name] = status
			mu.Unlock()
		}(name, checkFunc)
	}
	wg.Wait()
	return checks
}

func (h *HealthHandler) checkClassifier() string {
	if h.predictions.ModelInfo().Backend == "" {
		return "error: no classifier loaded"
	}
	return "ok"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if err := h.redis.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

//Personal.AI order the ending
