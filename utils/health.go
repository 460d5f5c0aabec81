package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

func MongoPinger(client *mongo.Client) Pinger {
	return func(ctx context.Context) error { return client.Ping(ctx, nil) }
}

func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Status    string          `json:"status"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot in memory so the health
// endpoint never blocks on a slow dependency.
type HealthMonitor struct {
	checks  map[string]Pinger
	timeout time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(checks map[string]Pinger) *HealthMonitor {
	return &HealthMonitor{checks: checks, timeout: 2 * time.Second}
}

// Check pings every service now and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok", Services: make(map[string]bool, len(m.checks)), CheckedAt: time.Now()}
	for name, ping := range m.checks {
		pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
		ok := ping(pingCtx) == nil
		cancel()
		status.Services[name] = ok
		if !ok {
			status.Status = "degraded"
		}
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// GetHealthStatus returns latest stored health snapshot.
func (m *HealthMonitor) GetHealthStatus() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Start checks once, then every interval until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

// Handler answers 200 when every service is up and 503 otherwise.
func (m *HealthMonitor) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := m.GetHealthStatus()
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
