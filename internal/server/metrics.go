package server

import (
	"sync/atomic"
	"time"
)

// Metrics tracks live hub counters.
type Metrics struct {
	EventsSent       atomic.Int64
	ConnectedClients atomic.Int64
	StartTime        time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// MetricsSnapshot is the point-in-time view served by the health
// endpoint.
type MetricsSnapshot struct {
	EventsSent       int64  `json:"eventsSent"`
	ConnectedClients int64  `json:"connectedClients"`
	UptimeSeconds    int64  `json:"uptimeSeconds"`
	StartTime        string `json:"startTime"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		UptimeSeconds:    int64(time.Since(m.StartTime).Seconds()),
		StartTime:        m.StartTime.Format(time.RFC3339),
	}
}
