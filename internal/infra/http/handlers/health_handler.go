package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Pinger checks that the store is reachable.
type Pinger func(ctx context.Context) error

type ConnectionState interface {
	IsClosed() bool
}

type HealthHandler struct {
	StoreDriver  string
	Store        Pinger
	RabbitMQ     ConnectionState
	MailDelivery string
	StartTime    time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(storeDriver string, store Pinger, rabbitMQ ConnectionState, mailDelivery string) *HealthHandler {
	return &HealthHandler{
		StoreDriver:  storeDriver,
		Store:        store,
		RabbitMQ:     rabbitMQ,
		MailDelivery: mailDelivery,
		StartTime:    time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.Store(ctx)
		cancel()
		if err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}
	deps["store_driver"] = h.StoreDriver

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	switch h.MailDelivery {
	case "", "disabled":
		deps["mail"] = "not configured"
	default:
		deps["mail"] = "configured"
	}

	status := "healthy"
	for k, v := range deps {
		if k == "store_driver" {
			continue
		}
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}
