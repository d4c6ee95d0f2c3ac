package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus represents the health payload.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents one subsystem.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Configurable reports whether an optional collaborator has credentials.
// Unconfigured collaborators degrade features, they do not make the
// service unhealthy.
type Configurable interface {
	IsConfigured() bool
}

// HealthHandler reports overall status plus the configuration state of
// optional collaborators (remote verifier, analytics).
func HealthHandler(optional map[string]Configurable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now(),
			Checks:    make(map[string]CheckStatus),
		}

		for name, c := range optional {
			if c != nil && c.IsConfigured() {
				health.Checks[name] = CheckStatus{Status: "configured"}
			} else {
				health.Checks[name] = CheckStatus{
					Status:  "not_configured",
					Message: "feature degraded, serving local results only",
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(health)
	}
}

// LivenessHandler is the simplest check.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
