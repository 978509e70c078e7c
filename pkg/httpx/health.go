package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthChecker is anything with a Ping: the database, Redis, the event bus,
// the blob store and the Temporal client all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a dependency name to its checker. Nil checkers are
// reported as "disabled" and do not degrade the status.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler pings every dependency with a shared 2s deadline and answers
// 503 when any of them fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			checker := checks[name]
			switch {
			case checker == nil:
				resp.Checks[name] = "disabled"
			case checker.Ping(ctx) != nil:
				resp.Checks[name] = "unreachable"
				resp.Status = "degraded"
			default:
				resp.Checks[name] = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
