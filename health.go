package appctx

import (
	"net/http"
)

// HealthHandler returns a handler answering GET requests with 200 when all constructed components
// of c are healthy and with 503 otherwise. The check runs under the context's health check timeout.
func HealthHandler(c *Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if err := c.HealthCheck(r.Context()); err != nil {
			c.log.Warn("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
	})
}
