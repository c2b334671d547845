package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitbook/internal/cache"
	intconfig "transitbook/internal/config"
	"transitbook/internal/http/middleware"
	"transitbook/internal/payment"
	"transitbook/internal/repositories"
	"transitbook/internal/services"
)

// Shared collaborators wired once at startup; services themselves are cheap
// per-request values carrying the request id.
var (
	env          intconfig.Env
	upstream     services.UpstreamAPI
	orchestrator *payment.Orchestrator
	seatCache    cache.SeatCache
)

// Configure wires the handler package's shared collaborators.
func Configure(e intconfig.Env, up services.UpstreamAPI, orch *payment.Orchestrator, sc cache.SeatCache) {
	env = e
	upstream = up
	orchestrator = orch
	seatCache = sc
}

func newWizardService(c *gin.Context) services.WizardService {
	return services.WizardService{
		Sessions:  repositories.SessionRepo{},
		Upstream:  upstream,
		SeatCache: seatCache,
		Payments:  orchestrator,
		RequestID: middleware.GetRequestID(c),
	}
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid request payload", err)
		return false
	}
	return true
}
