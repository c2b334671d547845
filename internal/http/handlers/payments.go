package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
	"transitbook/internal/http/middleware"
)

type paymentInitRequest struct {
	Method         string `json:"method"`
	IsSplitPayment bool   `json:"isSplitPayment,omitempty"`
}

// POST /api/wizard/session/payment
func InitializePayment(c *gin.Context) {
	var req paymentInitRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	svc := newWizardService(c)
	reference, err := svc.InitializePayment(c.Request.Context(), middleware.GetSessionID(c), req.Method, req.IsSplitPayment)
	if err != nil {
		// an expired seat hold is tagged so the UI restarts seat selection
		if domain.IsConflict(err) && strings.Contains(err.Error(), "seat") {
			c.JSON(http.StatusConflict, gin.H{
				"error":      err.Error(),
				"code":       "conflict",
				"kind":       models.PaymentErrSeatExpired,
				"request_id": middleware.GetRequestID(c),
			})
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reference": reference})
}

// GET /api/wizard/session/payment/result
//
// Long-polls until the widget resolves or the orchestrator's timeout fires;
// wire timeouts on this route must exceed the payment timeout.
func PaymentResult(c *gin.Context) {
	svc := newWizardService(c)
	result, err := svc.AwaitPaymentResult(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// POST /api/payments/:reference/callback
//
// Widget-facing: the provider redirect/callback carries only the reference.
func PaymentCallback(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" || !orchestrator.NotifySuccess(reference) {
		respondError(c, http.StatusNotFound, "unknown_reference", "no pending payment for reference", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// POST /api/payments/:reference/cancel
func PaymentCancel(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" || !orchestrator.NotifyCancel(reference) {
		respondError(c, http.StatusNotFound, "unknown_reference", "no pending payment for reference", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
