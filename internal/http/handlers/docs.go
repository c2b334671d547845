package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"transitbook/internal/http/middleware"
	"transitbook/internal/services"
)

// GET /api/wizard/session/ticket.pdf
func DownloadETicket(c *gin.Context) {
	svc := services.DocsService{
		Wizard:    newWizardService(c),
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateETicket(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
