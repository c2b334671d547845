package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitbook/internal/domain"
	"transitbook/internal/http/middleware"
)

// GET /api/wizard/session/seats
func GetSeatGrid(c *gin.Context) {
	svc := newWizardService(c)
	grid, err := svc.SeatGrid(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": grid})
}

type toggleSeatRequest struct {
	SeatID int64 `json:"seatId"`
}

// POST /api/wizard/session/seats/toggle
func ToggleSeat(c *gin.Context) {
	var req toggleSeatRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := newWizardService(c)
	grid, err := svc.ToggleSeat(c.Request.Context(), middleware.GetSessionID(c), req.SeatID)
	if err != nil {
		// selection rejections still return the untouched grid so the UI can
		// show the notice without a refetch
		if domain.IsValidation(err) {
			c.JSON(http.StatusOK, gin.H{"grid": grid, "notice": err.Error()})
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": grid})
}

// POST /api/wizard/session/seats/confirm
func ConfirmSeats(c *gin.Context) {
	svc := newWizardService(c)
	view, err := svc.ConfirmSeats(middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}
