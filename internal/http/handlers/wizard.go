package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"transitbook/internal/auth"
	"transitbook/internal/domain/models"
	"transitbook/internal/http/middleware"
	"transitbook/internal/services"
	"transitbook/internal/wizard"
)

type createSessionRequest struct {
	// Optional quick-search payload from the hero form; when present the
	// wizard skips trip selection.
	QuickSearch *services.SearchInput `json:"quickSearch,omitempty"`
}

// POST /api/wizard/sessions
func CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	svc := newWizardService(c)
	view, err := svc.CreateSession(req.QuickSearch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	token, err := auth.MintSessionToken(env.SessionSecret, view.SessionID, env.SessionTTL)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": view, "token": token})
}

// GET /api/wizard/session
func GetSession(c *gin.Context) {
	svc := newWizardService(c)
	view, err := svc.GetSession(middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// POST /api/wizard/session/search
func SearchTrips(c *gin.Context) {
	var req services.SearchInput
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := newWizardService(c)
	view, trips, err := svc.Search(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view, "trips": trips})
}

// POST /api/wizard/session/bus
func SelectBus(c *gin.Context) {
	var req models.TripOffer
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := newWizardService(c)
	view, err := svc.SelectBus(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

type passengerRequest struct {
	models.PassengerInfo
}

// POST /api/wizard/session/passengers
func SubmitPassengers(c *gin.Context) {
	var req passengerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := newWizardService(c)
	view, err := svc.SubmitPassengers(c.Request.Context(), middleware.GetSessionID(c), req.PassengerInfo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// GET /api/wizard/session/confirmation
func Confirmation(c *gin.Context) {
	svc := newWizardService(c)
	booking, err := svc.Confirmation(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/wizard/session/next
func NextStep(c *gin.Context) {
	svc := newWizardService(c)
	view, err := svc.NextStep(middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// POST /api/wizard/session/back?confirm=true
func BackStep(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	svc := newWizardService(c)
	out, view, err := svc.BackStep(c.Request.Context(), middleware.GetSessionID(c), confirmed)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"navigation": out, "session": view})
}

// POST /api/wizard/session/step/:index
func ClickStep(c *gin.Context) {
	target, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_step", "step index must be a number", err)
		return
	}
	confirmed := c.Query("confirm") == "true"
	svc := newWizardService(c)
	out, view, err := svc.ClickStep(c.Request.Context(), middleware.GetSessionID(c), target, confirmed)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"navigation": out, "session": view})
}

// POST /api/wizard/session/reset
func ResetSession(c *gin.Context) {
	svc := newWizardService(c)
	view, err := svc.Reset(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":    view,
		"navigation": wizard.NavOutcome{Decision: wizard.DecisionHome},
	})
}
