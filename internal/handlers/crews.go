package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/dto"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/services"
	"go.uber.org/zap"
)

// CrewHandler serves the crew API.
type CrewHandler struct {
	crews *services.CrewService
	log   *zap.Logger
}

// NewCrewHandler creates a new CrewHandler.
func NewCrewHandler(crews *services.CrewService, log *zap.Logger) *CrewHandler {
	return &CrewHandler{crews: crews, log: log}
}

// RenameCrew sets the crew name; null or blank clears it.
func (h *CrewHandler) RenameCrew(c *gin.Context) {
	type RenameCrewRequest struct {
		Name *string `json:"name"`
	}

	var req RenameCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	crew, err := h.crews.RenameCrew(c.Param("id"), req.Name)
	if err != nil {
		h.respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCrewDTO(*crew))
}

// DeleteCrew detaches the members and removes the crew.
func (h *CrewHandler) DeleteCrew(c *gin.Context) {
	if err := h.crews.DeleteCrew(c.Param("id")); err != nil {
		h.respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Crew deleted successfully",
	})
}

func (h *CrewHandler) respondCrewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCrewNotFound):
		apierrors.NotFound(c, "Crew not found")
	default:
		h.log.Error("crew request failed", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
