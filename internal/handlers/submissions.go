package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/dto"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
	"go.uber.org/zap"
)

// SubmissionHandler serves the submission API.
type SubmissionHandler struct {
	submissions *services.SubmissionService
	log         *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions *services.SubmissionService, log *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		log:         log,
	}
}

// CreateSubmission stores one public form submission. A repeated
// Idempotency-Key answers 200 with the original row instead of 201.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	type CreateSubmissionRequest struct {
		GroupID        string                 `json:"groupId"`
		Email          *string                `json:"email"`
		Data           *models.SubmissionData `json:"data"`
		IsLeader       bool                   `json:"isLeader"`
		IsCrewLeader   bool                   `json:"isCrewLeader"`
		CrewID         *string                `json:"crewId"`
		CrewName       *string                `json:"crewName"`
		PaysSeparately bool                   `json:"paysSeparately"`
		IdempotencyKey *string                `json:"idempotencyKey"`
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.GroupID) == "" || req.Data == nil {
		apierrors.MissingField(c, "groupId and data are required")
		return
	}

	key := req.IdempotencyKey
	if header := c.GetHeader(constants.IdempotencyHeader); header != "" {
		key = &header
	}

	result, err := h.submissions.Submit(services.SubmitInput{
		GroupID:        req.GroupID,
		Email:          req.Email,
		Data:           *req.Data,
		IsLeader:       req.IsLeader,
		IsCrewLeader:   req.IsCrewLeader,
		CrewID:         req.CrewID,
		CrewName:       req.CrewName,
		PaysSeparately: req.PaysSeparately,
		IdempotencyKey: key,
	})
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToSubmissionDTO(*result.Submission))
}

// UpdateSubmission edits data, crewId (null detaches) or paysSeparately.
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateSubmissionInput
	var err error
	if input.Data, _, err = patchField[models.SubmissionData](raw, "data"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.CrewID, input.ClearCrew, err = patchField[string](raw, "crewId"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.PaysSeparately, _, err = patchField[bool](raw, "paysSeparately"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	submission, err := h.submissions.UpdateSubmission(c.Param("id"), input)
	if err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// DeleteSubmission removes a submission.
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	if err := h.submissions.DeleteSubmission(c.Param("id")); err != nil {
		h.respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission deleted successfully",
	})
}

func (h *SubmissionHandler) respondSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		apierrors.NotFound(c, "Group not found")
	case errors.Is(err, services.ErrSubmissionNotFound):
		apierrors.NotFound(c, "Submission not found")
	case errors.Is(err, services.ErrGroupClosed):
		apierrors.GroupClosed(c)
	case errors.Is(err, models.ErrInvalidSubmissionData),
		errors.Is(err, services.ErrCrewNotInGroup),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrIdempotencyKeyLength),
		errors.Is(err, services.ErrNoSubmissionChanges):
		apierrors.BadRequest(c, err.Error())
	default:
		h.log.Error("submission request failed", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
