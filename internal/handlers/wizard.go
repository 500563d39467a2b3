package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mountainthreads/rental-ops/internal/catalog"
	"github.com/mountainthreads/rental-ops/internal/constants"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/middleware"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/mountainthreads/rental-ops/internal/wizard"
	"go.uber.org/zap"
)

// WizardHandler backs the public forms: field layouts, multi-person
// submission and draft retention after a failure.
type WizardHandler struct {
	submissions *services.SubmissionService
	log         *zap.Logger
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(submissions *services.SubmissionService, log *zap.Logger) *WizardHandler {
	return &WizardHandler{
		submissions: submissions,
		log:         log,
	}
}

// Fields returns the visible sizing fields for ?clothingType= and ?youthGender=.
func (h *WizardHandler) Fields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": wizard.Layout(
			catalog.ClothingType(c.Query("clothingType")),
			catalog.YouthGender(c.Query("youthGender")),
		),
	})
}

// Submit runs a wizard session against the group loaded by
// middleware.LoadGroupBySlug. A failed run keeps the session as a draft.
func (h *WizardHandler) Submit(c *gin.Context) {
	group, ok := middleware.GetGroup(c)
	if !ok {
		apierrors.NotFound(c, "Group not found")
		return
	}
	if !group.AcceptsSubmissions() {
		apierrors.GroupClosed(c)
		return
	}

	var session wizard.Session
	if err := c.ShouldBindJSON(&session); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if _, err := uuid.Parse(session.ID); err != nil {
		session.ID = uuid.NewString()
	}
	session.GroupID = group.ID
	session.Leader = session.Mode == wizard.ModeLeaderSelf || session.Mode == wizard.ModeLeaderCrew
	session.State = wizard.StateFilling
	session.Error = ""

	submitter := &serviceSubmitter{submissions: h.submissions}
	err := session.Run(submitter)
	switch {
	case err == nil:
		h.clearDraft(c, group.Slug)
		c.JSON(http.StatusOK, gin.H{
			"state":       session.State,
			"sessionId":   session.ID,
			"submissions": submitter.results,
		})
	case errors.Is(err, wizard.ErrSubmitFailed):
		h.saveDraft(c, group.Slug, &session)
		h.respondRunError(c, &session, err)
	default:
		apierrors.RespondWithError(c, http.StatusBadRequest, &apierrors.APIError{
			Message: err.Error(),
			Code:    apierrors.ErrCodeInvalidInput,
			Details: gin.H{"sessionId": session.ID},
		})
	}
}

// Draft returns the session kept after the last failed submit, if any.
func (h *WizardHandler) Draft(c *gin.Context) {
	group, ok := middleware.GetGroup(c)
	if !ok {
		apierrors.NotFound(c, "Group not found")
		return
	}

	var draft *wizard.Session
	if raw, ok := sessions.Default(c).Get(draftKey(group.Slug)).(string); ok {
		var s wizard.Session
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			draft = &s
		}
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *WizardHandler) respondRunError(c *gin.Context, session *wizard.Session, err error) {
	details := gin.H{"sessionId": session.ID, "session": session}
	switch {
	case errors.Is(err, services.ErrGroupClosed):
		apierrors.GroupClosed(c)
	case errors.Is(err, models.ErrInvalidSubmissionData),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrCrewNotInGroup):
		apierrors.RespondWithError(c, http.StatusBadRequest, &apierrors.APIError{
			Message: wizard.GenericErrorMessage,
			Code:    apierrors.ErrCodeInvalidInput,
			Details: details,
		})
	default:
		h.log.Error("wizard submit failed", zap.String("group_id", session.GroupID), zap.Error(err))
		apierrors.RespondWithError(c, http.StatusInternalServerError, &apierrors.APIError{
			Message: wizard.GenericErrorMessage,
			Code:    apierrors.ErrCodeInternalError,
			Details: details,
		})
	}
}

func (h *WizardHandler) saveDraft(c *gin.Context, slug string, session *wizard.Session) {
	raw, err := json.Marshal(session)
	if err != nil {
		h.log.Warn("failed to encode draft", zap.Error(err))
		return
	}
	store := sessions.Default(c)
	store.Set(draftKey(slug), string(raw))
	if err := store.Save(); err != nil {
		h.log.Warn("failed to save draft", zap.String("slug", slug), zap.Error(err))
	}
}

func (h *WizardHandler) clearDraft(c *gin.Context, slug string) {
	store := sessions.Default(c)
	if store.Get(draftKey(slug)) == nil {
		return
	}
	store.Delete(draftKey(slug))
	if err := store.Save(); err != nil {
		h.log.Warn("failed to clear draft", zap.String("slug", slug), zap.Error(err))
	}
}

func draftKey(slug string) string {
	return constants.DraftKeyPrefix + slug
}

// serviceSubmitter stores wizard requests through the submission service.
type serviceSubmitter struct {
	submissions *services.SubmissionService
	results     []submittedRow
}

type submittedRow struct {
	ID     string  `json:"id"`
	CrewID *string `json:"crewId"`
}

func (s *serviceSubmitter) Submit(req wizard.SubmitRequest) (*wizard.SubmitResponse, error) {
	key := req.IdempotencyKey
	result, err := s.submissions.Submit(services.SubmitInput{
		GroupID:        req.GroupID,
		Email:          req.Email,
		Data:           req.Data,
		IsLeader:       req.IsLeader,
		IsCrewLeader:   req.IsCrewLeader,
		CrewID:         req.CrewID,
		CrewName:       req.CrewName,
		PaysSeparately: req.PaysSeparately,
		IdempotencyKey: &key,
	})
	if err != nil {
		return nil, err
	}

	sub := result.Submission
	s.results = append(s.results, submittedRow{ID: sub.ID, CrewID: sub.CrewID})
	return &wizard.SubmitResponse{ID: sub.ID, CrewID: sub.CrewID}, nil
}
