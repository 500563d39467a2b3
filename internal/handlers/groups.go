package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/dto"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/mountainthreads/rental-ops/internal/utils"
	"go.uber.org/zap"
)

// GroupHandler serves the staff group API.
type GroupHandler struct {
	groups  *services.GroupService
	baseURL string
	log     *zap.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groups *services.GroupService, baseURL string, log *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groups:  groups,
		baseURL: baseURL,
		log:     log,
	}
}

// ListGroups returns active groups, or archived ones with ?archived=true.
// Supports search, status, sort and optional page/limit.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	archived := false
	if raw := c.Query("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid archived flag")
			return
		}
		archived = v
	}

	input := services.ListGroupsInput{
		Archived: archived,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
	}

	params, paginated := utils.GetPaginationParams(c)
	if paginated {
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	rows, total, err := h.groups.ListGroups(input)
	if err != nil {
		h.respondGroupError(c, err)
		return
	}

	resp := dto.GroupListResponse{Groups: dto.ToGroupDTOs(rows, h.baseURL)}
	if paginated {
		resp.Pagination = &utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// CreateGroup creates a group and its public slug.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	type CreateGroupRequest struct {
		Name            string       `json:"name"`
		LeaderName      string       `json:"leaderName"`
		LeaderEmail     string       `json:"leaderEmail"`
		Emails          []string     `json:"emails"`
		ExpectedSize    *int         `json:"expectedSize"`
		Notes           string       `json:"notes"`
		RentalStartDate *models.Date `json:"rentalStartDate"`
		RentalEndDate   *models.Date `json:"rentalEndDate"`
		SkiResort       *string      `json:"skiResort"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groups.CreateGroup(services.CreateGroupInput{
		Name:            req.Name,
		LeaderName:      req.LeaderName,
		LeaderEmail:     req.LeaderEmail,
		Emails:          req.Emails,
		ExpectedSize:    req.ExpectedSize,
		Notes:           req.Notes,
		RentalStartDate: req.RentalStartDate,
		RentalEndDate:   req.RentalEndDate,
		SkiResort:       req.SkiResort,
	})
	if err != nil {
		h.respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group, 0, h.baseURL))
}

// GetGroup returns a group with its submissions and crews.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groups.GetGroup(c.Param("id"))
	if err != nil {
		h.respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(*group, h.baseURL))
}

// UpdateGroup applies a partial update. Unknown keys are ignored and null
// clears the optional trip fields.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := decodeGroupPatch(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	group, err := h.groups.UpdateGroup(c.Param("id"), input)
	if err != nil {
		h.respondGroupError(c, err)
		return
	}

	h.respondWithGroup(c, group)
}

// DeleteGroup removes a group with its submissions and crews.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	if err := h.groups.DeleteGroup(c.Param("id")); err != nil {
		h.respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Group deleted successfully",
	})
}

// ArchiveGroup closes a group's public forms.
func (h *GroupHandler) ArchiveGroup(c *gin.Context) {
	group, err := h.groups.ArchiveGroup(c.Param("id"))
	if err != nil {
		h.respondGroupError(c, err)
		return
	}
	h.respondWithGroup(c, group)
}

// RestoreGroup reopens an archived group.
func (h *GroupHandler) RestoreGroup(c *gin.Context) {
	group, err := h.groups.RestoreGroup(c.Param("id"))
	if err != nil {
		h.respondGroupError(c, err)
		return
	}
	h.respondWithGroup(c, group)
}

// Stats returns the dashboard counters.
func (h *GroupHandler) Stats(c *gin.Context) {
	stats, err := h.groups.DashboardStats()
	if err != nil {
		h.respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsDTO(stats.GroupStats, stats.RecentGroups, h.baseURL))
}

// respondWithGroup writes a group with a fresh submission count.
func (h *GroupHandler) respondWithGroup(c *gin.Context, group *models.Group) {
	count, err := h.groups.SubmissionCount(group.ID)
	if err != nil {
		h.respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupDTO(*group, count, h.baseURL))
}

// decodeGroupPatch reads the allow-listed keys of a PATCH body.
func decodeGroupPatch(raw map[string]json.RawMessage) (services.UpdateGroupInput, error) {
	var in services.UpdateGroupInput
	var err error

	if in.Name, _, err = patchField[string](raw, "name"); err != nil {
		return in, err
	}
	if in.Notes, _, err = patchField[string](raw, "notes"); err != nil {
		return in, err
	}
	if in.Paid, _, err = patchField[bool](raw, "paid"); err != nil {
		return in, err
	}
	if in.PickedUp, _, err = patchField[bool](raw, "pickedUp"); err != nil {
		return in, err
	}
	if in.Returned, _, err = patchField[bool](raw, "returned"); err != nil {
		return in, err
	}
	if in.Archived, _, err = patchField[bool](raw, "archived"); err != nil {
		return in, err
	}
	if in.Emails, _, err = patchField[[]string](raw, "emails"); err != nil {
		return in, err
	}
	if in.LeaderName, _, err = patchField[string](raw, "leaderName"); err != nil {
		return in, err
	}
	if in.LeaderEmail, _, err = patchField[string](raw, "leaderEmail"); err != nil {
		return in, err
	}
	if in.ExpectedSize, in.ClearExpectedSize, err = patchField[int](raw, "expectedSize"); err != nil {
		return in, err
	}
	if in.RentalStartDate, in.ClearRentalStartDate, err = patchField[models.Date](raw, "rentalStartDate"); err != nil {
		return in, err
	}
	if in.RentalEndDate, in.ClearRentalEndDate, err = patchField[models.Date](raw, "rentalEndDate"); err != nil {
		return in, err
	}
	if in.SkiResort, in.ClearSkiResort, err = patchField[string](raw, "skiResort"); err != nil {
		return in, err
	}

	return in, nil
}

// patchField decodes one key of a PATCH body. An absent key yields nil;
// an explicit null yields nil with isNull set.
func patchField[T any](raw map[string]json.RawMessage, key string) (value *T, isNull bool, err error) {
	msg, ok := raw[key]
	if !ok {
		return nil, false, nil
	}
	if string(msg) == "null" {
		return nil, true, nil
	}

	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, false, fmt.Errorf("invalid value for %s", key)
	}
	return &v, false, nil
}

func (h *GroupHandler) respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		apierrors.NotFound(c, "Group not found")
	case errors.Is(err, services.ErrGroupNameRequired),
		errors.Is(err, services.ErrLeaderNameRequired),
		errors.Is(err, services.ErrLeaderEmailRequired):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrInvalidLeaderEmail),
		errors.Is(err, services.ErrInvalidGroupEmail),
		errors.Is(err, services.ErrInvalidExpectedSize),
		errors.Is(err, services.ErrInvalidRentalDates),
		errors.Is(err, services.ErrInvalidGroupStatus),
		errors.Is(err, services.ErrInvalidGroupSort),
		errors.Is(err, services.ErrReturnedNotArchived):
		apierrors.BadRequest(c, err.Error())
	default:
		h.log.Error("group request failed", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
