package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/catalog"
	"github.com/mountainthreads/rental-ops/internal/dto"
	"github.com/mountainthreads/rental-ops/internal/middleware"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/mountainthreads/rental-ops/internal/wizard"
	"go.uber.org/zap"
)

// PageHandler renders the staff pages and the public forms.
type PageHandler struct {
	groups  *services.GroupService
	baseURL string
	log     *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(groups *services.GroupService, baseURL string, log *zap.Logger) *PageHandler {
	return &PageHandler{
		groups:  groups,
		baseURL: baseURL,
		log:     log,
	}
}

// Login renders the staff login page.
func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.gohtml", gin.H{
		"Title": "Log in",
		"From":  safeRedirect(c.Query("from")),
	})
}

// Dashboard renders the staff overview.
func (h *PageHandler) Dashboard(c *gin.Context) {
	stats, err := h.groups.DashboardStats()
	if err != nil {
		h.ServerError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.gohtml", gin.H{
		"Title": "Dashboard",
		"Staff": true,
		"Stats": dto.ToDashboardStatsDTO(stats.GroupStats, stats.RecentGroups, h.baseURL),
	})
}

// Groups renders the active or archived group list.
func (h *PageHandler) Groups(archived bool) gin.HandlerFunc {
	title := "Groups"
	if archived {
		title = "Archived groups"
	}

	return func(c *gin.Context) {
		input := services.ListGroupsInput{
			Archived: archived,
			Search:   c.Query("search"),
			Status:   c.Query("status"),
			Sort:     c.Query("sort"),
		}

		rows, _, err := h.groups.ListGroups(input)
		if errors.Is(err, services.ErrInvalidGroupStatus) || errors.Is(err, services.ErrInvalidGroupSort) {
			input.Status, input.Sort = "", ""
			rows, _, err = h.groups.ListGroups(input)
		}
		if err != nil {
			h.ServerError(c, err)
			return
		}

		c.HTML(http.StatusOK, "groups.gohtml", gin.H{
			"Title":    title,
			"Staff":    true,
			"Archived": archived,
			"Groups":   dto.ToGroupDTOs(rows, h.baseURL),
			"Search":   input.Search,
			"Status":   input.Status,
			"Sort":     input.Sort,
			"Statuses": []models.GroupStage{models.StageUnpaid, models.StagePaid, models.StagePickedUp, models.StageReturned},
			"Sorts": []repository.GroupSort{
				repository.SortNewest, repository.SortOldest, repository.SortNameAsc,
				repository.SortNameDesc, repository.SortDeparture, repository.SortSubmissions,
			},
		})
	}
}

// GroupDetail renders one group with its submissions.
func (h *PageHandler) GroupDetail(c *gin.Context) {
	group, err := h.groups.GetGroup(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrGroupNotFound) {
			h.NotFound(c)
			return
		}
		h.ServerError(c, err)
		return
	}

	c.HTML(http.StatusOK, "group_detail.gohtml", gin.H{
		"Title": group.Name,
		"Staff": true,
		"Group": dto.ToGroupDetailDTO(*group, h.baseURL),
	})
}

// PublicForm renders the member or leader form of the group loaded by
// middleware.LoadGroupBySlug. Archived groups show the closed page.
func (h *PageHandler) PublicForm(leader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, ok := middleware.GetGroup(c)
		if !ok {
			h.NotFound(c)
			return
		}

		if !group.AcceptsSubmissions() {
			c.HTML(http.StatusOK, "closed.gohtml", gin.H{
				"Title":     group.Name,
				"GroupName": group.Name,
			})
			return
		}

		prefill := wizard.PrefillLeader(group.LeaderName, group.LeaderEmail)
		c.HTML(http.StatusOK, "form.gohtml", gin.H{
			"Title":           group.Name,
			"Group":           dto.ToGroupDTO(*group, 0, h.baseURL),
			"Leader":          leader,
			"LeaderFirstName": prefill.FirstName,
			"LeaderLastName":  prefill.LastName,
			"PaymentOptions":  catalog.PaymentOptions,
		})
	}
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.gohtml", gin.H{
		"Title":   "Not found",
		"Message": "We couldn't find that page.",
	})
}

// ServerError logs err and renders the 500 page.
func (h *PageHandler) ServerError(c *gin.Context, err error) {
	h.log.Error("page render failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.gohtml", gin.H{"Title": "Error"})
}

// safeRedirect keeps only same-site absolute paths.
func safeRedirect(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return ""
	}
	return from
}

var errGroupLookup = errors.New("group lookup failed")
