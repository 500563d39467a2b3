package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
	"go.uber.org/zap"
)

const contextGroupKey = "group"

// GroupFinder looks a group up by its public slug.
type GroupFinder interface {
	GetGroupBySlug(slug string) (*models.Group, error)
}

// LoadGroupBySlug resolves the :slug parameter and stores the group in
// context. Unknown slugs go to notFound; archived groups are still loaded so
// the handler can render the closed state.
func LoadGroupBySlug(groups GroupFinder, log *zap.Logger, notFound, failed gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := groups.GetGroupBySlug(c.Param("slug"))
		if err != nil {
			if errors.Is(err, services.ErrGroupNotFound) {
				notFound(c)
			} else {
				log.Error("failed to load group by slug", zap.String("slug", c.Param("slug")), zap.Error(err))
				failed(c)
			}
			c.Abort()
			return
		}

		c.Set(contextGroupKey, group)
		c.Next()
	}
}

// GetGroup retrieves the group stored by LoadGroupBySlug
func GetGroup(c *gin.Context) (*models.Group, bool) {
	value, exists := c.Get(contextGroupKey)
	if !exists {
		return nil, false
	}
	group, ok := value.(*models.Group)
	return group, ok
}
