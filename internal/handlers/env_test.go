package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/metrics"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/mountainthreads/rental-ops/internal/testutil"
	"github.com/mountainthreads/rental-ops/internal/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testBaseURL       = "http://rent.test"
	testAdminEmail    = "staff@example.com"
	testAdminPassword = "supersecret"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	metrics     *metrics.Metrics
	authService *services.AuthService
	groups      *services.GroupService
	submissions *services.SubmissionService
	adminCookie *http.Cookie
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	m := metrics.New()

	groupRepo := repository.NewGroupRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	authService := services.NewAuthService(
		repository.NewAdminRepository(db),
		auth.NewTokenManager("handler-test-secret-key", time.Hour),
	)
	groups := services.NewGroupService(groupRepo, m)
	submissions := services.NewSubmissionService(groupRepo, crewRepo, submissionRepo, m)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Auth:         authService,
		Groups:       groups,
		Submissions:  submissions,
		Crews:        services.NewCrewService(crewRepo),
		Metrics:      m,
		Log:          zap.NewNop(),
		SessionStore: cookie.NewStore([]byte("secret")),
		Templates:    tmpl,
		BaseURL:      testBaseURL,
	})

	_, err = authService.SeedAdmin(services.SeedAdminInput{
		Email:    testAdminEmail,
		Password: testAdminPassword,
		Name:     "Staff",
	})
	require.NoError(t, err)

	login, err := authService.Login(services.LoginInput{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	return testEnv{
		db:          db,
		router:      router,
		metrics:     m,
		authService: authService,
		groups:      groups,
		submissions: submissions,
		adminCookie: &http.Cookie{Name: constants.AuthCookieName, Value: login.Token},
	}
}

type requestOption func(*http.Request)

func asAdmin(env testEnv) requestOption {
	return func(r *http.Request) { r.AddCookie(env.adminCookie) }
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (e testEnv) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) createGroup(t *testing.T, name string) *models.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(services.CreateGroupInput{
		Name:        name,
		LeaderName:  "Mike Tyson",
		LeaderEmail: "mike@example.com",
	})
	require.NoError(t, err)
	return group
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["code"].(string)
}
