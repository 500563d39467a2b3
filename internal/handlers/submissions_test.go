package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/dto"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustData(t *testing.T, raw string) models.SubmissionData {
	t.Helper()
	var d models.SubmissionData
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func submissionBody(groupID string, extra map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"groupId": groupID,
		"data": map[string]string{
			"firstName":    "Robin",
			"lastName":     "Tyson",
			"clothingType": "womens",
			"jacketSize":   "M",
			"pantSize":     "S",
			"handwearType": "mittens",
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestSubmissionHandler_Create(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Tyson Family")

	w := env.do(t, http.MethodPost, "/api/submissions", submissionBody(group.ID, map[string]interface{}{
		"email":        "robin@example.com",
		"isCrewLeader": true,
		"crewName":     "Tysons",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	sub := decode[dto.SubmissionDTO](t, w)
	assert.Equal(t, group.ID, sub.GroupID)
	require.NotNil(t, sub.CrewID)
	require.NotNil(t, sub.Email)
	assert.Equal(t, "robin@example.com", *sub.Email)
	assert.Equal(t, "womens", string(sub.Data.ClothingType()))

	w = env.do(t, http.MethodPost, "/api/submissions", submissionBody(group.ID, map[string]interface{}{
		"crewId": *sub.CrewID,
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, *sub.CrewID, *decode[dto.SubmissionDTO](t, w).CrewID)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.Crew{}))
}

func TestSubmissionHandler_Idempotency(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Ski Club")

	w := env.do(t, http.MethodPost, "/api/submissions", submissionBody(group.ID, nil), withHeader(constants.IdempotencyHeader, "abc-0"))
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[dto.SubmissionDTO](t, w)

	w = env.do(t, http.MethodPost, "/api/submissions", submissionBody(group.ID, map[string]interface{}{
		"idempotencyKey": "abc-0",
	}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[dto.SubmissionDTO](t, w).ID)
	assert.Equal(t, int64(1), countRows(t, env.db, &models.FormSubmission{}))
}

func TestSubmissionHandler_ArchivedGroupRejects(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Ski Club")
	_, err := env.groups.ArchiveGroup(group.ID)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/submissions", submissionBody(group.ID, map[string]interface{}{"isCrewLeader": true}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"This group is no longer accepting submissions","code":"GROUP_CLOSED"}`, w.Body.String())
	assert.Zero(t, countRows(t, env.db, &models.FormSubmission{}))
	assert.Zero(t, countRows(t, env.db, &models.Crew{}))
}

func TestSubmissionHandler_CreateErrors(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Ski Club")

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"unknown group", submissionBody("missing", nil), http.StatusNotFound},
		{"missing group id", map[string]interface{}{"data": map[string]string{"clothingType": "mens"}}, http.StatusBadRequest},
		{"unknown clothing type", map[string]interface{}{
			"groupId": group.ID,
			"data":    map[string]string{"firstName": "A", "lastName": "B", "clothingType": "alien"},
		}, http.StatusBadRequest},
		{"size outside table", map[string]interface{}{
			"groupId": group.ID,
			"data":    map[string]string{"firstName": "A", "lastName": "B", "clothingType": "mens", "pantSize": "34"},
		}, http.StatusBadRequest},
		{"crew from elsewhere", submissionBody(group.ID, map[string]interface{}{"crewId": "not-a-crew"}), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/submissions", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, countRows(t, env.db, &models.FormSubmission{}))
}

func TestSubmissionHandler_UpdateAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Ski Club")

	result, err := env.submissions.Submit(services.SubmitInput{
		GroupID:      group.ID,
		Data:         mustData(t, `{"firstName":"A","lastName":"B","clothingType":"mens"}`),
		IsCrewLeader: true,
	})
	require.NoError(t, err)
	id := result.Submission.ID
	path := "/api/submissions/" + id

	w := env.do(t, http.MethodPatch, path, `{"paysSeparately": true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPatch, path, `{"crewId": null, "paysSeparately": true}`, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.SubmissionDTO](t, w)
	assert.Nil(t, updated.CrewID)
	assert.True(t, updated.PaysSeparately)

	w = env.do(t, http.MethodPatch, path, `{"data": {"firstName":"A","lastName":"B","clothingType":"toddler","toddlerSetSize":"3T"}}`, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "toddler", string(decode[dto.SubmissionDTO](t, w).Data.ClothingType()))

	w = env.do(t, http.MethodPatch, path, `{"unrelated": 1}`, asAdmin(env))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, asAdmin(env))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPatch, path, `{"paysSeparately": false}`, asAdmin(env))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrewHandler(t *testing.T) {
	env := setupTestEnv(t)
	group := env.createGroup(t, "Ski Club")

	result, err := env.submissions.Submit(services.SubmitInput{
		GroupID:      group.ID,
		Data:         mustData(t, `{"firstName":"A","lastName":"B","clothingType":"mens"}`),
		IsCrewLeader: true,
	})
	require.NoError(t, err)
	crewPath := "/api/crews/" + *result.Submission.CrewID

	w := env.do(t, http.MethodPatch, crewPath, `{"name": "  Powder Hounds "}`, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code)
	crew := decode[dto.CrewDTO](t, w)
	require.NotNil(t, crew.Name)
	assert.Equal(t, "Powder Hounds", *crew.Name)

	w = env.do(t, http.MethodPatch, crewPath, `{"name": null}`, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[dto.CrewDTO](t, w).Name)

	w = env.do(t, http.MethodDelete, crewPath, nil, asAdmin(env))
	require.Equal(t, http.StatusOK, w.Code)

	var sub models.FormSubmission
	require.NoError(t, env.db.First(&sub, "id = ?", result.Submission.ID).Error)
	assert.Nil(t, sub.CrewID)

	w = env.do(t, http.MethodDelete, crewPath, nil, asAdmin(env))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cat := decode[dto.CatalogDTO](t, w)
	assert.Len(t, cat.ClothingTypes, 4)
	assert.Empty(t, cat.Sizes["toddler"].Pant)
	assert.NotEmpty(t, cat.Sizes["toddler"].ToddlerSet)
	assert.NotEmpty(t, cat.Sizes["youth"].Bib)
	assert.Len(t, cat.Sizes["youth"].Helmet, 2)

	w = env.do(t, http.MethodGet, "/api/catalog/size-guides/mens/jacket", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/catalog/size-guides/toddler/jacket", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
