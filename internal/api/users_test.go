package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-builder/backend/pkg/models"
)

func TestUserEndpoints(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.do(t, http.MethodPost, "/api/v1/users", `{"username": "ada", "password": "lovelace"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "lovelace", "password must never be serialized")
	user := decode[models.User](t, rec)
	assert.NotEmpty(t, user.ID)

	rec = env.do(t, http.MethodPost, "/api/v1/users", `{"username": "ada", "password": "again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/users", `{"username": "grace"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/users/"+user.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", decode[models.User](t, rec).Username)

	rec = env.do(t, http.MethodGet, "/api/v1/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/login", `{"username": "ada", "password": "lovelace"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decode[models.User](t, rec).ID)

	rec = env.do(t, http.MethodPost, "/api/v1/login", `{"username": "ada", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
