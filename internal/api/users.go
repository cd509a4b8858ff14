package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-builder/backend/pkg/models"
)

// CreateUser registers a user for the mocked forms
// (POST /api/v1/users)
func (s *Server) CreateUser(c echo.Context) error {
	var insert models.InsertUser
	if err := c.Bind(&insert); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := s.Users.Register(c.Request().Context(), insert)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser returns a single user
// (GET /api/v1/users/{id})
func (s *Server) GetUser(c echo.Context, id string) error {
	user, err := s.Users.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Login is the mocked login form: a plaintext password comparison with no
// session issued.
// (POST /api/v1/login)
func (s *Server) Login(c echo.Context) error {
	var creds models.InsertUser
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := s.Users.Login(c.Request().Context(), creds.Username, creds.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
