// Package api contains the HTTP handlers for the workflow builder service
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workflow-builder/backend/internal/catalog"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/services"
	"workflow-builder/backend/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflows *services.WorkflowService
	Users     *services.UserService
	Logger    *logging.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new Server.
func NewServer(workflows *services.WorkflowService, users *services.UserService, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{Workflows: workflows, Users: users, Logger: logger}
}

// ListWorkflows returns a list of all workflows in insertion order
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context, params ListWorkflowsParams) error {
	workflows, err := s.Workflows.List(c.Request().Context(), params.Active)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, workflows)
}

// CreateWorkflow creates a workflow
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	var insert models.InsertWorkflow
	if err := c.Bind(&insert); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	workflow, err := s.Workflows.Create(c.Request().Context(), insert)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, workflow)
}

// GetWorkflow returns a single workflow
// (GET /api/v1/workflows/{id})
func (s *Server) GetWorkflow(c echo.Context, id string) error {
	workflow, err := s.Workflows.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// UpdateWorkflow applies a partial update
// (PUT|PATCH /api/v1/workflows/{id})
func (s *Server) UpdateWorkflow(c echo.Context, id string) error {
	var update models.UpdateWorkflow
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	workflow, err := s.Workflows.Update(c.Request().Context(), id, update)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// DeleteWorkflow removes a workflow
// (DELETE /api/v1/workflows/{id})
func (s *Server) DeleteWorkflow(c echo.Context, id string) error {
	if err := s.Workflows.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExecuteWorkflow starts or resumes a simulated run
// (POST /api/v1/workflows/{id}/execute)
func (s *Server) ExecuteWorkflow(c echo.Context, id string) error {
	resp, err := s.Workflows.Execute(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PauseWorkflow suspends a simulated run
// (POST /api/v1/workflows/{id}/pause)
func (s *Server) PauseWorkflow(c echo.Context, id string) error {
	resp, err := s.Workflows.Pause(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// StopWorkflow terminates a simulated run
// (POST /api/v1/workflows/{id}/stop)
func (s *Server) StopWorkflow(c echo.Context, id string) error {
	resp, err := s.Workflows.Stop(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetExecution returns the current or last simulated run
// (GET /api/v1/workflows/{id}/execution)
func (s *Server) GetExecution(c echo.Context, id string) error {
	exec, err := s.Workflows.Execution(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, exec)
}

// ValidateWorkflow checks a workflow against the node catalog
// (POST /api/v1/workflows/{id}/validate)
func (s *Server) ValidateWorkflow(c echo.Context, id string) error {
	report, err := s.Workflows.Validate(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// ListNodeTypes returns the node catalog
// (GET /api/v1/node-types)
func (s *Server) ListNodeTypes(c echo.Context, params ListNodeTypesParams) error {
	cat := s.Workflows.Catalog()
	if params.Category == nil || *params.Category == "" {
		return c.JSON(http.StatusOK, cat.List())
	}

	category := catalog.Category(*params.Category)
	switch category {
	case catalog.CategoryTrigger, catalog.CategoryAction, catalog.CategoryTransform:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category: "+*params.Category)
	}
	return c.JSON(http.StatusOK, cat.ByCategory(category))
}

// GetNodeType returns a single catalog entry
// (GET /api/v1/node-types/{type})
func (s *Server) GetNodeType(c echo.Context, nodeType string) error {
	t, ok := s.Workflows.Catalog().Get(nodeType)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown node type: "+nodeType)
	}
	return c.JSON(http.StatusOK, t)
}
