package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListWorkflowsParams defines parameters for ListWorkflows.
type ListWorkflowsParams struct {
	// Active filters on the isActive flag when set.
	Active *bool `form:"active,omitempty" json:"active,omitempty"`
}

// ListNodeTypesParams defines parameters for ListNodeTypes.
type ListNodeTypesParams struct {
	// Category restricts the catalog to trigger, action or transform.
	Category *string `form:"category,omitempty" json:"category,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /workflows)
	ListWorkflows(ctx echo.Context, params ListWorkflowsParams) error
	// (POST /workflows)
	CreateWorkflow(ctx echo.Context) error
	// (GET /workflows/{id})
	GetWorkflow(ctx echo.Context, id string) error
	// (PUT /workflows/{id}) and (PATCH /workflows/{id})
	UpdateWorkflow(ctx echo.Context, id string) error
	// (DELETE /workflows/{id})
	DeleteWorkflow(ctx echo.Context, id string) error
	// (POST /workflows/{id}/execute)
	ExecuteWorkflow(ctx echo.Context, id string) error
	// (POST /workflows/{id}/pause)
	PauseWorkflow(ctx echo.Context, id string) error
	// (POST /workflows/{id}/stop)
	StopWorkflow(ctx echo.Context, id string) error
	// (GET /workflows/{id}/execution)
	GetExecution(ctx echo.Context, id string) error
	// (POST /workflows/{id}/validate)
	ValidateWorkflow(ctx echo.Context, id string) error
	// (GET /node-types)
	ListNodeTypes(ctx echo.Context, params ListNodeTypesParams) error
	// (GET /node-types/{type})
	GetNodeType(ctx echo.Context, nodeType string) error
	// (POST /users)
	CreateUser(ctx echo.Context) error
	// (GET /users/{id})
	GetUser(ctx echo.Context, id string) error
	// (POST /login)
	Login(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListWorkflows converts echo context to params.
func (w *ServerInterfaceWrapper) ListWorkflows(ctx echo.Context) error {
	var params ListWorkflowsParams

	err := runtime.BindQueryParameter("form", true, false, "active", ctx.QueryParams(), &params.Active)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter active: %s", err))
	}

	return w.Handler.ListWorkflows(ctx, params)
}

// ListNodeTypes converts echo context to params.
func (w *ServerInterfaceWrapper) ListNodeTypes(ctx echo.Context) error {
	var params ListNodeTypesParams

	err := runtime.BindQueryParameter("form", true, false, "category", ctx.QueryParams(), &params.Category)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter category: %s", err))
	}

	return w.Handler.ListNodeTypes(ctx, params)
}

// pathParam binds a required simple-style path parameter before calling next.
func pathParam(name string, next func(echo.Context, string) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var value string

		err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		}

		return next(ctx, value)
	}
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/workflows", wrapper.ListWorkflows)
	router.POST(baseURL+"/workflows", si.CreateWorkflow)
	router.GET(baseURL+"/workflows/:id", pathParam("id", si.GetWorkflow))
	router.PUT(baseURL+"/workflows/:id", pathParam("id", si.UpdateWorkflow))
	router.PATCH(baseURL+"/workflows/:id", pathParam("id", si.UpdateWorkflow))
	router.DELETE(baseURL+"/workflows/:id", pathParam("id", si.DeleteWorkflow))
	router.POST(baseURL+"/workflows/:id/execute", pathParam("id", si.ExecuteWorkflow))
	router.POST(baseURL+"/workflows/:id/pause", pathParam("id", si.PauseWorkflow))
	router.POST(baseURL+"/workflows/:id/stop", pathParam("id", si.StopWorkflow))
	router.GET(baseURL+"/workflows/:id/execution", pathParam("id", si.GetExecution))
	router.POST(baseURL+"/workflows/:id/validate", pathParam("id", si.ValidateWorkflow))
	router.GET(baseURL+"/node-types", wrapper.ListNodeTypes)
	router.GET(baseURL+"/node-types/:type", pathParam("type", si.GetNodeType))
	router.POST(baseURL+"/users", si.CreateUser)
	router.GET(baseURL+"/users/:id", pathParam("id", si.GetUser))
	router.POST(baseURL+"/login", si.Login)
}
