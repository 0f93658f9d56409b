package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// projectHandler handles HTTP requests for projects, services and payments.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	financeService portssvc.FinanceSvcFacade
}

// registerProjectRoutes registers project routes. The payment split lives here
// because it is addressed by project, even though the finance service runs it.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, financeService portssvc.FinanceSvcFacade) {
	h := &projectHandler{projectService: projectService, financeService: financeService}

	projects := rg.Group("/projects")
	{
		projects.POST("", middleware.StaffRequired(), h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:id", h.getProject)
		projects.PUT("/:id", middleware.StaffRequired(), h.updateProject)

		projects.POST("/:id/payments", middleware.StaffRequired(), h.receivePayment)

		projects.POST("/:id/allocations", middleware.StaffRequired(), h.allocateTeam)
		projects.GET("/:id/allocations", h.listAllocations)
	}

	services := rg.Group("/services")
	{
		services.POST("", middleware.StaffRequired(), h.createService)
		services.GET("", h.listServices)
	}
}

// createProject godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Match company name or contact person"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListProjectsResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListProjects", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.projectService.ListProjects(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Charges locked after payment"
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *projectHandler) updateProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// receivePayment godoc
// @Summary Receive a project payment
// @Description Runs the one-shot split of the project's charges: 10% Logistics, 15% Admin, 35% across department accounts, remainder stays on Main
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 201 {object} dto.PaymentSplitResponse
// @Failure 400 {object} map[string]string "Missing split account or no charges"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Project already paid"
// @Security BearerAuth
// @Router /projects/{id}/payments [post]
func (h *projectHandler) receivePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	split, err := h.financeService.ReceivePayment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process payment")
		return
	}
	c.JSON(http.StatusCreated, split)
}

// allocateTeam godoc
// @Summary Allocate a team member
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param allocation body dto.AllocateTeamRequest true "User to allocate"
// @Success 201 {object} dto.AllocationResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "User already allocated"
// @Security BearerAuth
// @Router /projects/{id}/allocations [post]
func (h *projectHandler) allocateTeam(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AllocateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateTeam", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allocation, err := h.projectService.AllocateTeam(c.Request.Context(), c.Param("id"), req.UserID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to allocate team member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(allocation))
}

// listAllocations godoc
// @Summary List a project's team
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} dto.AllocationResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{id}/allocations [get]
func (h *projectHandler) listAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	allocations, err := h.projectService.ListAllocations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}

	out := make([]dto.AllocationResponse, len(allocations))
	for i := range allocations {
		out[i] = dto.ToAllocationResponse(&allocations[i])
	}
	c.JSON(http.StatusOK, out)
}

// createService godoc
// @Summary Add a service offering
// @Description Creates a service, optionally attributed to a department account for the payment split
// @Tags services
// @Accept json
// @Produce json
// @Param service body dto.CreateServiceRequest true "Service details"
// @Success 201 {object} dto.ServiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Service name taken"
// @Security BearerAuth
// @Router /services [post]
func (h *projectHandler) createService(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateService", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	service, err := h.projectService.CreateService(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, dto.ToServiceResponse(service))
}

// listServices godoc
// @Summary List service offerings
// @Tags services
// @Produce json
// @Success 200 {array} dto.ServiceResponse
// @Security BearerAuth
// @Router /services [get]
func (h *projectHandler) listServices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	services, err := h.projectService.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list services")
		return
	}
	c.JSON(http.StatusOK, dto.ToServiceResponses(services))
}
