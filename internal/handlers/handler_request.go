package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// requestHandler handles HTTP requests for the equipment request workflow.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

// registerRequestRoutes registers workflow routes. Any authenticated user can
// submit and read their own requests; transitions require staff.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := &requestHandler{requestService: requestService}

	requests := rg.Group("/requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)

		requests.POST("/:id/approve", middleware.StaffRequired(), h.approveRequest)
		requests.POST("/:id/reject", middleware.StaffRequired(), h.rejectRequest)
		requests.POST("/:id/checkout", middleware.StaffRequired(), h.checkoutRequest)
		requests.POST("/:id/checkin", middleware.StaffRequired(), h.checkInRequest)
	}
}

// caller builds the authenticated identity acting on the workflow.
func caller(c *gin.Context) (portssvc.Caller, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return portssvc.Caller{}, false
	}
	return portssvc.Caller{UserID: userID, IsStaff: middleware.GetIsStaffFromContext(c)}, true
}

// createRequest godoc
// @Summary Submit an equipment request
// @Description Creates a PENDING request after validating every line against current availability; all-or-nothing
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request lines"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} map[string]string "Validation failure, including insufficient stock"
// @Failure 409 {object} map[string]string "Duplicate item line"
// @Security BearerAuth
// @Router /requests [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

// getRequest godoc
// @Summary Get a request
// @Description Retrieves a request with its lines and checkout logs; non-staff callers see only their own
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	who, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"), who)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve request")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// listRequests godoc
// @Summary List requests
// @Description Lists request headers, newest first; non-staff callers are pinned to their own
// @Tags requests
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListRequestsResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Security BearerAuth
// @Router /requests [get]
func (h *requestHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	who, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.requestService.ListRequests(c.Request.Context(), params, who)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// approveRequest godoc
// @Summary Approve a request
// @Description Transitions PENDING to APPROVED after re-validating stock under row locks
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} map[string]string "Insufficient stock"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /requests/{id}/approve [post]
func (h *requestHandler) approveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.ApproveRequest(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve request")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// rejectRequest godoc
// @Summary Reject a request
// @Description Transitions PENDING or APPROVED to REJECTED, recording the reason
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param reason body dto.RejectRequestRequest true "Rejection reason"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /requests/{id}/reject [post]
func (h *requestHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.RejectRequest(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject request")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// checkoutRequest godoc
// @Summary Check out a request
// @Description Transitions APPROVED to CHECKED_OUT, creating one log row per physical unit
// @Tags requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /requests/{id}/checkout [post]
func (h *requestHandler) checkoutRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.CheckoutRequest(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check out request")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// checkInRequest godoc
// @Summary Check in returned units
// @Description Closes a batch of open log rows and settles the request on PARTIAL_RETURN or RETURNED
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param batch body dto.CheckInRequest true "Units and their return conditions"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} map[string]string "Bad log reference or return status"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Illegal transition"
// @Security BearerAuth
// @Router /requests/{id}/checkin [post]
func (h *requestHandler) checkInRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CheckInRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.requestService.CheckInRequest(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check in units")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}
