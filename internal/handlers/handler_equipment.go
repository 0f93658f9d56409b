package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fikiricreative/fikiri_ops_app/internal/core/ports/services"
	"github.com/fikiricreative/fikiri_ops_app/internal/dto"
	"github.com/fikiricreative/fikiri_ops_app/internal/middleware"
)

// equipmentHandler handles HTTP requests for the inventory ledger.
type equipmentHandler struct {
	equipmentService portssvc.EquipmentSvcFacade
}

// registerEquipmentRoutes registers inventory routes. Reads are open to every
// authenticated user; mutations and the repair center require staff.
func registerEquipmentRoutes(rg *gin.RouterGroup, equipmentService portssvc.EquipmentSvcFacade) {
	h := &equipmentHandler{equipmentService: equipmentService}

	equipment := rg.Group("/equipment")
	{
		equipment.GET("/categories", h.listCategories)
		equipment.POST("/categories", middleware.StaffRequired(), h.createCategory)

		equipment.GET("/items", h.listItems)
		equipment.GET("/items/:id", h.getItem)
		equipment.POST("/items", middleware.StaffRequired(), h.createItem)
		equipment.PUT("/items/:id", middleware.StaffRequired(), h.updateItem)

		equipment.GET("/damaged", middleware.StaffRequired(), h.listDamagedLogs)
		equipment.POST("/damaged/:logID/repair", middleware.StaffRequired(), h.repairLog)
	}
}

// createCategory godoc
// @Summary Create an equipment category
// @Tags equipment
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Category name taken"
// @Security BearerAuth
// @Router /equipment/categories [post]
func (h *equipmentHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.equipmentService.CreateCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List equipment categories
// @Tags equipment
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /equipment/categories [get]
func (h *equipmentHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categories, err := h.equipmentService.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list categories")
		return
	}

	out := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		out[i] = dto.ToCategoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, out)
}

// createItem godoc
// @Summary Add an equipment item
// @Description Adds an item to the master list; the full quantity starts available
// @Tags equipment
// @Accept json
// @Produce json
// @Param item body dto.CreateItemRequest true "Item details"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /equipment/items [post]
func (h *equipmentHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.equipmentService.CreateItem(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// updateItem godoc
// @Summary Update an equipment item
// @Tags equipment
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body dto.UpdateItemRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /equipment/items/{id} [put]
func (h *equipmentHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.equipmentService.UpdateItem(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// getItem godoc
// @Summary Get an equipment item
// @Description Retrieves an item with freshly derived committed/damaged/available quantities
// @Tags equipment
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /equipment/items/{id} [get]
func (h *equipmentHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	item, err := h.equipmentService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// listItems godoc
// @Summary List equipment items
// @Tags equipment
// @Produce json
// @Param categoryID query string false "Filter by category"
// @Success 200 {array} dto.ItemResponse
// @Security BearerAuth
// @Router /equipment/items [get]
func (h *equipmentHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var categoryID *string
	if v := c.Query("categoryID"); v != "" {
		categoryID = &v
	}

	items, err := h.equipmentService.ListItems(c.Request.Context(), categoryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponses(items))
}

// listDamagedLogs godoc
// @Summary List damaged and lost units
// @Description Lists the checkout log rows currently holding units out of circulation
// @Tags equipment
// @Produce json
// @Success 200 {array} dto.CheckoutLogResponse
// @Security BearerAuth
// @Router /equipment/damaged [get]
func (h *equipmentHandler) listDamagedLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	logs, err := h.equipmentService.ListDamagedLogs(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list damaged units")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckoutLogResponses(logs))
}

// repairLog godoc
// @Summary Repair a damaged or lost unit
// @Description Deletes the DAMAGED/LOST log row, returning the unit to the available pool
// @Tags equipment
// @Produce json
// @Param logID path string true "Checkout log ID"
// @Success 204 "Unit returned to pool"
// @Failure 400 {object} map[string]string "Log is not DAMAGED/LOST"
// @Failure 404 {object} map[string]string "Log not found"
// @Security BearerAuth
// @Router /equipment/damaged/{logID}/repair [post]
func (h *equipmentHandler) repairLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.equipmentService.RepairLog(c.Request.Context(), c.Param("logID"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to repair unit")
		return
	}
	c.Status(http.StatusNoContent)
}
