package amenity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-services/internal/adapter/web"
	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// Handler handles HTTP requests for the amenity service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new amenity handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the amenity endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/amenities", h.ListAmenities)
	r.POST("/amenities", h.CreateAmenity)

	orders := r.Group("/amenity-orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/history", h.GetHistory)
	orders.PATCH("/:id/assign", h.AssignOrder)
	orders.PATCH("/:id/status", h.UpdateStatus)
	orders.PATCH("/:id/complete", h.CompleteOrder)
}

// ListAmenities handles GET /amenities. Only available entries are listed
// unless available=false is passed, which lists everything.
func (h *Handler) ListAmenities(c *gin.Context) {
	var filter models.CatalogFilter
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}

	available := true
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			web.WriteError(c, http.StatusBadRequest, "available must be true or false")
			return
		}
		available = v
	}
	if available {
		filter.Available = &available
	}

	amenities, err := h.service.ListAmenities(c.Request.Context(), filter)
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

// CreateAmenity handles POST /amenities
func (h *Handler) CreateAmenity(c *gin.Context) {
	var req models.CreateAmenityRequest
	if !web.Bind(c, &req) {
		return
	}

	a, err := h.service.CreateAmenity(c.Request.Context(), &req, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// CreateOrder handles POST /amenity-orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateAmenityOrderRequest
	if !web.Bind(c, &req) {
		return
	}

	o, err := h.service.CreateOrder(c.Request.Context(), &req, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_order_failed", err)
		return
	}

	c.JSON(http.StatusOK, models.AmenityOrderCreated{
		OrderID:     o.ID,
		AmenityName: o.AmenityName,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Message:     "Amenity order created successfully",
	})
}

// GetOrder handles GET /amenity-orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ListOrders handles GET /amenity-orders?guest_id=&status=
func (h *Handler) ListOrders(c *gin.Context) {
	var filter models.OrderFilter
	if guestID := c.Query("guest_id"); guestID != "" {
		filter.GuestID = &guestID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	orders, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetHistory handles GET /amenity-orders/:id/history
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// AssignOrder handles PATCH /amenity-orders/:id/assign
func (h *Handler) AssignOrder(c *gin.Context) {
	var req models.AssignOrderRequest
	if !web.Bind(c, &req) {
		return
	}

	o, err := h.service.Assign(c.Request.Context(), c.Param("id"), req.StaffID, req.StaffName, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_assign_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus handles PATCH /amenity-orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if !web.Bind(c, &req) {
		return
	}

	o, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// CompleteOrder handles PATCH /amenity-orders/:id/complete. The body is optional.
func (h *Handler) CompleteOrder(c *gin.Context) {
	var req models.CompleteOrderRequest
	if c.Request.ContentLength > 0 && !web.Bind(c, &req) {
		return
	}

	o, err := h.service.Complete(c.Request.Context(), c.Param("id"), req.Notes, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "amenity_complete_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}
