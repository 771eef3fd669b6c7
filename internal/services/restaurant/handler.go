package restaurant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-services/internal/adapter/web"
	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// Handler handles HTTP requests for the restaurant service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new restaurant handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the menu, order and reservation endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/menu", h.GetMenu)
	r.POST("/menu/items", h.CreateMenuItem)

	orders := r.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/history", h.GetHistory)
	orders.PATCH("/:id/status", h.UpdateStatus)

	reservations := r.Group("/table-reservations")
	reservations.POST("", h.CreateReservation)
	reservations.GET("", h.ListReservations)
	reservations.GET("/:id", h.GetReservation)
}

// GetMenu handles GET /menu
func (h *Handler) GetMenu(c *gin.Context) {
	categories, err := h.service.Menu(c.Request.Context())
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateMenuItem handles POST /menu/items
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req models.CreateMenuItemRequest
	if !web.Bind(c, &req) {
		return
	}

	m, err := h.service.CreateMenuItem(c.Request.Context(), &req, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "menu_item_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.CreateRestaurantOrderRequest
	if !web.Bind(c, &req) {
		return
	}

	o, err := h.service.CreateOrder(c.Request.Context(), &req, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "order_create_failed", err)
		return
	}

	c.JSON(http.StatusOK, models.RestaurantOrderCreated{
		OrderID:                  o.ID,
		Status:                   string(o.Status),
		TotalAmount:              o.TotalAmount,
		Currency:                 Currency,
		EstimatedPreparationTime: o.EstimatedPreparationTime,
		Message:                  "Order received successfully",
	})
}

// GetOrder handles GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ListOrders handles GET /orders?guest_id=&status=
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

// GetHistory handles GET /orders/:id/history
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if !web.Bind(c, &req) {
		return
	}

	o, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "order_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// CreateReservation handles POST /table-reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if !web.Bind(c, &req) {
		return
	}

	r, err := h.service.Reserve(c.Request.Context(), &req, web.RequestID(c))
	if err != nil {
		web.WriteServiceError(c, h.logger, "reservation_failed", err)
		return
	}

	c.JSON(http.StatusOK, models.ReservationCreated{
		ReservationID: r.ID,
		TableNumber:   r.TableNumber,
		Status:        string(r.Status),
		Message:       "Table reserved successfully",
	})
}

// GetReservation handles GET /table-reservations/:id
func (h *Handler) GetReservation(c *gin.Context) {
	r, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListReservations handles GET /table-reservations?guest_id=
func (h *Handler) ListReservations(c *gin.Context) {
	var filter models.ReservationFilter
	if guestID := c.Query("guest_id"); guestID != "" {
		filter.GuestID = &guestID
	}

	reservations, err := h.service.ListReservations(c.Request.Context(), filter)
	if err != nil {
		web.WriteServiceError(c, h.logger, "db_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}
