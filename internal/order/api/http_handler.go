package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/order/service"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/httperr"
)

type OrderHandler struct {
	orderService service.OrderService
	verifier     auth.Verifier
}

func NewOrderHandler(s service.OrderService, v auth.Verifier) *OrderHandler {
	return &OrderHandler{orderService: s, verifier: v}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orderRoutes := router.Group("/orders", auth.RequireAuth(h.verifier))
	{
		orderRoutes.POST("", h.CreateOrder)
		orderRoutes.GET("/mine", h.GetMyOrders)
		orderRoutes.PATCH("/:id/cancel", h.CancelOrder)

		admin := orderRoutes.Group("", auth.RequireRole(auth.RoleAdmin))
		admin.GET("", h.ListOrders)
		admin.PATCH("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)

	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	id, err := h.orderService.CreateOrder(c.Request.Context(), caller.UserID, req)
	if err != nil {
		httperr.Respond(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, domain.CreateOrderResponse{ID: id})
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	orders, err := h.orderService.GetMyOrders(c.Request.Context(), caller.UserID)
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	orderID := c.Param("id")
	if err := h.orderService.CancelOrder(c.Request.Context(), orderID, caller.UserID); err != nil {
		httperr.Respond(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, domain.StatusResponse{ID: orderID, Status: domain.StatusCancelled})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("search"), caller.Role)
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	orderID := c.Param("id")
	status, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status, caller.Role)
	if err != nil {
		httperr.Respond(c, err, "Failed to update order status")
		return
	}
	c.JSON(http.StatusOK, domain.StatusResponse{ID: orderID, Status: status})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.orderService.SoftDeleteOrder(c.Request.Context(), c.Param("id"), caller.Role); err != nil {
		httperr.Respond(c, err, "Failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}
