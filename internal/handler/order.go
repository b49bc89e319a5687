package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/middleware"
	"github.com/kzl/storefront-api/internal/service"
	"github.com/kzl/storefront-api/internal/stock"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.orderService.Place(c.Request.Context(), middleware.GetUserID(c), middleware.GetUserName(c), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	resp, err := h.orderService.Checkout(c.Request.Context(), middleware.GetUserID(c), middleware.GetUserName(c))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	resp, err := h.orderService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) DeleteOwn(c *gin.Context) {
	err := h.orderService.DeleteOwn(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		respondMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderMutationResponse{Success: true})
}

// --- admin ---

func (h *OrderHandler) ListAll(c *gin.Context) {
	resp, err := h.orderService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderService.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}
		respondMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderMutationResponse{Success: true})
}

func (h *OrderHandler) SetQuantity(c *gin.Context) {
	var req dto.UpdateOrderQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderService.SetQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
		respondMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderMutationResponse{Success: true})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderMutationResponse{Success: true})
}

// respondMutation maps a failed protocol operation onto the structured
// {success, message} result the clients act on. Transaction failures and
// exhausted retries surface as UNKNOWN_ERROR.
func respondMutation(c *gin.Context, err error) {
	kind := stock.Kind(err)

	status := http.StatusInternalServerError
	switch kind {
	case "INSUFFICIENT_STOCK":
		status = http.StatusConflict
	case "ORDER_NOT_FOUND", "PRODUCT_NOT_FOUND":
		status = http.StatusNotFound
	case "ORDER_MISSING_PRODUCT":
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, dto.OrderMutationResponse{Success: false, Message: kind})
}
