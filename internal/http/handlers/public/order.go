package public

import (
	"strconv"

	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 将当前购物车整体结转为订单，成功后购物车清空
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartRepo.GetByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "订单创建失败", err)
		return
	}
	if cart == nil {
		respondOrderCreateError(c, service.ErrCartNotFound)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:    userID,
		CartID:    cart.ID,
		StoreID:   cart.StoreID,
		StoreName: cart.StoreName,
		CvsType:   cart.CvsType,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMyOrders 获取当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListUserOrders(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "订单列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetMyOrder 获取当前用户订单详情，他人订单一律返回不存在
func (h *Handler) GetMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 非法", nil)
		return
	}

	order, err := h.OrderService.GetUserOrder(userID, uint(orderID))
	if err != nil {
		respondOrderFetchError(c, err)
		return
	}
	response.Success(c, order)
}
