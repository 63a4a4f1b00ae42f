package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/repository"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 管理端订单列表，支持按状态与厂商交易编号筛选
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:            page,
		PageSize:        pageSize,
		Status:          strings.TrimSpace(c.Query("status")),
		MerchantTradeNo: strings.TrimSpace(c.Query("merchant_trade_no")),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil && userID > 0 {
		filter.UserID = uint(userID)
	}

	orders, total, err := h.OrderService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "订单列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 管理端订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 非法", nil)
		return
	}

	order, err := h.OrderService.GetByID(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, service.ErrOrderNotFound.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "订单获取失败", err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 管理端更新订单状态。同状态幂等，已付款订单不允许改回未付款
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 非法", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(uint(orderID), strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, service.ErrOrderNotFound.Error(), nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeConflict, service.ErrOrderStatusInvalid.Error(), nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, service.ErrInvalidInput.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "订单状态更新失败", err)
		}
		return
	}
	response.Success(c, order)
}
