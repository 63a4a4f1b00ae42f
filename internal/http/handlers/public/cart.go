package public

import (
	"strconv"

	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	ModelID   uint `json:"model_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GetCart 获取当前用户购物车明细，逐项联结商品现价并实时合计
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	detail, err := h.CartService.GetCartDetail(userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, detail)
}

// AddCartItem 向购物车追加商品项
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	item, err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:    userID,
		ProductID: req.ProductID,
		ModelID:   req.ModelID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, item)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "购物车项 ID 非法", nil)
		return
	}

	if err := h.CartService.RemoveItem(userID, uint(itemID)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}
