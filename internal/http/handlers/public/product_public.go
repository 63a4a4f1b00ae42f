package public

import (
	"strconv"
	"strings"

	"github.com/mall-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取上架商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.PublicList(page, pageSize, search)
	if err != nil {
		respondError(c, response.CodeInternal, "商品列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情，下架商品视为不存在
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 非法", nil)
		return
	}

	product, err := h.ProductService.PublicGet(uint(productID))
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}
