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

// DeleteProductsRequest 批量删除商品请求
type DeleteProductsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ListProducts 管理端商品列表，含下架商品
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.AdminList(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "商品列表获取失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 管理端商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 非法", nil)
		return
	}

	product, err := h.ProductService.AdminGet(uint(productID))
	if err != nil {
		respondProductAdminError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品（级联型号与图片）
func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.Create(req)
	if err != nil {
		respondProductAdminError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 整体更新商品及其型号与图片
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 非法", nil)
		return
	}

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.Update(uint(productID), req)
	if err != nil {
		respondProductAdminError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProducts 按 ID 数组批量删除商品
func (h *Handler) DeleteProducts(c *gin.Context) {
	var req DeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.ProductService.DeleteByIDs(req.IDs); err != nil {
		respondProductAdminError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": len(req.IDs)})
}

func respondProductAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, service.ErrProductNotFound.Error(), nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, service.ErrInvalidInput.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "商品操作失败", err)
	}
}
