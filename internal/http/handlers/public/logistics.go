package public

import (
	"net/http"

	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SignStoreMapRequest 电子地图参数签章请求
type SignStoreMapRequest struct {
	Params map[string]string `json:"params" binding:"required"`
}

// StoreSelectionRequest 取货门市选择请求
type StoreSelectionRequest struct {
	StoreID   string `json:"store_id" binding:"required"`
	StoreName string `json:"store_name" binding:"required"`
	CvsType   string `json:"cvs_type" binding:"required"`
}

// GetCvsOptions 获取支持的超商通路
func (h *Handler) GetCvsOptions(c *gin.Context) {
	response.Success(c, h.LogisticsService.CvsOptions())
}

// GetStoreList 代理绿界门市清单查询，响应体原样转发
func (h *Handler) GetStoreList(c *gin.Context) {
	body, err := h.LogisticsService.GetStoreList(c.Request.Context(), c.Query("cvs_type"))
	if err != nil {
		respondLogisticsError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// SignStoreMap 为前端开启绿界电子地图的表单参数计算签章
func (h *Handler) SignStoreMap(c *gin.Context) {
	var req SignStoreMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	mac, err := h.LogisticsService.CreateCheckMac(req.Params)
	if err != nil {
		respondLogisticsError(c, err)
		return
	}
	response.Success(c, gin.H{"check_mac_value": mac})
}

// SaveStoreSelection 保存当前用户购物车的取货门市
func (h *Handler) SaveStoreSelection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req StoreSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.LogisticsService.SaveStoreSelection(service.StoreSelectionInput{
		UserID:    userID,
		StoreID:   req.StoreID,
		StoreName: req.StoreName,
		CvsType:   req.CvsType,
	}); err != nil {
		respondLogisticsError(c, err)
		return
	}
	response.Success(c, gin.H{"saved": true})
}
