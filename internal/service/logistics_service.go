package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mall-next/internal/cache"
	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/ecpay"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/repository"
)

const storeListCacheTTL = 10 * time.Minute

// CvsOption 超商通路选项
type CvsOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StoreSelectionInput 门市选择输入
type StoreSelectionInput struct {
	UserID    uint
	StoreID   string
	StoreName string
	CvsType   string
}

// LogisticsService 物流服务
type LogisticsService struct {
	cartRepo repository.CartRepository
	client   *ecpay.LogisticsClient
}

// NewLogisticsService 创建物流服务
func NewLogisticsService(cartRepo repository.CartRepository, client *ecpay.LogisticsClient) *LogisticsService {
	return &LogisticsService{
		cartRepo: cartRepo,
		client:   client,
	}
}

// CvsOptions 返回支持的超商通路
func (s *LogisticsService) CvsOptions() []CvsOption {
	return []CvsOption{
		{Value: constants.CvsTypeUnimart, Label: "7-ELEVEN"},
		{Value: constants.CvsTypeFami, Label: "全家"},
	}
}

// IsSupportedCvsType 判断通路是否支持
func (s *LogisticsService) IsSupportedCvsType(cvsType string) bool {
	switch cvsType {
	case constants.CvsTypeUnimart, constants.CvsTypeFami:
		return true
	}
	return false
}

// CreateCheckMac 为电子地图表单参数计算 CheckMacValue，原样返回签章字符串
func (s *LogisticsService) CreateCheckMac(params map[string]string) (string, error) {
	if len(params) == 0 {
		return "", ErrInvalidInput
	}
	if s.client == nil {
		return "", ecpay.ErrConfigInvalid
	}
	signed := make(map[string]string, len(params)+1)
	for key, value := range params {
		signed[key] = value
	}
	if _, ok := signed["MerchantID"]; !ok {
		signed["MerchantID"] = s.client.MerchantID()
	}
	return s.client.CheckMac().Generate(signed), nil
}

// GetStoreList 代理绿界门市清单查询，响应体原样转发。门市变动不频繁，命中缓存时不回源
func (s *LogisticsService) GetStoreList(ctx context.Context, cvsType string) ([]byte, error) {
	cvsType = strings.TrimSpace(cvsType)
	if !s.IsSupportedCvsType(cvsType) {
		return nil, ErrCvsTypeInvalid
	}
	if s.client == nil {
		return nil, ecpay.ErrConfigInvalid
	}

	cacheKey := fmt.Sprintf("logistics:stores:%s", cvsType)
	var cached []byte
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("logistics_store_list_cache_read_failed", "cvs_type", cvsType, "error", err)
	} else if hit && len(cached) > 0 {
		return cached, nil
	}

	body, err := s.client.GetStoreList(ctx, cvsType)
	if err != nil {
		logger.Warnw("logistics_store_list_failed", "cvs_type", cvsType, "error", err)
		return nil, err
	}
	if err := cache.SetJSON(ctx, cacheKey, body, storeListCacheTTL); err != nil {
		logger.Warnw("logistics_store_list_cache_write_failed", "cvs_type", cvsType, "error", err)
	}
	return body, nil
}

// SaveStoreSelection 将用户选定的取货门市写入购物车
func (s *LogisticsService) SaveStoreSelection(input StoreSelectionInput) error {
	if input.UserID == 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(input.StoreID) == "" || strings.TrimSpace(input.StoreName) == "" {
		return ErrInvalidInput
	}
	if !s.IsSupportedCvsType(input.CvsType) {
		return ErrCvsTypeInvalid
	}
	cart, err := s.cartRepo.GetByUser(input.UserID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	if err := s.cartRepo.UpdateStoreSelection(cart.ID, input.StoreID, input.StoreName, input.CvsType); err != nil {
		return err
	}
	logger.Infow("logistics_store_selected",
		"user_id", input.UserID,
		"cart_id", cart.ID,
		"store_id", input.StoreID,
		"cvs_type", input.CvsType,
	)
	return nil
}
