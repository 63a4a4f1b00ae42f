package ecpay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LogisticsConfig 绿界物流配置
type LogisticsConfig struct {
	MerchantID   string `json:"merchant_id"`    // 物流商店代号
	HashKey      string `json:"hash_key"`       // 签章 HashKey
	HashIV       string `json:"hash_iv"`        // 签章 HashIV
	StoreListURL string `json:"store_list_url"` // GetStoreList 地址
}

// ValidateLogisticsConfig 校验物流配置完整性
func ValidateLogisticsConfig(cfg *LogisticsConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.HashKey) == "" || strings.TrimSpace(cfg.HashIV) == "" {
		return fmt.Errorf("%w: hash_key/hash_iv is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.StoreListURL) == "" {
		return fmt.Errorf("%w: store_list_url is required", ErrConfigInvalid)
	}
	return nil
}

// LogisticsClient 物流接口客户端
type LogisticsClient struct {
	cfg        *LogisticsConfig
	httpClient *http.Client
}

// NewLogisticsClient 创建物流客户端
func NewLogisticsClient(cfg *LogisticsConfig) (*LogisticsClient, error) {
	if err := ValidateLogisticsConfig(cfg); err != nil {
		return nil, err
	}
	return &LogisticsClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// CheckMac 返回物流侧签章器
func (c *LogisticsClient) CheckMac() CheckMac {
	return NewCheckMac(c.cfg.HashKey, c.cfg.HashIV)
}

// MerchantID 物流商店代号
func (c *LogisticsClient) MerchantID() string {
	return c.cfg.MerchantID
}

// GetStoreList 拉取指定通路的门市清单，响应体原样返回
func (c *LogisticsClient) GetStoreList(ctx context.Context, cvsType string) ([]byte, error) {
	params := map[string]string{
		"MerchantID": c.cfg.MerchantID,
		"CvsType":    cvsType,
	}
	params[CheckMacValueKey] = c.CheckMac().Generate(params)
	return c.postForm(ctx, c.cfg.StoreListURL, params)
}

func (c *LogisticsClient) postForm(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "*/*")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrRequestFailed
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
