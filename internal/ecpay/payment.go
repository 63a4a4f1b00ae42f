package ecpay

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// 全方位金流（AIO）固定参数
const (
	aioPaymentType   = "aio"
	aioChoosePayment = "ALL"
	aioEncryptType   = "0" // MD5 签章
)

// PaymentConfig 绿界金流配置
type PaymentConfig struct {
	MerchantID    string `json:"merchant_id"`     // 商店代号
	HashKey       string `json:"hash_key"`        // 签章 HashKey
	HashIV        string `json:"hash_iv"`         // 签章 HashIV
	GatewayURL    string `json:"gateway_url"`     // AioCheckOut 地址
	ReturnURL     string `json:"return_url"`      // 服务器端付款结果通知地址
	ClientBackURL string `json:"client_back_url"` // 消费者付款完成返回地址
}

// ValidatePaymentConfig 校验金流配置完整性
func ValidatePaymentConfig(cfg *PaymentConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.HashKey) == "" || strings.TrimSpace(cfg.HashIV) == "" {
		return fmt.Errorf("%w: hash_key/hash_iv is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return fmt.Errorf("%w: gateway_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ReturnURL) == "" {
		return fmt.Errorf("%w: return_url is required", ErrConfigInvalid)
	}
	return nil
}

// CheckoutInput 结帐表单输入
type CheckoutInput struct {
	MerchantTradeNo   string // 厂商交易编号（20 字符内）
	MerchantTradeDate string // 交易时间（2006/01/02 15:04:05）
	TotalAmount       string // 交易金额（整数新台币）
	TradeDesc         string // 交易描述
	ItemName          string // 商品名称
}

// BuildCheckoutParams 组装结帐参数并附上 CheckMacValue
func BuildCheckoutParams(cfg *PaymentConfig, input CheckoutInput) (map[string]string, error) {
	if err := ValidatePaymentConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.MerchantTradeNo) == "" || strings.TrimSpace(input.TotalAmount) == "" {
		return nil, fmt.Errorf("%w: trade no and amount are required", ErrConfigInvalid)
	}
	params := map[string]string{
		"MerchantID":        cfg.MerchantID,
		"MerchantTradeNo":   input.MerchantTradeNo,
		"MerchantTradeDate": input.MerchantTradeDate,
		"PaymentType":       aioPaymentType,
		"TotalAmount":       input.TotalAmount,
		"TradeDesc":         input.TradeDesc,
		"ItemName":          input.ItemName,
		"ReturnURL":         cfg.ReturnURL,
		"ChoosePayment":     aioChoosePayment,
		"EncryptType":       aioEncryptType,
	}
	if strings.TrimSpace(cfg.ClientBackURL) != "" {
		params["ClientBackURL"] = cfg.ClientBackURL
	}
	mac := NewCheckMac(cfg.HashKey, cfg.HashIV)
	params[CheckMacValueKey] = mac.Generate(params)
	return params, nil
}

// BuildCheckoutForm 生成自动提交的结帐表单 HTML，直接回传给浏览器渲染跳转
func BuildCheckoutForm(cfg *PaymentConfig, input CheckoutInput) (string, error) {
	params, err := BuildCheckoutParams(cfg, input)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<form id="ecpay-checkout" method="post" action="`)
	b.WriteString(html.EscapeString(cfg.GatewayURL))
	b.WriteString("\">\n")
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("<input type=\"hidden\" name=\"%s\" value=\"%s\">\n",
			html.EscapeString(key), html.EscapeString(params[key])))
	}
	b.WriteString("</form>\n<script>document.getElementById(\"ecpay-checkout\").submit();</script>")
	return b.String(), nil
}

// VerifyCallback 验证付款结果通知的 CheckMacValue
func VerifyCallback(cfg *PaymentConfig, form map[string][]string) error {
	if cfg == nil {
		return ErrConfigInvalid
	}
	return NewCheckMac(cfg.HashKey, cfg.HashIV).Verify(form)
}
