// Package ecpay 实现绿界（ECPay）金流与物流介接，两者共用同一套
// CheckMacValue 签章：参数排序、HashKey/HashIV 包裹、.NET 风格
// URL 编码、转小写后取 MD5 再转大写。
package ecpay

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CheckMacValueKey 表单中携带签章的字段名
const CheckMacValueKey = "CheckMacValue"

var (
	ErrConfigInvalid    = errors.New("ecpay config invalid")
	ErrRequestFailed    = errors.New("ecpay request failed")
	ErrSignatureInvalid = errors.New("ecpay check mac value mismatch")
)

// CheckMac 绿界签章器
type CheckMac struct {
	HashKey string
	HashIV  string
}

// NewCheckMac 创建签章器
func NewCheckMac(hashKey, hashIV string) CheckMac {
	return CheckMac{HashKey: hashKey, HashIV: hashIV}
}

// Generate 计算 CheckMacValue。params 中的 CheckMacValue 字段会被剔除，
// 空值字段保留参与签章（绿界以提交表单的完整字段为准）
func (c CheckMac) Generate(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for key, value := range params {
		if key == CheckMacValueKey {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(pairs)

	raw := fmt.Sprintf("HashKey=%s&%s&HashIV=%s", c.HashKey, strings.Join(pairs, "&"), c.HashIV)
	encoded := strings.ToLower(dotNetURLEncode(raw))
	sum := md5.Sum([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify 以 form 中除 CheckMacValue 外的全部字段重算签章并比对
func (c CheckMac) Verify(form map[string][]string) error {
	received := strings.TrimSpace(firstValue(form, CheckMacValueKey))
	if received == "" {
		return ErrSignatureInvalid
	}
	params := make(map[string]string, len(form))
	for key, values := range form {
		if key == CheckMacValueKey {
			continue
		}
		if len(values) > 0 {
			params[key] = values[0]
		} else {
			params[key] = ""
		}
	}
	if !strings.EqualFold(c.Generate(params), received) {
		return ErrSignatureInvalid
	}
	return nil
}

// dotNetURLEncode 仿 .NET HttpUtility.UrlEncode 的编码规则：
// 空格转 +，- _ . ! ~ * ' ( ) 与字母数字保持原样，其余字节转 %XX
func dotNetURLEncode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, ch := range []byte(raw) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '_' || ch == '.' || ch == '!' || ch == '~' ||
			ch == '*' || ch == '\'' || ch == '(' || ch == ')':
			b.WriteByte(ch)
		case ch == ' ':
			b.WriteByte('+')
		default:
			b.WriteString(fmt.Sprintf("%%%02X", ch))
		}
	}
	return b.String()
}

func firstValue(form map[string][]string, key string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
