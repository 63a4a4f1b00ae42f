package public

import (
	"errors"

	"github.com/mall-next/internal/ecpay"
	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: service.ErrProductNotFound.Error()},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: service.ErrProductNotAvailable.Error()},
	{target: service.ErrModelNotFound, code: response.CodeNotFound, msg: service.ErrModelNotFound.Error()},
	{target: service.ErrModelNotAvailable, code: response.CodeBadRequest, msg: service.ErrModelNotAvailable.Error()},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: service.ErrCartNotFound.Error()},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: service.ErrCartItemNotFound.Error()},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: service.ErrProductNotFound.Error()},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: service.ErrCartNotFound.Error()},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: service.ErrCartEmpty.Error()},
}

var orderFetchErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: service.ErrOrderNotFound.Error()},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: service.ErrOrderNotFound.Error()},
	{target: service.ErrOrderStatusInvalid, code: response.CodeConflict, msg: service.ErrOrderStatusInvalid.Error()},
	{target: ecpay.ErrConfigInvalid, code: response.CodeInternal, msg: "支付网关配置不完整"},
}

var logisticsErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: service.ErrInvalidInput.Error()},
	{target: service.ErrCvsTypeInvalid, code: response.CodeBadRequest, msg: service.ErrCvsTypeInvalid.Error()},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: service.ErrCartNotFound.Error()},
	{target: ecpay.ErrRequestFailed, code: response.CodeInternal, msg: "物流网关请求失败"},
	{target: ecpay.ErrConfigInvalid, code: response.CodeInternal, msg: "物流网关配置不完整"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "购物车操作失败")
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "商品获取失败")
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "订单创建失败")
}

func respondOrderFetchError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "订单获取失败")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "发起支付失败")
}

func respondLogisticsError(c *gin.Context, err error) {
	respondWithMappedError(c, err, logisticsErrorRules, response.CodeInternal, "物流操作失败")
}
