package service

import "errors"

// 服务层统一的业务错误，handler 据此映射响应码
var (
	ErrInvalidInput             = errors.New("输入参数不合法")
	ErrEmailOrPasswordIncorrect = errors.New("邮箱或密码错误")
	ErrAccountDisabled          = errors.New("账号已被停用")
	ErrProductNotFound          = errors.New("商品不存在")
	ErrProductNotAvailable      = errors.New("商品已下架")
	ErrModelNotFound            = errors.New("商品型号不存在")
	ErrModelNotAvailable        = errors.New("商品型号已停用")
	ErrCartNotFound             = errors.New("购物车不存在")
	ErrCartEmpty                = errors.New("购物车为空")
	ErrCartItemNotFound         = errors.New("购物车项不存在")
	ErrOrderNotFound            = errors.New("订单不存在")
	ErrOrderStatusInvalid       = errors.New("订单状态不允许该操作")
	ErrCvsTypeInvalid           = errors.New("不支持的超商通路")
)
