package service

import (
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemView 购物车项视图：价格与名称取自商品目录当前值
type CartItemView struct {
	CartItemID  uint         `json:"cart_item_id"`
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	IsActive    bool         `json:"is_active"`
	ModelID     uint         `json:"model_id"`
	ModelName   string       `json:"model_name"`
	ModelPrice  models.Money `json:"model_price"`
	Quantity    int          `json:"quantity"`
	LineTotal   models.Money `json:"line_total"`
	ImageURL    string       `json:"image_url"`
}

// CartDetail 购物车详情
type CartDetail struct {
	CartID     uint           `json:"cart_id"`
	StoreID    string         `json:"store_id"`
	StoreName  string         `json:"store_name"`
	CvsType    string         `json:"cvs_type"`
	Items      []CartItemView `json:"items"`
	TotalPrice models.Money   `json:"total_price"`
}

// AddCartItemInput 添加购物车项输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	ModelID   uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart 获取用户购物车，不存在则创建。
// user_id 唯一索引保证并发下只有一行，建失败后回读兜底
func (s *CartService) GetOrCreateCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		if existing, getErr := s.cartRepo.GetByUser(userID); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return cart, nil
}

// GetCartDetail 获取购物车详情。空购物车返回空项与零总额，不视为错误
func (s *CartService) GetCartDetail(userID uint) (*CartDetail, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.cartRepo.ListItemDetails(cart.ID)
	if err != nil {
		return nil, err
	}

	detail := &CartDetail{
		CartID:     cart.ID,
		StoreID:    cart.StoreID,
		StoreName:  cart.StoreName,
		CvsType:    cart.CvsType,
		Items:      make([]CartItemView, 0, len(rows)),
		TotalPrice: models.NewMoneyFromDecimal(decimal.Zero),
	}
	for _, row := range rows {
		lineTotal := row.ModelPrice.Mul(row.Quantity)
		detail.Items = append(detail.Items, CartItemView{
			CartItemID:  row.CartItemID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			IsActive:    row.ProductIsActive,
			ModelID:     row.ModelID,
			ModelName:   row.ModelName,
			ModelPrice:  row.ModelPrice,
			Quantity:    row.Quantity,
			LineTotal:   lineTotal,
			ImageURL:    row.ImageURL,
		})
		detail.TotalPrice = detail.TotalPrice.Add(lineTotal)
	}
	return detail, nil
}

// AddItem 添加购物车项。同一商品型号重复加入不合并，各自成行
func (s *CartService) AddItem(input AddCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ProductID == 0 || input.ModelID == 0 || input.Quantity <= 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	model, err := s.productRepo.GetModel(input.ModelID)
	if err != nil {
		return nil, err
	}
	if model == nil || model.ProductID != product.ID {
		return nil, ErrModelNotFound
	}
	if !model.IsActive {
		return nil, ErrModelNotAvailable
	}

	cart, err := s.GetOrCreateCart(input.UserID)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: input.ProductID,
		ModelID:   input.ModelID,
		Quantity:  input.Quantity,
	}
	if err := s.cartRepo.AddItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 删除购物车项，仅限本人购物车
func (s *CartService) RemoveItem(userID, cartItemID uint) error {
	if userID == 0 || cartItemID == 0 {
		return ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	item, err := s.cartRepo.GetItem(cart.ID, cartItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteItem(cart.ID, cartItemID)
}
