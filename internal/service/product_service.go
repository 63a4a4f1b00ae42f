package service

import (
	"strings"

	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductModelInput 商品型号输入
type ProductModelInput struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	IsActive *bool  `json:"is_active"`
}

// ProductImageInput 商品图片输入
type ProductImageInput struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sort_order"`
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	IsActive    *bool               `json:"is_active"`
	Models      []ProductModelInput `json:"models"`
	Images      []ProductImageInput `json:"images"`
}

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// PublicList 前台商品列表，仅含上架商品
func (s *ProductService) PublicList(page, pageSize int, search string) ([]models.Product, int64, error) {
	return s.productRepo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(search),
		OnlyActive: true,
	})
}

// PublicGet 前台商品详情，下架商品视为不存在
func (s *ProductService) PublicGet(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// AdminList 管理端商品列表
func (s *ProductService) AdminList(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// AdminGet 管理端商品详情
func (s *ProductService) AdminGet(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品（级联型号与图片）
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	product, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 整体更新商品及其型号与图片
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	existing, err := s.AdminGet(id)
	if err != nil {
		return nil, err
	}
	updated, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	for i := range updated.Models {
		updated.Models[i].ProductID = existing.ID
	}
	for i := range updated.Images {
		updated.Images[i].ProductID = existing.ID
	}
	if err := s.productRepo.Update(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByIDs 批量删除商品
func (s *ProductService) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return ErrInvalidInput
	}
	return s.productRepo.DeleteByIDs(ids)
}

func buildProduct(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(input.Models) == 0 {
		return nil, ErrInvalidInput
	}
	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	for _, m := range input.Models {
		modelName := strings.TrimSpace(m.Name)
		price, err := decimal.NewFromString(strings.TrimSpace(m.Price))
		if err != nil || modelName == "" || price.IsNegative() {
			return nil, ErrInvalidInput
		}
		model := models.ProductModel{
			Name:     modelName,
			Price:    models.NewMoneyFromDecimal(price),
			Stock:    m.Stock,
			IsActive: true,
		}
		if m.IsActive != nil {
			model.IsActive = *m.IsActive
		}
		product.Models = append(product.Models, model)
	}
	for _, img := range input.Images {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			return nil, ErrInvalidInput
		}
		product.Images = append(product.Images, models.ProductImage{
			URL:       url,
			SortOrder: img.SortOrder,
		})
	}
	return product, nil
}
