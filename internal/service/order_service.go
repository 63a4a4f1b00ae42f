package service

import (
	"time"

	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allowedTransitions 订单状态机：unpaid 只能前进到 paid，不允许回退
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusUnpaid: {
		constants.OrderStatusPaid: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID    uint
	CartID    uint
	StoreID   string
	StoreName string
	CvsType   string
}

// OrderService 订单服务
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// CreateOrder 由购物车创建订单。单一事务内完成：
// 读取购物车项并联结型号现价 → 计算总额 → 写入订单与快照订单项 →
// 删除购物车项与购物车。任一步失败整体回滚
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 || input.CartID == 0 {
		return nil, ErrInvalidInput
	}

	var created *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.GetByID(input.CartID)
		if err != nil {
			return err
		}
		if cart == nil || cart.UserID != input.UserID {
			return ErrCartNotFound
		}
		rows, err := cartRepo.ListItemDetails(cart.ID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(rows))
		for _, row := range rows {
			total = total.Add(row.ModelPrice.Decimal.Mul(decimal.NewFromInt(int64(row.Quantity))))
			items = append(items, models.OrderItem{
				ProductName: row.ProductName,
				ModelName:   row.ModelName,
				Quantity:    row.Quantity,
				ModelPrice:  row.ModelPrice,
			})
		}

		order := &models.Order{
			UserID:     input.UserID,
			TotalPrice: models.NewMoneyFromDecimal(total),
			Status:     constants.OrderStatusUnpaid,
			StoreID:    input.StoreID,
			StoreName:  input.StoreName,
			CvsType:    input.CvsType,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		if err := cartRepo.DeleteCartWithItems(cart.ID); err != nil {
			return err
		}
		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", created.ID,
		"user_id", created.UserID,
		"total_price", created.TotalPrice.String(),
		"item_count", len(created.Items),
	)
	return created, nil
}

// ListUserOrders 获取用户订单列表
func (s *OrderService) ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// GetUserOrder 获取用户订单详情，他人订单视为不存在
func (s *OrderService) GetUserOrder(userID, orderID uint) (*models.Order, error) {
	if userID == 0 || orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetByID 管理端订单详情
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 管理端更新订单状态。同状态为幂等空操作，非法迁移拒绝
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	if target != constants.OrderStatusUnpaid && target != constants.OrderStatusPaid {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if target == constants.OrderStatusPaid {
		updates["paid_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"from", order.Status,
		"to", target,
	)
	order.Status = target
	if target == constants.OrderStatusPaid {
		order.PaidAt = &now
	}
	return order, nil
}
