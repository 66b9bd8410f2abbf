package test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByID       map[int64]*model.User
	ByUsername map[string]*model.User
	ByEmail    map[string]*model.User
	Next       int64
	Err        error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByID:       make(map[int64]*model.User),
		ByUsername: make(map[string]*model.User),
		ByEmail:    make(map[string]*model.User),
		Next:       1,
	}
}

// Add seeds a user with the next free identifier.
func (s *UserRepositoryStub) Add(user model.User) *model.User {
	if user.ID == 0 {
		user.ID = s.Next
		s.Next++
	} else if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
	stored := user
	s.ByID[stored.ID] = &stored
	s.ByUsername[stored.Username] = &stored
	s.ByEmail[stored.Email] = &stored
	return &stored
}

// Create registers user unless a unique field is taken.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByUsername[user.Username]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	created := *user
	created.ID = s.Next
	s.Next++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.ByID[created.ID] = &created
	s.ByUsername[created.Username] = &created
	s.ByEmail[created.Email] = &created
	return &created, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByUsername fetches user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByUsername[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Update replaces stored user fields.
func (s *UserRepositoryStub) Update(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.ByID[user.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	delete(s.ByUsername, stored.Username)
	delete(s.ByEmail, stored.Email)
	updated := *user
	updated.UpdatedAt = time.Now()
	s.ByID[updated.ID] = &updated
	s.ByUsername[updated.Username] = &updated
	s.ByEmail[updated.Email] = &updated
	copied := updated
	return &copied, nil
}

// Delete removes stored user.
func (s *UserRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	stored, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	delete(s.ByUsername, stored.Username)
	delete(s.ByEmail, stored.Email)
	return nil
}

// List returns all stored users ignoring pagination bounds.
func (s *UserRepositoryStub) List(ctx context.Context, p model.Pagination) ([]model.User, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.User
	for _, u := range s.ByID {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// SearchByName returns all stored users; filtering is not emulated.
func (s *UserRepositoryStub) SearchByName(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error) {
	return s.List(ctx, p)
}

// ProductRepositoryStub keeps products in-memory with real stock semantics:
// Reserve fails on insufficient stock and flips status at zero, Release
// restores it, matching the storage layer's conditional updates.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Next     int64
	Err      error
	LowStock []model.Product
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{
		Products: make(map[int64]*model.Product),
		Next:     1,
	}
}

// Add seeds a product with the next free identifier.
func (s *ProductRepositoryStub) Add(product model.Product) *model.Product {
	if product.ID == 0 {
		product.ID = s.Next
		s.Next++
	} else if product.ID >= s.Next {
		s.Next = product.ID + 1
	}
	if product.Status == "" {
		product.Status = model.ProductStatusAvailable
	}
	stored := product
	s.Products[stored.ID] = &stored
	return &stored
}

// Create stores a new product.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	created := *product
	created.ID = s.Next
	s.Next++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.Products[created.ID] = &created
	copied := created
	return &copied, nil
}

// GetByID fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Update replaces stored product fields.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.Products[product.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	updated := *product
	updated.UpdatedAt = time.Now()
	s.Products[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

// Delete removes stored product.
func (s *ProductRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Products, id)
	return nil
}

// List returns all stored products ignoring pagination bounds.
func (s *ProductRepositoryStub) List(ctx context.Context, p model.Pagination) ([]model.Product, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.Product
	for _, product := range s.Products {
		result = append(result, *product)
	}
	return result, int64(len(result)), nil
}

// SearchByName returns all stored products; filtering is not emulated.
func (s *ProductRepositoryStub) SearchByName(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error) {
	return s.List(ctx, p)
}

// ListByPriceRange returns products priced within bounds.
func (s *ProductRepositoryStub) ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.Product
	for _, product := range s.Products {
		if product.Price.GreaterThanOrEqual(min) && product.Price.LessThanOrEqual(max) {
			result = append(result, *product)
		}
	}
	return result, int64(len(result)), nil
}

// ListLowStock returns configured slice or products below the threshold.
func (s *ProductRepositoryStub) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.LowStock != nil {
		return s.LowStock, nil
	}
	var result []model.Product
	for _, product := range s.Products {
		if product.StockQuantity < threshold {
			result = append(result, *product)
		}
	}
	return result, nil
}

// Reserve decrements stock when enough is available.
func (s *ProductRepositoryStub) Reserve(ctx context.Context, productID int64, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	product, ok := s.Products[productID]
	if !ok {
		return fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, productID)
	}
	if product.StockQuantity < quantity {
		return fmt.Errorf("%w: product %d", domainErrors.ErrInsufficientStock, productID)
	}
	product.StockQuantity -= quantity
	if product.StockQuantity == 0 && product.Status == model.ProductStatusAvailable {
		product.Status = model.ProductStatusOutOfStock
	}
	return nil
}

// Release increments stock.
func (s *ProductRepositoryStub) Release(ctx context.Context, productID int64, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	product, ok := s.Products[productID]
	if !ok {
		return fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, productID)
	}
	product.StockQuantity += quantity
	if product.StockQuantity > 0 && product.Status == model.ProductStatusOutOfStock {
		product.Status = model.ProductStatusAvailable
	}
	return nil
}

// OrderRepositoryStub emulates the transactional order repository against the
// in-memory user and product stubs: order creation reserves every line or
// rolls back all earlier reservations, cancellation releases them.
type OrderRepositoryStub struct {
	Users    *UserRepositoryStub
	Products *ProductRepositoryStub
	Orders   map[int64]*model.Order
	Next     int64
	Err      error

	CreateFn       func(context.Context, int64, []model.NewOrderItem, model.OrderStatus) (*model.Order, error)
	UpdateStatusFn func(context.Context, int64, model.OrderStatus) (*model.Order, error)
	CancelFn       func(context.Context, int64) (*model.Order, error)
}

// NewOrderRepositoryStub wires an order stub to its user and product stores.
func NewOrderRepositoryStub(users *UserRepositoryStub, products *ProductRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Users:    users,
		Products: products,
		Orders:   make(map[int64]*model.Order),
		Next:     1,
	}
}

// Create places an order with all-or-nothing stock reservation.
func (s *OrderRepositoryStub) Create(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, items, status)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %d", domainErrors.ErrNotFound, userID)
	}

	order := &model.Order{
		ID:           s.Next,
		OrderNumber:  fmt.Sprintf("ORD-%016d", s.Next),
		UserID:       userID,
		UserFullName: user.FullName,
		Status:       status,
		TotalAmount:  decimal.Zero,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	var reserved []model.NewOrderItem
	rollback := func() {
		for _, r := range reserved {
			_ = s.Products.Release(ctx, r.ProductID, r.Quantity)
		}
	}

	for _, item := range items {
		product, err := s.Products.GetByID(ctx, item.ProductID)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, item.ProductID)
		}
		if err := s.Products.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			rollback()
			return nil, err
		}
		reserved = append(reserved, item)

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, model.OrderItem{
			ID:          int64(len(order.Items) + 1),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
		order.TotalAmount = order.TotalAmount.Add(subtotal)
	}

	s.Next++
	s.Orders[order.ID] = order
	copied := *order
	return &copied, nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, id)
}

// GetByNumber fetches order by number or returns not found.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, order := range s.Orders {
		if order.OrderNumber == number {
			copied := *order
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, number)
}

// List returns all stored orders ignoring pagination bounds.
func (s *OrderRepositoryStub) List(ctx context.Context, p model.Pagination) ([]model.Order, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		result = append(result, *order)
	}
	return result, int64(len(result)), nil
}

// ListByUser returns orders placed by the user.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, int64(len(result)), nil
}

// ListByStatus returns orders currently in the status.
func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		if order.Status == status {
			result = append(result, *order)
		}
	}
	return result, int64(len(result)), nil
}

// UpdateStatus enforces the transition table like the storage layer does.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot transition order from %s to %s", domainErrors.ErrIllegalState, order.Status, status)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

// Cancel releases reserved stock and flips the order to CANCELLED.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}
	if order.Status == model.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: cannot cancel a delivered order", domainErrors.ErrIllegalState)
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", domainErrors.ErrIllegalState, order.Status)
	}
	for _, item := range order.Items {
		if err := s.Products.Release(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}
