package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	testhelpers "github.com/polkiloo/shopmart/internal/test"
)

type orderFixture struct {
	users    *testhelpers.UserRepositoryStub
	products *testhelpers.ProductRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	uc       *OrderUseCase
}

func newOrderFixture() *orderFixture {
	users := testhelpers.NewUserRepositoryStub()
	products := testhelpers.NewProductRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub(users, products)
	return &orderFixture{
		users:    users,
		products: products,
		orders:   orders,
		uc:       NewOrderUseCase(orders),
	}
}

func (f *orderFixture) seedUser(t *testing.T) *model.User {
	t.Helper()
	return f.users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})
}

func (f *orderFixture) seedProduct(t *testing.T, price string, stock int) *model.Product {
	t.Helper()
	return f.products.Add(model.Product{Name: "widget", Price: decimal.RequireFromString(price), StockQuantity: stock})
}

func TestOrderCreateReservesStockAndComputesTotal(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "19.99", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 3}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected default PENDING status, got %s", order.Status)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 2 {
		t.Fatalf("expected stock 2 after reservation, got %d", got)
	}
	want := decimal.RequireFromString("59.97")
	if !order.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.TotalAmount)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	if !order.Items[0].UnitPrice.Equal(product.Price) {
		t.Fatalf("expected unit price %s, got %s", product.Price, order.Items[0].UnitPrice)
	}
}

func TestOrderTotalEqualsSumOfSubtotals(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	p1 := f.seedProduct(t, "10.50", 10)
	p2 := f.seedProduct(t, "3.25", 10)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 4},
	}, model.OrderStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	for _, item := range order.Items {
		if !item.Subtotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))) {
			t.Fatalf("subtotal %s does not match quantity x unit price", item.Subtotal)
		}
		sum = sum.Add(item.Subtotal)
	}
	if !order.TotalAmount.Equal(sum) {
		t.Fatalf("total %s does not equal sum of subtotals %s", order.TotalAmount, sum)
	}
}

func TestOrderCreateInsufficientStockLeavesProductUntouched(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "5.00", 2)

	_, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 5}}, "")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 2 {
		t.Fatalf("expected stock to remain 2, got %d", got)
	}
}

func TestOrderCreateLateFailureRollsBackEarlierReservations(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	p1 := f.seedProduct(t, "5.00", 5)
	p2 := f.seedProduct(t, "7.00", 1)

	_, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 3},
	}, "")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if got := f.products.Products[p1.ID].StockQuantity; got != 5 {
		t.Fatalf("expected first product stock restored to 5, got %d", got)
	}
	if got := f.products.Products[p2.ID].StockQuantity; got != 1 {
		t.Fatalf("expected second product stock to remain 1, got %d", got)
	}
}

func TestOrderCreateUnknownProductRollsBack(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	p1 := f.seedProduct(t, "5.00", 5)

	_, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: 999, Quantity: 1},
	}, "")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if got := f.products.Products[p1.ID].StockQuantity; got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}
}

func TestOrderCreateUnknownUser(t *testing.T) {
	f := newOrderFixture()
	product := f.seedProduct(t, "5.00", 5)

	_, err := f.uc.Create(context.Background(), 42, []model.NewOrderItem{{ProductID: product.ID, Quantity: 1}}, "")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 5 {
		t.Fatalf("expected stock to remain 5, got %d", got)
	}
}

func TestOrderCreateRejectsBadInput(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "5.00", 5)

	cases := []struct {
		name   string
		items  []model.NewOrderItem
		status model.OrderStatus
		want   error
	}{
		{"empty items", nil, "", domainErrors.ErrEmptyOrder},
		{"zero quantity", []model.NewOrderItem{{ProductID: product.ID, Quantity: 0}}, "", domainErrors.ErrInvalidQuantity},
		{"negative quantity", []model.NewOrderItem{{ProductID: product.ID, Quantity: -2}}, "", domainErrors.ErrInvalidQuantity},
		{"unknown status", []model.NewOrderItem{{ProductID: product.ID, Quantity: 1}}, "WAITING", domainErrors.ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.uc.Create(context.Background(), user.ID, tc.items, tc.status); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := f.products.Products[product.ID].StockQuantity; got != 5 {
		t.Fatalf("rejected orders must not touch stock, got %d", got)
	}
}

func TestOrderCancelRestoresStock(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "19.99", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 3}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 2 {
		t.Fatalf("expected stock 2 after create, got %d", got)
	}

	cancelled, err := f.uc.Cancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}
}

func TestOrderCancelRoundTripAcrossMultipleProducts(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	p1 := f.seedProduct(t, "10.00", 7)
	p2 := f.seedProduct(t, "2.50", 4)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{
		{ProductID: p1.ID, Quantity: 3},
		{ProductID: p2.ID, Quantity: 4},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.products.Products[p2.ID].Status != model.ProductStatusOutOfStock {
		t.Fatalf("expected product drained to zero to become OUT_OF_STOCK, got %s", f.products.Products[p2.ID].Status)
	}

	if _, err := f.uc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.products.Products[p1.ID].StockQuantity; got != 7 {
		t.Fatalf("expected first product restored to 7, got %d", got)
	}
	if got := f.products.Products[p2.ID].StockQuantity; got != 4 {
		t.Fatalf("expected second product restored to 4, got %d", got)
	}
	if f.products.Products[p2.ID].Status != model.ProductStatusAvailable {
		t.Fatalf("expected product to become AVAILABLE again, got %s", f.products.Products[p2.ID].Status)
	}
}

func TestOrderCancelDeliveredFailsAndStateUnchanged(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "19.99", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 3}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.uc.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.Cancel(context.Background(), order.ID); !errors.Is(err, domainErrors.ErrIllegalState) {
		t.Fatalf("expected illegal state error, got %v", err)
	}

	stored, err := f.uc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != model.OrderStatusDelivered {
		t.Fatalf("expected status to remain DELIVERED, got %s", stored.Status)
	}
	if got := f.products.Products[product.ID].StockQuantity; got != 2 {
		t.Fatalf("expected stock to remain 2, got %d", got)
	}
}

func TestOrderCancelUnknown(t *testing.T) {
	f := newOrderFixture()
	if _, err := f.uc.Cancel(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOrderUpdateStatusTransitions(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "19.99", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.uc.UpdateStatus(context.Background(), order.ID, model.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", updated.Status)
	}

	if _, err := f.uc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPending); !errors.Is(err, domainErrors.ErrIllegalState) {
		t.Fatalf("expected illegal state error on backwards edge, got %v", err)
	}

	if _, err := f.uc.UpdateStatus(context.Background(), order.ID, "BOGUS"); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}

	if _, err := f.uc.UpdateStatus(context.Background(), 404, model.OrderStatusShipped); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOrderPriceSnapshotDecoupledFromLaterEdits(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "10.00", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 2}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.products.Products[product.ID].Price = decimal.RequireFromString("99.99")

	stored, err := f.uc.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.RequireFromString("10.00")
	if !stored.Items[0].UnitPrice.Equal(want) {
		t.Fatalf("expected snapshot price %s, got %s", want, stored.Items[0].UnitPrice)
	}
	if !stored.TotalAmount.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected total 20.00, got %s", stored.TotalAmount)
	}
}

func TestOrderListByStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()
	if _, _, err := f.uc.ListByStatus(context.Background(), "BOGUS", model.Pagination{}); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestOrderReads(t *testing.T) {
	f := newOrderFixture()
	user := f.seedUser(t)
	product := f.seedProduct(t, "10.00", 5)

	order, err := f.uc.Create(context.Background(), user.ID, []model.NewOrderItem{{ProductID: product.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byNumber, err := f.uc.GetByNumber(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byNumber.ID != order.ID {
		t.Fatalf("expected order %d, got %d", order.ID, byNumber.ID)
	}

	list, total, err := f.uc.List(context.Background(), model.Pagination{})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("unexpected list result: %v %d %d", err, total, len(list))
	}

	byUser, total, err := f.uc.ListByUser(context.Background(), user.ID, model.Pagination{})
	if err != nil || total != 1 || len(byUser) != 1 {
		t.Fatalf("unexpected list-by-user result: %v %d %d", err, total, len(byUser))
	}

	byStatus, total, err := f.uc.ListByStatus(context.Background(), model.OrderStatusPending, model.Pagination{})
	if err != nil || total != 1 || len(byStatus) != 1 {
		t.Fatalf("unexpected list-by-status result: %v %d %d", err, total, len(byStatus))
	}
}
