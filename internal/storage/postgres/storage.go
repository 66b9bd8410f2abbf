package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/domain/repository"
)

const (
	uniqueViolationCode = "23505"
	fkViolationCode     = "23503"

	// orderNumberAttempts bounds transaction retries on an order number
	// collision. Collisions are vanishingly rare with random tokens.
	orderNumberAttempts = 3
)

// pgxPool is the subset of pgxpool.Pool the storage uses. Narrowing the type
// lets tests substitute a pgxmock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// newOrderNumber produces the human-facing order identifier. Random tokens
// plus the UNIQUE constraint replace timestamp-derived numbers, which collide
// under rapid creation.
var newOrderNumber = func() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}
	return "ORD-" + hex.EncodeToString(buf)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            email TEXT UNIQUE NOT NULL,
            full_name TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'ACTIVE',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL,
            stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
            status TEXT NOT NULL DEFAULT 'AVAILABLE',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            product_name TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            unit_price NUMERIC(10,2) NOT NULL,
            subtotal NUMERIC(10,2) NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolationCode
}

func orderClause(direction model.SortDirection) string {
	if direction == model.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users (username, email, full_name, status)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at, updated_at`
	created := *user
	err := r.storage.pool.QueryRow(ctx, query, user.Username, user.Email, user.FullName, user.Status).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, email, full_name, status, created_at, updated_at
                   FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, email, full_name, status, created_at, updated_at
                   FROM users WHERE username=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, username, email, full_name, status, created_at, updated_at
                   FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `UPDATE users SET username=$1, email=$2, full_name=$3, status=$4, updated_at=NOW()
                   WHERE id=$5
                   RETURNING created_at, updated_at`
	updated := *user
	err := r.storage.pool.QueryRow(ctx, query, user.Username, user.Email, user.FullName, user.Status, user.ID).
		Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domainErrors.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, p model.Pagination) ([]model.User, int64, error) {
	query := fmt.Sprintf(`SELECT id, username, email, full_name, status, created_at, updated_at
                          FROM users ORDER BY created_at %s LIMIT $1 OFFSET $2`, orderClause(p.Direction))
	return r.listPage(ctx, query, `SELECT COUNT(*) FROM users`, []any{p.Size, p.Offset()}, nil)
}

func (r *userRepository) SearchByName(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error) {
	pattern := "%" + name + "%"
	query := fmt.Sprintf(`SELECT id, username, email, full_name, status, created_at, updated_at
                          FROM users WHERE full_name ILIKE $1 OR username ILIKE $1
                          ORDER BY created_at %s LIMIT $2 OFFSET $3`, orderClause(p.Direction))
	const countQuery = `SELECT COUNT(*) FROM users WHERE full_name ILIKE $1 OR username ILIKE $1`
	return r.listPage(ctx, query, countQuery, []any{pattern, p.Size, p.Offset()}, []any{pattern})
}

func (r *userRepository) listPage(ctx context.Context, query, countQuery string, args, countArgs []any) ([]model.User, int64, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, price, stock_quantity, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at, updated_at`
	created := *product
	err := r.storage.pool.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.StockQuantity, product.Status).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, description, price, stock_quantity, status, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `UPDATE products SET name=$1, description=$2, price=$3, stock_quantity=$4, status=$5, updated_at=NOW()
                   WHERE id=$6
                   RETURNING created_at, updated_at`
	updated := *product
	err := r.storage.pool.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.StockQuantity, product.Status, product.ID).
		Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		// Products referenced by order items stay; order history is immutable.
		if isFKViolation(err) {
			return domainErrors.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, p model.Pagination) ([]model.Product, int64, error) {
	query := fmt.Sprintf(`SELECT id, name, description, price, stock_quantity, status, created_at, updated_at
                          FROM products ORDER BY created_at %s LIMIT $1 OFFSET $2`, orderClause(p.Direction))
	return r.listPage(ctx, query, `SELECT COUNT(*) FROM products`, []any{p.Size, p.Offset()}, nil)
}

func (r *productRepository) SearchByName(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error) {
	pattern := "%" + name + "%"
	query := fmt.Sprintf(`SELECT id, name, description, price, stock_quantity, status, created_at, updated_at
                          FROM products WHERE name ILIKE $1 OR description ILIKE $1
                          ORDER BY created_at %s LIMIT $2 OFFSET $3`, orderClause(p.Direction))
	const countQuery = `SELECT COUNT(*) FROM products WHERE name ILIKE $1 OR description ILIKE $1`
	return r.listPage(ctx, query, countQuery, []any{pattern, p.Size, p.Offset()}, []any{pattern})
}

func (r *productRepository) ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error) {
	query := fmt.Sprintf(`SELECT id, name, description, price, stock_quantity, status, created_at, updated_at
                          FROM products WHERE price BETWEEN $1 AND $2
                          ORDER BY price %s LIMIT $3 OFFSET $4`, orderClause(p.Direction))
	const countQuery = `SELECT COUNT(*) FROM products WHERE price BETWEEN $1 AND $2`
	return r.listPage(ctx, query, countQuery, []any{min, max, p.Size, p.Offset()}, []any{min, max})
}

func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	const query = `SELECT id, name, description, price, stock_quantity, status, created_at, updated_at
                   FROM products WHERE stock_quantity < $1 ORDER BY stock_quantity`
	rows, err := r.storage.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) listPage(ctx context.Context, query, countQuery string, args, countArgs []any) ([]model.Product, int64, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- Inventory ledger ---

// reserveStockTx performs the check-then-decrement as a single conditional
// update, so two concurrent reservations for the same product cannot both
// succeed on insufficient combined stock. Returns the name and price snapshot
// captured at reservation time.
func (s *Storage) reserveStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (string, decimal.Decimal, error) {
	const query = `UPDATE products
                   SET stock_quantity = stock_quantity - $2,
                       status = CASE WHEN stock_quantity - $2 = 0 AND status = 'AVAILABLE'
                                     THEN 'OUT_OF_STOCK' ELSE status END,
                       updated_at = NOW()
                   WHERE id = $1 AND stock_quantity >= $2
                   RETURNING name, price`
	var (
		name  string
		price decimal.Decimal
	)
	err := tx.QueryRow(ctx, query, productID, quantity).Scan(&name, &price)
	if err == nil {
		return name, price, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", decimal.Decimal{}, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return "", decimal.Decimal{}, err
	}
	if !exists {
		return "", decimal.Decimal{}, fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, productID)
	}
	return "", decimal.Decimal{}, fmt.Errorf("%w: product %d", domainErrors.ErrInsufficientStock, productID)
}

// releaseStockTx is the inverse of reserveStockTx. No upper bound is checked;
// callers must only release quantities previously reserved for the same order.
func (s *Storage) releaseStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	const query = `UPDATE products
                   SET stock_quantity = stock_quantity + $2,
                       status = CASE WHEN status = 'OUT_OF_STOCK' AND stock_quantity + $2 > 0
                                     THEN 'AVAILABLE' ELSE status END,
                       updated_at = NOW()
                   WHERE id = $1`
	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, productID)
	}
	return nil
}

func (r *productRepository) Reserve(ctx context.Context, productID int64, quantity int) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		_, _, err := r.storage.reserveStockTx(ctx, tx, productID, quantity)
		return err
	})
}

func (r *productRepository) Release(ctx context.Context, productID int64, quantity int) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return r.storage.releaseStockTx(ctx, tx, productID, quantity)
	})
}

// --- OrderRepository implementation ---

// Create places an order in a single transaction: the user check, every stock
// reservation, the order row and its items either all commit or all roll back.
// A failed reservation for a later item therefore undoes earlier ones.
func (r *orderRepository) Create(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	var (
		order *model.Order
		err   error
	)
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = r.createWithNumber(ctx, userID, newOrderNumber(), items, status)
		if err != nil && isUniqueViolation(err) {
			continue
		}
		break
	}
	if err != nil && isUniqueViolation(err) {
		return nil, fmt.Errorf("order number collision after %d attempts: %w", orderNumberAttempts, err)
	}
	return order, err
}

func (r *orderRepository) createWithNumber(ctx context.Context, userID int64, number string, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	order := &model.Order{
		OrderNumber: number,
		UserID:      userID,
		Status:      status,
		TotalAmount: decimal.Zero,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT full_name FROM users WHERE id=$1`, userID).Scan(&order.UserFullName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: user %d", domainErrors.ErrNotFound, userID)
			}
			return err
		}

		const insertOrder = `INSERT INTO orders (order_number, user_id, total_amount, status)
                             VALUES ($1, $2, 0, $3)
                             RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertOrder, number, userID, status).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}

		for _, item := range items {
			name, price, err := r.storage.reserveStockTx(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			line := model.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: name,
				Quantity:    item.Quantity,
				UnitPrice:   price,
				Subtotal:    price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}

			const insertItem = `INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
                                VALUES ($1, $2, $3, $4, $5, $6)
                                RETURNING id`
			if err := tx.QueryRow(ctx, insertItem, line.OrderID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.Subtotal).Scan(&line.ID); err != nil {
				return err
			}

			order.Items = append(order.Items, line)
			order.TotalAmount = order.TotalAmount.Add(line.Subtotal)
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET total_amount=$1 WHERE id=$2`, order.TotalAmount, order.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

const orderColumns = `o.id, o.order_number, o.user_id, u.full_name, o.total_amount, o.status, o.created_at, o.updated_at`

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN users u ON u.id = o.user_id WHERE o.id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN users u ON u.id = o.user_id WHERE o.order_number=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserFullName, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *model.Order) error {
	const query = `SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *orderRepository) List(ctx context.Context, p model.Pagination) ([]model.Order, int64, error) {
	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders o JOIN users u ON u.id = o.user_id
                          ORDER BY o.created_at %s LIMIT $1 OFFSET $2`, orderClause(p.Direction))
	return r.listPage(ctx, query, `SELECT COUNT(*) FROM orders`, []any{p.Size, p.Offset()}, nil)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error) {
	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders o JOIN users u ON u.id = o.user_id
                          WHERE o.user_id=$1 ORDER BY o.created_at %s LIMIT $2 OFFSET $3`, orderClause(p.Direction))
	const countQuery = `SELECT COUNT(*) FROM orders WHERE user_id=$1`
	return r.listPage(ctx, query, countQuery, []any{userID, p.Size, p.Offset()}, []any{userID})
}

func (r *orderRepository) ListByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error) {
	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders o JOIN users u ON u.id = o.user_id
                          WHERE o.status=$1 ORDER BY o.created_at %s LIMIT $2 OFFSET $3`, orderClause(p.Direction))
	const countQuery = `SELECT COUNT(*) FROM orders WHERE status=$1`
	return r.listPage(ctx, query, countQuery, []any{status, p.Size, p.Offset()}, []any{status})
}

func (r *orderRepository) listPage(ctx context.Context, query, countQuery string, args, countArgs []any) ([]model.Order, int64, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserFullName, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	for i := range result {
		if err := r.loadItems(ctx, &result[i]); err != nil {
			return nil, 0, err
		}
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateStatus applies the status transition table under a row lock, so
// concurrent updates cannot race past a terminal state.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := lockOrderStatus(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !current.CanTransitionTo(status) {
			return fmt.Errorf("%w: cannot transition order from %s to %s", domainErrors.ErrIllegalState, current, status)
		}
		_, err = tx.Exec(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

// Cancel flips the order to CANCELLED and restores every reserved quantity
// inside the same transaction.
func (r *orderRepository) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		current, err := lockOrderStatus(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if current == model.OrderStatusDelivered {
			return fmt.Errorf("%w: cannot cancel a delivered order", domainErrors.ErrIllegalState)
		}
		if !current.CanTransitionTo(model.OrderStatusCancelled) {
			return fmt.Errorf("%w: cannot cancel order in status %s", domainErrors.ErrIllegalState, current)
		}

		rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM order_items WHERE order_id=$1`, orderID)
		if err != nil {
			return err
		}
		type line struct {
			productID int64
			quantity  int
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.productID, &l.quantity); err != nil {
				rows.Close()
				return err
			}
			lines = append(lines, l)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, l := range lines {
			if err := r.storage.releaseStockTx(ctx, tx, l.productID, l.quantity); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, model.OrderStatusCancelled, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func lockOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
		}
		return "", err
	}
	return status, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
