package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
)

var (
	ErrOrderNotFound     = apperr.New(apperr.ErrNotFound, "order not found")
	ErrUnknownProduct    = apperr.New(apperr.ErrValidation, "order references an unknown product")
	ErrInsufficientStock = apperr.New(apperr.ErrConflict, "insufficient stock")
	ErrUnknownUser       = apperr.New(apperr.ErrNotFound, "order owner not found")
)

const orderColumns = `o.id, o.user_id, o.total_amount, o.status, o.is_deleted, o.created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type OrderRepository interface {
	BeginTx(ctx context.Context) (database.DBTX, error)
	// CreateOrderWithItems stores the order and its items in one transaction. With reserveStock
	// each item's quantity is taken from product stock in that transaction.
	CreateOrderWithItems(ctx context.Context, order *domain.Order, reserveStock bool) error
	GetOrderByID(ctx context.Context, id string, includeDeleted bool) (*domain.Order, error)
	// LockOrder loads a non-deleted order header and locks its row until tx ends.
	LockOrder(ctx context.Context, tx database.DBTX, id string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string, includeDeleted bool) ([]domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, dbops database.Querier, id string, status domain.OrderStatus) error
	MarkOrderDeleted(ctx context.Context, dbops database.Querier, id string) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresOrderRepository) CreateOrderWithItems(ctx context.Context, order *domain.Order, reserveStock bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateOrderWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	orderQuery := `INSERT INTO orders (id, user_id, total_amount, status, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)`
	if _, err := tx.ExecContext(ctx, orderQuery, order.ID, order.UserID, order.TotalAmount, order.Status, order.CreatedAt); err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrUnknownUser
		}
		logger.Error("CreateOrderWithItems: failed to insert order", err)
		return err
	}

	if reserveStock {
		for _, i := range reservationOrder(order.Items) {
			item := &order.Items[i]
			name, err := reserveProductStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if item.ProductName == "" {
				item.ProductName = name
			}
		}
	}

	itemQuery := `INSERT INTO order_items (id, order_id, position, product_id, product_name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range order.Items {
		item := &order.Items[i]
		if _, err := tx.ExecContext(ctx, itemQuery, uuid.NewString(), order.ID, i, item.ProductID, item.ProductName, item.Price, item.Quantity); err != nil {
			logger.Error("CreateOrderWithItems: failed to insert order item", err, zap.String("product_id", item.ProductID))
			return err
		}
	}

	return tx.Commit()
}

// reservationOrder returns item indexes sorted by product id. Every order locks product rows in
// that order, so two orders sharing products cannot deadlock.
func reservationOrder(items []domain.OrderItem) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return items[idx[a]].ProductID < items[idx[b]].ProductID
	})
	return idx
}

// reserveProductStock decrements stock only when enough is left, so stock never goes negative
// under concurrent orders.
func reserveProductStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2 RETURNING name`,
		productID, quantity,
	).Scan(&name)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("CreateOrderWithItems: stock reservation failed", err, zap.String("product_id", productID))
		return "", err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	return "", fmt.Errorf("%w: product %s cannot supply %d", ErrInsufficientStock, productID, quantity)
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string, includeDeleted bool) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND ($2 OR NOT o.is_deleted)`
	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id, includeDeleted).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.IsDeleted, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}

	orders := []domain.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresOrderRepository) LockOrder(ctx context.Context, tx database.DBTX, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1 AND NOT o.is_deleted FOR UPDATE`
	var o domain.Order
	err := tx.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.IsDeleted, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("LockOrder: query failed", err)
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string, includeDeleted bool) ([]domain.Order, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []domain.Order{}, nil
	}
	query := `SELECT ` + orderColumns + ` FROM orders o
		WHERE o.user_id = $1 AND ($2 OR NOT o.is_deleted)
		ORDER BY o.created_at DESC, o.id`
	rows, err := r.db.QueryContext(ctx, query, userID, includeDeleted)
	if err != nil {
		logger.Error("ListOrdersByUserID: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.IsDeleted, &o.CreatedAt); err != nil {
			logger.Error("ListOrdersByUserID: scan failed", err)
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	search := strings.TrimSpace(filter.Search)
	query := `SELECT ` + orderColumns + `, u.user_name, u.full_name
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE ($1 OR NOT o.is_deleted)
		  AND ($2 = '' OR u.user_name ILIKE $3 ESCAPE '\' OR u.full_name ILIKE $3 ESCAPE '\' OR o.id::text ILIKE $3 ESCAPE '\')
		ORDER BY o.created_at DESC, o.id`
	pattern := "%" + likeEscaper.Replace(search) + "%"

	rows, err := r.db.QueryContext(ctx, query, filter.IncludeDeleted, search, pattern)
	if err != nil {
		logger.Error("ListOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.IsDeleted, &o.CreatedAt, &o.UserName, &o.UserFullName); err != nil {
			logger.Error("ListOrders: scan failed", err)
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, dbops database.Querier, id string, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2 AND NOT is_deleted`
	res, err := dbops.ExecContext(ctx, query, status, id)
	if err != nil {
		logger.Error("UpdateOrderStatus: exec failed", err, zap.String("order_id", id), zap.String("new_status", string(status)))
		return err
	}
	return expectOneRow(res)
}

func (r *postgresOrderRepository) MarkOrderDeleted(ctx context.Context, dbops database.Querier, id string) error {
	res, err := dbops.ExecContext(ctx, `UPDATE orders SET is_deleted = TRUE WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		logger.Error("MarkOrderDeleted: exec failed", err, zap.String("order_id", id))
		return err
	}
	return expectOneRow(res)
}

// loadItems fills Items for every order with a single query.
func (r *postgresOrderRepository) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = i
		orders[i].Items = []domain.OrderItem{}
	}

	query := `SELECT order_id, product_id, product_name, price, quantity
		FROM order_items
		WHERE order_id::text = ANY($1::text[])
		ORDER BY order_id, position`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("loadItems: query failed", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity); err != nil {
			logger.Error("loadItems: scan failed", err)
			return err
		}
		if i, ok := byID[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
