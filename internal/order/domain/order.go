package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ridloal/mini-store/internal/platform/apperr"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

var AllStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled}

var (
	ErrUnknownStatus = apperr.New(apperr.ErrValidation, "unknown order status")
	ErrEmptyOrder    = apperr.New(apperr.ErrValidation, "order must contain at least one item")
	ErrInvalidItem   = apperr.New(apperr.ErrValidation, "invalid order item")
)

// ParseOrderStatus accepts the status name in any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	name := strings.TrimSpace(s)
	for _, st := range AllStatuses {
		if strings.EqualFold(name, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal move on the customer-facing state machine.
// The admin status override does not consult it.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false
	default:
		return false
	}
}

type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	UserName     string          `json:"userName,omitempty"`
	UserFullName string          `json:"userFullName,omitempty"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	IsDeleted    bool            `json:"isDeleted"`
	CreatedAt    time.Time       `json:"createdAt"`
	Items        []OrderItem     `json:"items"`
}

// OrderItem snapshots the product name and price at the moment the order was placed.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderFilter narrows the admin order listing. Search matches the owner's user name or full
// name, or the order id, case-insensitively.
type OrderFilter struct {
	Search         string
	IncludeDeleted bool
}

type CreateOrderItemRequest struct {
	ProductID   string          `json:"productId" binding:"required"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"dive"`
}

// Validate checks the request and returns the item snapshots to persist.
func (r CreateOrderRequest) Validate() ([]OrderItem, error) {
	if len(r.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	items := make([]OrderItem, 0, len(r.Items))
	for i, it := range r.Items {
		if _, err := uuid.Parse(it.ProductID); err != nil {
			return nil, fmt.Errorf("%w: item %d has an invalid product id", ErrInvalidItem, i)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidItem, i)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d price must not be negative", ErrInvalidItem, i)
		}
		items = append(items, OrderItem{
			ProductID:   it.ProductID,
			ProductName: strings.TrimSpace(it.ProductName),
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}
	return items, nil
}

type CreateOrderResponse struct {
	ID string `json:"id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type StatusResponse struct {
	ID     string      `json:"id"`
	Status OrderStatus `json:"status"`
}
