package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridloal/mini-store/internal/platform/apperr"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductInput carries the mutable fields of a product for create and update.
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
}

var (
	ErrNameRequired  = apperr.New(apperr.ErrValidation, "product name is required")
	ErrNegativePrice = apperr.New(apperr.ErrValidation, "price must not be negative")
	ErrNegativeStock = apperr.New(apperr.ErrValidation, "stock must not be negative")
)

func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Apply overwrites the mutable fields of p.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = in.Category
	p.ImageURL = in.ImageURL
}

// ExternalProduct is one item of the read-only external product feed.
type ExternalProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// ToInput maps a feed item onto a product with the given stock.
func (e ExternalProduct) ToInput(stock int) ProductInput {
	return ProductInput{
		Name:        e.Title,
		Description: e.Description,
		Price:       decimal.NewFromFloat(e.Price).Round(2),
		Stock:       stock,
		Category:    e.Category,
		ImageURL:    e.Image,
	}
}

// ExternalListing is a feed item presented as an unsaved product.
type ExternalListing struct {
	ExternalID int `json:"externalId"`
	ProductInput
}

// ImportRequest identifies the feed item to import.
type ImportRequest struct {
	ExternalID int `json:"externalId" binding:"required,gt=0"`
}

// ReindexResult reports a full search index rebuild.
type ReindexResult struct {
	Indexed int `json:"indexed"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}
