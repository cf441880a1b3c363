package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/product/domain"
)

var (
	ErrProductNotFound   = apperr.New(apperr.ErrNotFound, "product not found")
	ErrProductConstraint = apperr.New(apperr.ErrValidation, "product violates a price or stock constraint")
)

const (
	productColumns     = `id, name, description, price, stock, category, image_url, created_at`
	defaultSearchLimit = 50
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// SearchProducts matches name or description case-insensitively.
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &p.CreatedAt)
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(op+": query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error(op+": rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id`
	return r.queryProducts(ctx, "ListProducts", query)
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.CreatedAt)
	if err != nil {
		return translateWriteError("CreateProduct", err)
	}
	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return ErrProductNotFound
	}
	query := `UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category = $6, image_url = $7
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL)
	if err != nil {
		return translateWriteError("UpdateProduct", err)
	}
	return expectOneRow("UpdateProduct", res)
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrProductNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	return expectOneRow("DeleteProduct", res)
}

func (r *postgresProductRepository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	q := `SELECT ` + productColumns + ` FROM products
		WHERE name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY name, id
		LIMIT $2`
	return r.queryProducts(ctx, "SearchProducts", q, pattern, defaultSearchLimit)
}

func translateWriteError(op string, err error) error {
	if database.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrProductConstraint, err)
	}
	logger.Error(op+": exec failed", err)
	return err
}

func expectOneRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		logger.Error(op+": rows affected failed", err)
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
