//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/platform/database/dbtest"
)

func TestPostgresOrderRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := NewPostgresOrderRepository(db)
	ctx := context.Background()

	alice := dbtest.InsertUser(t, db, uuid.NewString(), "alice", "Alice Doe")
	bob := dbtest.InsertUser(t, db, uuid.NewString(), "bob", "Bob Roe")

	penID := uuid.NewString()
	_, err := db.Exec(`INSERT INTO products (id, name, price, stock) VALUES ($1, 'Pen', 2.00, 5)`, penID)
	require.NoError(t, err)

	newOrder := func(userID string, qty int) *domain.Order {
		items := []domain.OrderItem{{ProductID: penID, Price: decimal.RequireFromString("2.00"), Quantity: qty}}
		return &domain.Order{UserID: userID, Items: items, TotalAmount: domain.ComputeTotal(items)}
	}
	stockOf := func() int {
		var stock int
		require.NoError(t, db.QueryRow(`SELECT stock FROM products WHERE id = $1`, penID).Scan(&stock))
		return stock
	}

	t.Run("reservation fills the name snapshot and decrements stock", func(t *testing.T) {
		o := newOrder(alice, 3)
		require.NoError(t, repo.CreateOrderWithItems(ctx, o, true))
		assert.Equal(t, "Pen", o.Items[0].ProductName)
		assert.Equal(t, 2, stockOf())

		got, err := repo.GetOrderByID(ctx, o.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("6")))
		require.Len(t, got.Items, 1)
		assert.Equal(t, 3, got.Items[0].Quantity)
	})

	t.Run("price change leaves placed orders untouched", func(t *testing.T) {
		orders, err := repo.ListOrdersByUserID(ctx, alice, false)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		_, err = db.Exec(`UPDATE products SET price = 9.99 WHERE id = $1`, penID)
		require.NoError(t, err)
		t.Cleanup(func() { _, _ = db.Exec(`UPDATE products SET price = 2.00 WHERE id = $1`, penID) })

		got, err := repo.GetOrderByID(ctx, orders[0].ID, false)
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("6")))
		require.Len(t, got.Items, 1)
		assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("2.00")))
		assert.Equal(t, "Pen", got.Items[0].ProductName)
	})

	t.Run("insufficient stock aborts the whole order", func(t *testing.T) {
		err := repo.CreateOrderWithItems(ctx, newOrder(bob, 10), true)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, stockOf())

		orders, err := repo.ListOrdersByUserID(ctx, bob, true)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("unknown product", func(t *testing.T) {
		o := newOrder(bob, 1)
		o.Items[0].ProductID = uuid.NewString()
		assert.ErrorIs(t, repo.CreateOrderWithItems(ctx, o, true), ErrUnknownProduct)
	})

	t.Run("without reservation stock is untouched", func(t *testing.T) {
		require.NoError(t, repo.CreateOrderWithItems(ctx, newOrder(bob, 50), false))
		assert.Equal(t, 2, stockOf())
	})

	t.Run("unknown owner", func(t *testing.T) {
		assert.ErrorIs(t, repo.CreateOrderWithItems(ctx, newOrder(uuid.NewString(), 1), false), ErrUnknownUser)
	})

	t.Run("admin search matches user name and full name", func(t *testing.T) {
		orders, err := repo.ListOrders(ctx, domain.OrderFilter{Search: "ALICE"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "alice", orders[0].UserName)
		assert.Equal(t, "Alice Doe", orders[0].UserFullName)

		orders, err = repo.ListOrders(ctx, domain.OrderFilter{Search: "roe"})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("lock, update status and soft delete", func(t *testing.T) {
		orders, err := repo.ListOrdersByUserID(ctx, alice, false)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		id := orders[0].ID

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		locked, err := repo.LockOrder(ctx, tx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, locked.Status)
		require.NoError(t, repo.UpdateOrderStatus(ctx, tx, id, domain.StatusCancelled))
		require.NoError(t, repo.MarkOrderDeleted(ctx, tx, id))
		require.NoError(t, tx.Commit())

		_, err = repo.GetOrderByID(ctx, id, false)
		assert.ErrorIs(t, err, ErrOrderNotFound)

		deleted, err := repo.GetOrderByID(ctx, id, true)
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted)
		assert.Equal(t, domain.StatusCancelled, deleted.Status)

		visible, err := repo.ListOrders(ctx, domain.OrderFilter{})
		require.NoError(t, err)
		for _, o := range visible {
			assert.NotEqual(t, id, o.ID)
		}

		mine, err := repo.ListOrdersByUserID(ctx, alice, false)
		require.NoError(t, err)
		assert.Empty(t, mine)

		mine, err = repo.ListOrdersByUserID(ctx, alice, true)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, id, mine[0].ID)
	})

	t.Run("orders sharing products in opposite order all succeed", func(t *testing.T) {
		carol := dbtest.InsertUser(t, db, uuid.NewString(), "carol", "Carol Poe")
		inkID, padID := uuid.NewString(), uuid.NewString()
		_, err := db.Exec(`INSERT INTO products (id, name, price, stock) VALUES ($1, 'Ink', 1.00, 100), ($2, 'Pad', 1.00, 100)`, inkID, padID)
		require.NoError(t, err)

		twoItems := func(first, second string) *domain.Order {
			items := []domain.OrderItem{
				{ProductID: first, Price: decimal.RequireFromString("1.00"), Quantity: 1},
				{ProductID: second, Price: decimal.RequireFromString("1.00"), Quantity: 1},
			}
			return &domain.Order{UserID: carol, Items: items, TotalAmount: domain.ComputeTotal(items)}
		}

		const rounds = 20
		errs := make(chan error, 2*rounds)
		var wg sync.WaitGroup
		for _, pair := range [][2]string{{inkID, padID}, {padID, inkID}} {
			wg.Add(1)
			go func(first, second string) {
				defer wg.Done()
				for i := 0; i < rounds; i++ {
					errs <- repo.CreateOrderWithItems(ctx, twoItems(first, second), true)
				}
			}(pair[0], pair[1])
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		orders, err := repo.ListOrdersByUserID(ctx, carol, false)
		require.NoError(t, err)
		assert.Len(t, orders, 2*rounds)
		for _, o := range orders {
			require.Len(t, o.Items, 2)
		}

		var ink, pad int
		require.NoError(t, db.QueryRow(`SELECT stock FROM products WHERE id = $1`, inkID).Scan(&ink))
		require.NoError(t, db.QueryRow(`SELECT stock FROM products WHERE id = $1`, padID).Scan(&pad))
		assert.Equal(t, 100-2*rounds, ink)
		assert.Equal(t, 100-2*rounds, pad)
	})
}
