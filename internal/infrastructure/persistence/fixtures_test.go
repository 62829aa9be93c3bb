package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/finance"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/tests/testutil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t, Models()...)
}

func insert(t *testing.T, db *gorm.DB, records ...any) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, db.Omit(clause.Associations).Create(r).Error)
	}
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *inventory.Category {
	t.Helper()
	c := &inventory.Category{BaseEntity: shared.NewBaseEntity(), Name: name}
	insert(t, db, c)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, category *inventory.Category, sku, name, price string) *inventory.Product {
	t.Helper()
	p := &inventory.Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		CategoryID: category.ID,
		UnitPrice:  decimal.RequireFromString(price),
		IsActive:   shared.Ptr(true),
	}
	insert(t, db, p)
	return p
}

func seedWarehouse(t *testing.T, db *gorm.DB, name, city string) *inventory.Warehouse {
	t.Helper()
	w := &inventory.Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    "1 Dock Road",
		City:       city,
		State:      "CA",
		Country:    "USA",
		PostalCode: "90001",
		Capacity:   1000,
		IsActive:   shared.Ptr(true),
	}
	insert(t, db, w)
	return w
}

func seedStock(t *testing.T, db *gorm.DB, p *inventory.Product, w *inventory.Warehouse, qty int) *inventory.StockLevel {
	t.Helper()
	s := &inventory.StockLevel{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    p.ID,
		WarehouseID:  w.ID,
		Quantity:     qty,
		ReorderLevel: shared.Ptr(inventory.DefaultReorderLevel),
		LastUpdated:  time.Now(),
	}
	insert(t, db, s)
	return s
}

func seedCustomer(t *testing.T, db *gorm.DB, name, email string, active bool) *order.Customer {
	t.Helper()
	c := &order.Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Address:    "2 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "USA",
		PostalCode: "62701",
		IsActive:   shared.Ptr(active),
	}
	insert(t, db, c)
	return c
}

func seedOrder(t *testing.T, db *gorm.DB, c *order.Customer, number string) *order.Order {
	t.Helper()
	o := &order.Order{
		BaseEntity:      shared.NewBaseEntity(),
		OrderNumber:     number,
		CustomerID:      c.ID,
		Status:          order.StatusPending,
		TotalAmount:     decimal.NewFromInt(100),
		ShippingAddress: "2 Main St",
	}
	insert(t, db, o)
	return o
}

func seedInvoice(t *testing.T, db *gorm.DB, o *order.Order, number string, status finance.InvoiceStatus, date shared.Date, total int64) *finance.Invoice {
	t.Helper()
	inv := &finance.Invoice{
		BaseEntity:    shared.NewBaseEntity(),
		InvoiceNumber: number,
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		InvoiceDate:   date,
		DueDate:       date.AddDays(30),
		Status:        status,
		Amounts: finance.Amounts{
			Subtotal:    decimal.NewFromInt(total),
			TotalAmount: decimal.NewFromInt(total),
		},
	}
	insert(t, db, inv)
	return inv
}

func ids[T any, P interface {
	*T
	GetID() uuid.UUID
}](items []T) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]).GetID())
	}
	return out
}
