package inventory

import "github.com/supplychain/backend/internal/domain/shared"

// Repositories groups the persistence ports of the inventory domain
type Repositories struct {
	Categories   shared.Repository[Category]
	Products     shared.Repository[Product]
	Warehouses   shared.Repository[Warehouse]
	StockLevels  shared.Repository[StockLevel]
	Transactions shared.Repository[Transaction]
}
