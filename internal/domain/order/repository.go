package order

import "github.com/supplychain/backend/internal/domain/shared"

// Repositories groups the persistence ports of the orders domain
type Repositories struct {
	Customers shared.Repository[Customer]
	Orders    shared.Repository[Order]
	Items     shared.Repository[Item]
	Shipments shared.Repository[Shipment]
}
