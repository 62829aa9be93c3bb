package partner

import "github.com/supplychain/backend/internal/domain/shared"

// Repositories groups the persistence ports of the partner domain
type Repositories struct {
	Customers        shared.Repository[Customer]
	Suppliers        shared.Repository[Supplier]
	CustomerContacts shared.Repository[CustomerContact]
	SupplierContacts shared.Repository[SupplierContact]
	CustomerRatings  shared.Repository[CustomerRating]
	SupplierRatings  shared.Repository[SupplierRating]
}
