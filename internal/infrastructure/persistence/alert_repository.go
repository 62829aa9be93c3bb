package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormAlertRepository persists delivery alerts together with the shipments
// and routes they affect.
type GormAlertRepository struct {
	*GormRepository[tracking.DeliveryAlert]
}

// NewGormAlertRepository creates the alert repository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{
		GormRepository: NewGormRepository[tracking.DeliveryAlert](db, QuerySpec{
			Resource: "Delivery alert",
			Filters: map[string]FilterField{
				"alert_type":  Eq("alert_type"),
				"priority":    Eq("priority"),
				"is_resolved": Flag("is_resolved"),
			},
			Search:      Cols("title", "message"),
			Sorts:       SortKeys("created_at", "priority", "alert_type"),
			DefaultSort: "created_at DESC",
		}),
	}
}

// FindByID loads an alert with its affected ids
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID, scope shared.Scope) (*tracking.DeliveryAlert, error) {
	alert, err := r.GormRepository.FindByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if err := r.loadLinks(ctx, []*tracking.DeliveryAlert{alert}); err != nil {
		return nil, err
	}
	return alert, nil
}

// FindAll lists alerts with their affected ids
func (r *GormAlertRepository) FindAll(ctx context.Context, filter shared.Filter, scope shared.Scope) ([]tracking.DeliveryAlert, int64, error) {
	alerts, total, err := r.GormRepository.FindAll(ctx, filter, scope)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*tracking.DeliveryAlert, len(alerts))
	for i := range alerts {
		ptrs[i] = &alerts[i]
	}
	if err := r.loadLinks(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// Create inserts the alert and its links in one transaction
func (r *GormAlertRepository) Create(ctx context.Context, alert *tracking.DeliveryAlert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormRepository[tracking.DeliveryAlert](tx, r.spec).Create(ctx, alert); err != nil {
			return err
		}
		return writeLinks(tx, alert)
	})
}

// Save replaces the alert and its links in one transaction
func (r *GormAlertRepository) Save(ctx context.Context, alert *tracking.DeliveryAlert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormRepository[tracking.DeliveryAlert](tx, r.spec).Save(ctx, alert); err != nil {
			return err
		}
		if err := tx.Where("alert_id = ?", alert.ID).Delete(&tracking.AlertShipment{}).Error; err != nil {
			return fmt.Errorf("clear alert shipments: %w", err)
		}
		if err := tx.Where("alert_id = ?", alert.ID).Delete(&tracking.AlertRoute{}).Error; err != nil {
			return fmt.Errorf("clear alert routes: %w", err)
		}
		return writeLinks(tx, alert)
	})
}

func writeLinks(tx *gorm.DB, alert *tracking.DeliveryAlert) error {
	if len(alert.AffectedShipmentIDs) > 0 {
		rows := make([]tracking.AlertShipment, 0, len(alert.AffectedShipmentIDs))
		for _, id := range alert.AffectedShipmentIDs {
			rows = append(rows, tracking.AlertShipment{AlertID: alert.ID, ShipmentID: id})
		}
		if err := tx.Omit("Alert", "Shipment").Create(&rows).Error; err != nil {
			return fmt.Errorf("link alert shipments: %w", err)
		}
	}
	if len(alert.AffectedRouteIDs) > 0 {
		rows := make([]tracking.AlertRoute, 0, len(alert.AffectedRouteIDs))
		for _, id := range alert.AffectedRouteIDs {
			rows = append(rows, tracking.AlertRoute{AlertID: alert.ID, RouteID: id})
		}
		if err := tx.Omit("Alert", "Route").Create(&rows).Error; err != nil {
			return fmt.Errorf("link alert routes: %w", err)
		}
	}
	return nil
}

func (r *GormAlertRepository) loadLinks(ctx context.Context, alerts []*tracking.DeliveryAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*tracking.DeliveryAlert, len(alerts))
	ids := make([]uuid.UUID, 0, len(alerts))
	for _, a := range alerts {
		a.AffectedShipmentIDs = []uuid.UUID{}
		a.AffectedRouteIDs = []uuid.UUID{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	var shipments []tracking.AlertShipment
	if err := r.db.WithContext(ctx).Where("alert_id IN ?", ids).Order("shipment_id").Find(&shipments).Error; err != nil {
		return fmt.Errorf("load alert shipments: %w", err)
	}
	for _, s := range shipments {
		a := byID[s.AlertID]
		a.AffectedShipmentIDs = append(a.AffectedShipmentIDs, s.ShipmentID)
	}

	var routes []tracking.AlertRoute
	if err := r.db.WithContext(ctx).Where("alert_id IN ?", ids).Order("route_id").Find(&routes).Error; err != nil {
		return fmt.Errorf("load alert routes: %w", err)
	}
	for _, rt := range routes {
		a := byID[rt.AlertID]
		a.AffectedRouteIDs = append(a.AffectedRouteIDs, rt.RouteID)
	}
	return nil
}
