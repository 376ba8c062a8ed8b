package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const zoneColumns = `id, tenant_id, name, postcodes, delivery_fee, sort_order, is_active`

func scanZone(row interface{ Scan(dest ...any) error }) (DeliveryZone, error) {
	var z DeliveryZone
	err := row.Scan(&z.ID, &z.TenantID, &z.Name, &z.Postcodes, &z.DeliveryFee, &z.SortOrder, &z.IsActive)
	return z, err
}

// ListDeliveryZonesByTenant returns active zones in resolution order.
func (q *Queries) ListDeliveryZonesByTenant(ctx context.Context, tenantID uuid.UUID) ([]DeliveryZone, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+zoneColumns+` FROM delivery_zones
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY sort_order, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []DeliveryZone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

type CreateDeliveryZoneParams struct {
	TenantID    uuid.UUID
	Name        string
	Postcodes   []string
	DeliveryFee pgtype.Numeric
	SortOrder   int32
}

func (q *Queries) CreateDeliveryZone(ctx context.Context, arg CreateDeliveryZoneParams) (DeliveryZone, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO delivery_zones (tenant_id, name, postcodes, delivery_fee, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+zoneColumns,
		arg.TenantID, arg.Name, arg.Postcodes, arg.DeliveryFee, arg.SortOrder)
	return scanZone(row)
}

type UpdateDeliveryZoneParams struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Postcodes   []string
	DeliveryFee pgtype.Numeric
	SortOrder   int32
}

func (q *Queries) UpdateDeliveryZone(ctx context.Context, arg UpdateDeliveryZoneParams) (DeliveryZone, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE delivery_zones
		SET name = $3, postcodes = $4, delivery_fee = $5, sort_order = $6
		WHERE id = $1 AND tenant_id = $2 AND is_active = TRUE
		RETURNING `+zoneColumns,
		arg.ID, arg.TenantID, arg.Name, arg.Postcodes, arg.DeliveryFee, arg.SortOrder)
	return scanZone(row)
}

type SoftDeleteDeliveryZoneParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) SoftDeleteDeliveryZone(ctx context.Context, arg SoftDeleteDeliveryZoneParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE delivery_zones
		SET is_active = FALSE
		WHERE id = $1 AND tenant_id = $2 AND is_active = TRUE
		RETURNING id`, arg.ID, arg.TenantID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
