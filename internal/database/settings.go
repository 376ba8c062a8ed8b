package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const settingsColumns = `tenant_id, tax_rate, delivery_enabled, collection_enabled, advance_enabled,
	slot_interval, opening_hours, email_from_name, email_accent_color, email_logo_url, email_footer, updated_at`

func scanSettings(row interface{ Scan(dest ...any) error }) (TenantSettings, error) {
	var s TenantSettings
	err := row.Scan(&s.TenantID, &s.TaxRate, &s.DeliveryEnabled, &s.CollectionEnabled,
		&s.AdvanceEnabled, &s.SlotInterval, &s.OpeningHours, &s.EmailFromName,
		&s.EmailAccentColor, &s.EmailLogoURL, &s.EmailFooter, &s.UpdatedAt)
	return s, err
}

func (q *Queries) GetSettings(ctx context.Context, tenantID uuid.UUID) (TenantSettings, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM tenant_settings
		WHERE tenant_id = $1`, tenantID)
	return scanSettings(row)
}

type UpsertSettingsParams struct {
	TenantID          uuid.UUID
	TaxRate           pgtype.Numeric
	DeliveryEnabled   bool
	CollectionEnabled bool
	AdvanceEnabled    bool
	SlotInterval      int32
	OpeningHours      []byte
	EmailFromName     pgtype.Text
	EmailAccentColor  pgtype.Text
	EmailLogoURL      pgtype.Text
	EmailFooter       pgtype.Text
}

// UpsertSettings writes the full settings row; the admin UI always submits
// the complete form, so there is no partial update path.
func (q *Queries) UpsertSettings(ctx context.Context, arg UpsertSettingsParams) (TenantSettings, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tenant_settings (
			tenant_id, tax_rate, delivery_enabled, collection_enabled, advance_enabled,
			slot_interval, opening_hours, email_from_name, email_accent_color,
			email_logo_url, email_footer, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (tenant_id) DO UPDATE SET
			tax_rate = EXCLUDED.tax_rate,
			delivery_enabled = EXCLUDED.delivery_enabled,
			collection_enabled = EXCLUDED.collection_enabled,
			advance_enabled = EXCLUDED.advance_enabled,
			slot_interval = EXCLUDED.slot_interval,
			opening_hours = EXCLUDED.opening_hours,
			email_from_name = EXCLUDED.email_from_name,
			email_accent_color = EXCLUDED.email_accent_color,
			email_logo_url = EXCLUDED.email_logo_url,
			email_footer = EXCLUDED.email_footer,
			updated_at = now()
		RETURNING `+settingsColumns,
		arg.TenantID, arg.TaxRate, arg.DeliveryEnabled, arg.CollectionEnabled,
		arg.AdvanceEnabled, arg.SlotInterval, arg.OpeningHours, arg.EmailFromName,
		arg.EmailAccentColor, arg.EmailLogoURL, arg.EmailFooter)
	return scanSettings(row)
}
