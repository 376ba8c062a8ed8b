package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const voucherColumns = `id, tenant_id, code, type, value, min_order, max_discount, expires_at, redemptions, is_active, created_at`

func scanVoucher(row interface{ Scan(dest ...any) error }) (Voucher, error) {
	var v Voucher
	err := row.Scan(&v.ID, &v.TenantID, &v.Code, &v.Type, &v.Value, &v.MinOrder,
		&v.MaxDiscount, &v.ExpiresAt, &v.Redemptions, &v.IsActive, &v.CreatedAt)
	return v, err
}

func (q *Queries) ListVouchersByTenant(ctx context.Context, tenantID uuid.UUID) ([]Voucher, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+voucherColumns+` FROM vouchers
		WHERE tenant_id = $1
		ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

// ListActiveVouchersByTenant returns only vouchers eligible for validation.
func (q *Queries) ListActiveVouchersByTenant(ctx context.Context, tenantID uuid.UUID) ([]Voucher, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+voucherColumns+` FROM vouchers
		WHERE tenant_id = $1 AND is_active = TRUE`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

type CreateVoucherParams struct {
	TenantID    uuid.UUID
	Code        string
	Type        string
	Value       pgtype.Numeric
	MinOrder    pgtype.Numeric
	MaxDiscount pgtype.Numeric
	ExpiresAt   pgtype.Timestamptz
}

func (q *Queries) CreateVoucher(ctx context.Context, arg CreateVoucherParams) (Voucher, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO vouchers (tenant_id, code, type, value, min_order, max_discount, expires_at)
		VALUES ($1, upper($2), $3, $4, $5, $6, $7)
		RETURNING `+voucherColumns,
		arg.TenantID, arg.Code, arg.Type, arg.Value, arg.MinOrder, arg.MaxDiscount, arg.ExpiresAt)
	return scanVoucher(row)
}

type UpdateVoucherParams struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Type        string
	Value       pgtype.Numeric
	MinOrder    pgtype.Numeric
	MaxDiscount pgtype.Numeric
	ExpiresAt   pgtype.Timestamptz
	IsActive    bool
}

func (q *Queries) UpdateVoucher(ctx context.Context, arg UpdateVoucherParams) (Voucher, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE vouchers
		SET type = $3, value = $4, min_order = $5, max_discount = $6,
		    expires_at = $7, is_active = $8
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+voucherColumns,
		arg.ID, arg.TenantID, arg.Type, arg.Value, arg.MinOrder, arg.MaxDiscount,
		arg.ExpiresAt, arg.IsActive)
	return scanVoucher(row)
}

type SoftDeleteVoucherParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) SoftDeleteVoucher(ctx context.Context, arg SoftDeleteVoucherParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE vouchers
		SET is_active = FALSE
		WHERE id = $1 AND tenant_id = $2 AND is_active = TRUE
		RETURNING id`, arg.ID, arg.TenantID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

type IncrementVoucherRedemptionsParams struct {
	TenantID uuid.UUID
	Code     string
}

// IncrementVoucherRedemptions bumps the redemption counter when an order
// using the voucher is created.
func (q *Queries) IncrementVoucherRedemptions(ctx context.Context, arg IncrementVoucherRedemptionsParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE vouchers
		SET redemptions = redemptions + 1
		WHERE tenant_id = $1 AND code = upper($2)`,
		arg.TenantID, arg.Code)
	return err
}
