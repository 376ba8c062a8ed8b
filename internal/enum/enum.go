// Package enum defines string constants for values that are CHECK
// constrained in the database schema.
package enum

const (
	OrderStatusNew       = "NEW"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	UserRoleSuperadmin = "SUPERADMIN"
	UserRoleAdmin      = "ADMIN"
	UserRoleStaff      = "STAFF"
)

const (
	OrderTypeDelivery   = "DELIVERY"
	OrderTypeCollection = "COLLECTION"
	OrderTypeAdvance    = "ADVANCE"
)

const (
	VoucherTypeAmount     = "AMOUNT"
	VoucherTypePercentage = "PERCENTAGE"
)

// Time modes live only in the opening-hours JSON, not in a table constraint.
const (
	TimeModeSingle = "SINGLE"
	TimeModeSplit  = "SPLIT"
)
