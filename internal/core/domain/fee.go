package domain

import "github.com/shopspring/decimal"

// FeeType selects how the platform fee is applied at settlement time.
type FeeType string

const (
	FeePercentage FeeType = "PERCENTAGE"
	FeeFixed      FeeType = "FIXED"
)

// AdminFeeConfig is the platform fee configuration. It is stored as a single
// row and loaded per approval; the settlement engine receives it as a
// parameter rather than reading shared mutable state, so concurrent approvals
// each see a consistent snapshot.
//
// For FeePercentage, FeeAmount is a percentage (5 means 5%). For FeeFixed it
// is a flat amount in currency units.
type AdminFeeConfig struct {
	FeeAmount decimal.Decimal `json:"feeAmount"`
	FeeType   FeeType         `json:"feeType"`
	AuditFields
}
