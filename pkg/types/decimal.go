package types

import "github.com/shopspring/decimal"

// The backend speaks bare JSON numbers for every money field, so decimals must
// not be quoted on the wire.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
