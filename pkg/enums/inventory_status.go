package enums

import "fmt"

// InventoryStatus is the mutually exclusive display bucket for a stock item.
// It is derived from quantity, minimum stock and expiry date at read time and
// never persisted.
type InventoryStatus string

const (
	InventoryStatusNormal       InventoryStatus = "normal"
	InventoryStatusLowStock     InventoryStatus = "low_stock"
	InventoryStatusOutOfStock   InventoryStatus = "out_of_stock"
	InventoryStatusExpiringSoon InventoryStatus = "expiring_soon"
	InventoryStatusExpired      InventoryStatus = "expired"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusNormal,
	InventoryStatusLowStock,
	InventoryStatusOutOfStock,
	InventoryStatusExpiringSoon,
	InventoryStatusExpired,
}

// String implements fmt.Stringer.
func (i InventoryStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is known.
func (i InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw input into an InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
