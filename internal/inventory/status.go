package inventory

import (
	"time"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// ExpiringSoonWindow is how far ahead an expiry date counts as "expiring soon".
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Classify maps an item to exactly one display bucket. Rules are evaluated in
// fixed priority order and the first match wins: out of stock, expired,
// expiring soon, low stock, normal. An item with minimum stock zero is never
// low stock.
func Classify(item types.InventoryItem, now time.Time) enums.InventoryStatus {
	if item.Quantity <= 0 {
		return enums.InventoryStatusOutOfStock
	}
	if item.ExpiryDate != nil {
		if item.ExpiryDate.Before(now) {
			return enums.InventoryStatusExpired
		}
		if item.ExpiryDate.Sub(now) <= ExpiringSoonWindow {
			return enums.InventoryStatusExpiringSoon
		}
	}
	if item.MinimumStock > 0 && item.Quantity <= item.MinimumStock {
		return enums.InventoryStatusLowStock
	}
	return enums.InventoryStatusNormal
}

// Alerts are the dashboard's warning sets. Unlike Classify these are computed
// independently, so one item can appear in more than one set (low stock and
// expiring soon at once).
type Alerts struct {
	LowStock     []types.InventoryItem
	ExpiringSoon []types.InventoryItem
	Expired      []types.InventoryItem
}

// BuildAlerts scans the full item list and fills each warning set.
func BuildAlerts(items []types.InventoryItem, now time.Time) Alerts {
	var alerts Alerts
	for _, item := range items {
		if item.Quantity > 0 && item.MinimumStock > 0 && item.Quantity <= item.MinimumStock {
			alerts.LowStock = append(alerts.LowStock, item)
		}
		if item.ExpiryDate == nil {
			continue
		}
		if item.ExpiryDate.Before(now) {
			alerts.Expired = append(alerts.Expired, item)
		} else if item.ExpiryDate.Sub(now) <= ExpiringSoonWindow {
			alerts.ExpiringSoon = append(alerts.ExpiringSoon, item)
		}
	}
	return alerts
}
