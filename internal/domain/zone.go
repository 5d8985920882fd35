package domain

import "github.com/shopspring/decimal"

// Zone represents a capacity-bounded parking area within a site.
// Available only moves through registry reserve/release and stays in
// [0, Capacity].
type Zone struct {
	ID                  string
	SiteID              string
	Name                string
	Capacity            int
	Available           int
	HourlyTariff        decimal.Decimal
	PermittedCategories []VehicleCategory
}

// Permits reports whether the zone admits the given category. An empty
// permitted set means no restriction.
func (z Zone) Permits(cat VehicleCategory) bool {
	if len(z.PermittedCategories) == 0 {
		return true
	}
	for _, c := range z.PermittedCategories {
		if c == cat {
			return true
		}
	}
	return false
}
