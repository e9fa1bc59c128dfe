package models

// ZoneMetrics is one zone's reading for a simulation tick.
// Speed and Variance are optional; movement adjustment needs both.
type ZoneMetrics struct {
	ZoneID      string   `json:"zone_id" validate:"required"`
	Row         int      `json:"row" validate:"gte=0"`
	Col         int      `json:"col" validate:"gte=0"`
	Density     *float64 `json:"density" validate:"required,gte=0"`
	PeopleCount int      `json:"people_count" validate:"gte=0"`
	Speed       *float64 `json:"speed,omitempty" validate:"omitempty,gte=0"`
	Variance    *float64 `json:"direction_variance,omitempty" validate:"omitempty,gte=0"`
}

// HasMovement reports whether both movement signals are present
func (z ZoneMetrics) HasMovement() bool {
	return z.Speed != nil && z.Variance != nil
}

// ZoneBatch is the ordered set of zone readings for one tick
type ZoneBatch struct {
	Tick  int64         `json:"tick"`
	Zones []ZoneMetrics `json:"zones" binding:"required"`
}

// Float returns a pointer to v, for optional metric fields
func Float(v float64) *float64 {
	return &v
}
