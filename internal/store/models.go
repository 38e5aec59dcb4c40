package store

import "time"

// Purchase is one saved calculator amount tagged with where it was spent.
type Purchase struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Location  string  `gorm:"size:255;index"`
	Amount    float64 `gorm:"not null"`
	Timestamp int64   `gorm:"index"`
	CreatedAt time.Time
}

// Time returns the purchase timestamp as a time.Time.
func (p Purchase) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}
