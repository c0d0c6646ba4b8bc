package models

import "time"

// DayHours is the open/close window for one weekday, in minutes from
// midnight. A zero-value DayHours means the clinic is closed that day.
type DayHours struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Closed reports whether the day has no bookable window.
func (d DayHours) Closed() bool {
	return d.Close <= d.Open
}

// WorkingHours maps weekdays to clinic opening windows. The config is
// immutable once loaded.
type WorkingHours map[time.Weekday]DayHours

// ServiceCatalog maps service types to their canonical duration in
// minutes. Unknown services fall back to DefaultServiceDuration.
type ServiceCatalog map[string]int

// DefaultServiceDuration applies when a service type is not in the catalog.
const DefaultServiceDuration = 60

// Duration returns the canonical duration for a service type.
func (c ServiceCatalog) Duration(serviceType string) int {
	if d, ok := c[serviceType]; ok {
		return d
	}
	return DefaultServiceDuration
}

// DefaultWorkingHours is the standing clinic week: weekdays 09:00-17:00,
// Saturday 09:00-14:00, Sunday closed.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		time.Monday:    {Open: 9 * 60, Close: 17 * 60},
		time.Tuesday:   {Open: 9 * 60, Close: 17 * 60},
		time.Wednesday: {Open: 9 * 60, Close: 17 * 60},
		time.Thursday:  {Open: 9 * 60, Close: 17 * 60},
		time.Friday:    {Open: 9 * 60, Close: 17 * 60},
		time.Saturday:  {Open: 9 * 60, Close: 14 * 60},
	}
}

// DefaultServiceCatalog lists the clinic's offered services.
func DefaultServiceCatalog() ServiceCatalog {
	return ServiceCatalog{
		"checkup":      30,
		"cleaning":     60,
		"filling":      45,
		"extraction":   60,
		"whitening":    90,
		"consultation": 30,
		"emergency":    60,
	}
}
