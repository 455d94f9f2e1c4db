// Package types contains common types used across the application
package types

// Entry represents one row of a standings table, driver or constructor.
type Entry struct {
	Rank    int     `json:"rank"`
	ID      string  `json:"id"`
	Points  float64 `json:"points"`
	Wins    int     `json:"wins"`
	Podiums int     `json:"podiums"`
}

// Point is one step of a driver's cumulative points progression.
type Point struct {
	Round  int     `json:"round"`
	Points float64 `json:"points"`
}
