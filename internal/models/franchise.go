package models

// Franchise aggregates its stores and the users administering it.
type Franchise struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Admins []User  `json:"admins,omitempty"`
	Stores []Store `json:"stores"`
}

// Store belongs to exactly one franchise. TotalRevenue is the sum of order
// item prices sold through the store; zero when no orders exist.
type Store struct {
	ID           int64   `json:"id"`
	FranchiseID  int64   `json:"franchiseId,omitempty"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}
