package models

import "time"

// DinerOrder is one purchase by a diner at a store. Date is set by the
// store at insert time and immutable thereafter.
type DinerOrder struct {
	ID          int64       `json:"id"`
	DinerID     int64       `json:"dinerId,omitempty"`
	FranchiseID int64       `json:"franchiseId"`
	StoreID     int64       `json:"storeId"`
	Date        time.Time   `json:"date,omitempty"`
	Items       []OrderItem `json:"items"`
}

// OrderItem captures a menu item at the price it was sold for, independent
// of later catalog changes.
type OrderItem struct {
	ID          int64   `json:"id,omitempty"`
	MenuID      int64   `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// OrderPage is one page of a diner's order history.
type OrderPage struct {
	DinerID int64        `json:"dinerId"`
	Orders  []DinerOrder `json:"orders"`
	Page    int          `json:"page"`
}
