package domain

type ItemPopularity struct {
	Store string  `json:"store_name"`
	Item  string  `json:"item_name"`
	Units float64 `json:"units_sold"`
}

type DailySummary struct {
	Date            string  `json:"date"`
	CompletedOrders int64   `json:"completed_orders"`
	Revenue         float64 `json:"revenue"`
}
