package models

// DashboardStats is the aggregate view served by /products/stats.
type DashboardStats struct {
	TotalProducts       int64            `json:"totalProducts"`
	UniqueTypes         int64            `json:"uniqueTypes"`
	UniqueFarms         int64            `json:"uniqueFarms"`
	ProductsByType      map[string]int64 `json:"productsByType"`
	RecentProducts      []Product        `json:"recentProducts"`
	TotalTrackingStages int64            `json:"totalTrackingStages"`
}
