package models

import "time"

// SeasonStat holds the crop count and percentage share for one season.
type SeasonStat struct {
	Season     Season  `json:"season"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ChartBar is one bar of the crop production chart, with its height
// normalized against the largest quantity in the batch.
type ChartBar struct {
	CropName string  `json:"cropName"`
	Quantity float64 `json:"quantity"`
	Height   float64 `json:"height"` // percent of the chart track, capped at 90
}

// DashboardStats is the full derived state shown on the dashboard,
// recomputed from scratch on every collection snapshot.
type DashboardStats struct {
	TotalFarmers       int          `json:"totalFarmers"`
	TotalCrops         int          `json:"totalCrops"`
	TotalSales         int          `json:"totalSales"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TotalLandArea      float64      `json:"totalLandArea"`
	TotalQuantitySold  float64      `json:"totalQuantitySold"`
	SeasonDistribution []SeasonStat `json:"seasonDistribution"`
	Chart              []ChartBar   `json:"chart"`
}

// DailySnapshot is a persisted point-in-time copy of the dashboard stats,
// written once per scheduler run to the snapshots collection.
type DailySnapshot struct {
	Date              time.Time      `bson:"date" json:"date"`
	TotalFarmers      int            `bson:"total_farmers" json:"totalFarmers"`
	TotalCrops        int            `bson:"total_crops" json:"totalCrops"`
	TotalSales        int            `bson:"total_sales" json:"totalSales"`
	TotalRevenue      float64        `bson:"total_revenue" json:"totalRevenue"`
	TotalLandArea     float64        `bson:"total_land_area" json:"totalLandArea"`
	TotalQuantitySold float64        `bson:"total_quantity_sold" json:"totalQuantitySold"`
	SeasonCounts      map[string]int `bson:"season_counts" json:"seasonCounts"`
	CreatedAt         time.Time      `bson:"created_at" json:"createdAt"`
}
