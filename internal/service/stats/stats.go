// Package stats holds the derived-state computations behind the dashboard
// and list filters. Everything here is pure and recomputed in full on every
// snapshot change; there is no incremental state.
package stats

import (
	"strings"

	"agrismart/internal/domain/models"
)

// maxBarHeight caps chart bars at 90% of the track to leave label headroom.
const maxBarHeight = 90.0

// Compute derives the full dashboard state from the current snapshots.
func Compute(farmers []models.Farmer, crops []models.Crop, sales []models.Sale) models.DashboardStats {
	stats := models.DashboardStats{
		TotalFarmers:       len(farmers),
		TotalCrops:         len(crops),
		TotalSales:         len(sales),
		SeasonDistribution: SeasonDistribution(crops),
		Chart:              BarHeights(crops),
	}

	for _, f := range farmers {
		stats.TotalLandArea += f.LandArea
	}
	for _, s := range sales {
		stats.TotalRevenue += s.TotalPrice
		stats.TotalQuantitySold += s.QuantitySold
	}

	return stats
}

// SeasonDistribution counts crops per season over the fixed season set.
// The percentage denominator is floored at 1 so an empty collection yields
// all zeros rather than a division by zero.
func SeasonDistribution(crops []models.Crop) []models.SeasonStat {
	total := len(crops)
	if total < 1 {
		total = 1
	}

	out := make([]models.SeasonStat, 0, len(models.Seasons))
	for _, season := range models.Seasons {
		count := 0
		for _, c := range crops {
			if c.Season == season {
				count++
			}
		}
		out = append(out, models.SeasonStat{
			Season:     season,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	return out
}

// BarHeights normalizes each crop's quantity against the batch maximum so
// the tallest bar lands exactly on the height cap.
func BarHeights(crops []models.Crop) []models.ChartBar {
	max := 1.0
	for _, c := range crops {
		if c.Quantity > max {
			max = c.Quantity
		}
	}

	bars := make([]models.ChartBar, 0, len(crops))
	for _, c := range crops {
		bars = append(bars, models.ChartBar{
			CropName: c.CropName,
			Quantity: c.Quantity,
			Height:   c.Quantity / max * maxBarHeight,
		})
	}
	return bars
}

// FilterFarmers keeps farmers whose name, phone or address contains the
// query, case-insensitively. An empty query keeps everything.
func FilterFarmers(farmers []models.Farmer, query string) []models.Farmer {
	term := normalize(query)
	if term == "" {
		return farmers
	}

	out := []models.Farmer{}
	for _, f := range farmers {
		if containsFold(f.Name, term) || containsFold(f.Phone, term) || containsFold(f.Address, term) {
			out = append(out, f)
		}
	}
	return out
}

// FilterCrops keeps crops whose name or type contains the query, then
// applies the exact-match season filter when one is selected.
func FilterCrops(crops []models.Crop, query string, season models.Season) []models.Crop {
	term := normalize(query)

	out := []models.Crop{}
	for _, c := range crops {
		if term != "" && !containsFold(c.CropName, term) && !containsFold(string(c.Type), term) {
			continue
		}
		if season != "" && c.Season != season {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SaleFilterResult pairs the filtered sales with their running totals, as
// shown under the sales list.
type SaleFilterResult struct {
	Sales            []models.Sale
	FilteredRevenue  float64
	FilteredQuantity float64
}

// FilterSales keeps sales whose farmer name, crop name or date contains the
// query, and totals revenue and quantity over the matches.
func FilterSales(sales []models.Sale, query string) SaleFilterResult {
	term := normalize(query)

	result := SaleFilterResult{Sales: []models.Sale{}}
	for _, s := range sales {
		if term != "" && !containsFold(s.FarmerName, term) && !containsFold(s.CropName, term) && !strings.Contains(s.Date, term) {
			continue
		}
		result.Sales = append(result.Sales, s)
		result.FilteredRevenue += s.TotalPrice
		result.FilteredQuantity += s.QuantitySold
	}
	return result
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func containsFold(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
