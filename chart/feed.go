// Package chart prepares the price series handed to a chart renderer and
// owns the renderer's resource between searches.
package chart

import (
	"time"

	"quote-search/models"
)

// DateLayout formats point labels.
const DateLayout = "2006-01-02"

// Points pairs timestamps with closes position by position, dropping every
// position where either value is missing. An empty result means "no chart".
func Points(timestamps []*int64, closes []*float64) []models.PricePoint {
	n := min(len(timestamps), len(closes))
	points := make([]models.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		if timestamps[i] == nil || closes[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Date:  time.Unix(*timestamps[i], 0).UTC().Format(DateLayout),
			Price: *closes[i],
		})
	}
	return points
}
