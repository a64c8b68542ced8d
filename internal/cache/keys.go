package cache

import (
	"fmt"

	"github.com/driftmarine/tidecast/internal/models"
)

// Data-type discriminators used in cache keys.
const (
	DataTypeTides     = "tides"
	DataTypeMarine    = "marine"
	DataTypeTurbidity = "turbidity"
)

// Key builds a cache key from a data type and a quantized location.
// Coordinates are rounded to three decimal degrees (~100 m), so nearby
// repeated queries collapse into one entry. The key is deliberately lossy:
// slight location imprecision is traded for cache-hit rate.
func Key(dataType string, loc models.Location) string {
	return fmt.Sprintf("%s:%.3f:%.3f", dataType, loc.Latitude, loc.Longitude)
}

// ForecastKey keys a tide forecast by quantized location and day window.
func ForecastKey(loc models.Location, days int) string {
	return fmt.Sprintf("%s:%dd", Key(DataTypeTides, loc), days)
}

// LocationMatch is the substring shared by every key for a quantized
// location, regardless of data type or window.
func LocationMatch(loc models.Location) string {
	return fmt.Sprintf(":%.3f:%.3f", loc.Latitude, loc.Longitude)
}
