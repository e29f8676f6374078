package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

const earthRadiusKm = 6371.0

// ZonePrecisionDashboard and ZonePrecisionReport are the two rounding
// precisions used in practice: coarse cells for dashboard previews, finer
// cells for premium reports. Both are plain parameters of AggregateZones.
const (
	ZonePrecisionDashboard = 1
	ZonePrecisionReport    = 2
)

// AggregateZones buckets geolocated responses into coordinate cells obtained
// by rounding latitude and longitude independently to the given decimal
// precision. Buckets come back sorted by member count descending, truncated
// to topN (topN <= 0 keeps all). Responses without a location, with
// non-finite coordinates, or outside the valid WGS84 range are excluded.
func AggregateZones(responses []models.ResponseRecord, precision, topN int) []GeoZone {
	if precision < 0 {
		precision = 0
	}
	factor := math.Pow(10, float64(precision))

	buckets := make(map[string]*GeoZone)
	order := make([]string, 0)
	total := 0

	for _, r := range responses {
		if !ValidLocation(r.Location) {
			continue
		}
		lat := math.Round(r.Location.Latitude*factor) / factor
		lng := math.Round(r.Location.Longitude*factor) / factor
		// Rounding toward zero from the negative side yields -0, which
		// formats as "-0.0" and would split the cell at the equator or
		// prime meridian into two zones.
		if lat == 0 {
			lat = 0
		}
		if lng == 0 {
			lng = 0
		}
		key := formatCoord(lat, precision) + "," + formatCoord(lng, precision)

		zone, ok := buckets[key]
		if !ok {
			zone = &GeoZone{Key: key, Latitude: lat, Longitude: lng}
			buckets[key] = zone
			order = append(order, key)
		}
		zone.Count++
		total++
	}

	zones := make([]GeoZone, 0, len(order))
	for _, key := range order {
		z := *buckets[key]
		z.Percentage = roundPct(z.Count, total)
		zones = append(zones, z)
	}

	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Count > zones[j].Count })

	if topN > 0 && len(zones) > topN {
		zones = zones[:topN]
	}
	return zones
}

// ValidLocation reports whether a captured coordinate is usable: present,
// finite, and within WGS84 bounds. Corrupt captures are silently dropped
// from location-based views.
func ValidLocation(p *models.GeoPoint) bool {
	if p == nil {
		return false
	}
	if !finite(p.Latitude) || !finite(p.Longitude) {
		return false
	}
	return math.Abs(p.Latitude) <= 90 && math.Abs(p.Longitude) <= 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatCoord(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// DistanceKm is the great-circle (Haversine) distance between two points.
func DistanceKm(a, b models.GeoPoint) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ViewportBounds is the bounding box enclosing all valid geolocated
// responses, used by the dashboard map to pick its initial zoom.
type ViewportBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Viewport computes the bounding box over valid response locations. The
// second return is false when no response has a usable location.
func Viewport(responses []models.ResponseRecord) (ViewportBounds, bool) {
	var bounds ViewportBounds
	found := false

	for _, r := range responses {
		if !ValidLocation(r.Location) {
			continue
		}
		lat, lng := r.Location.Latitude, r.Location.Longitude
		if !found {
			bounds = ViewportBounds{North: lat, South: lat, East: lng, West: lng}
			found = true
			continue
		}
		bounds.North = math.Max(bounds.North, lat)
		bounds.South = math.Min(bounds.South, lat)
		bounds.East = math.Max(bounds.East, lng)
		bounds.West = math.Min(bounds.West, lng)
	}

	return bounds, found
}
