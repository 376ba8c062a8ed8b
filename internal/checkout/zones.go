package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ResolveZone returns the first zone whose postcode prefix matches the given
// postcode (case-insensitive, startsWith). The second return is false when no
// zone matches, which callers must treat as "delivery unavailable", not free
// delivery.
func ResolveZone(postcode string, zones []Zone) (Zone, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(postcode))
	if normalized == "" {
		return Zone{}, false
	}

	for _, z := range zones {
		for _, prefix := range z.Postcodes {
			prefix = strings.ToUpper(strings.TrimSpace(prefix))
			if prefix == "" {
				continue
			}
			if strings.HasPrefix(normalized, prefix) {
				return z, true
			}
		}
	}
	return Zone{}, false
}

// ResolveFee is the display-layer variant of ResolveZone: it returns the
// matched zone's fee, or zero when no zone matches.
func ResolveFee(postcode string, zones []Zone) decimal.Decimal {
	zone, ok := ResolveZone(postcode, zones)
	if !ok {
		return decimal.Zero
	}
	return zone.DeliveryFee
}
