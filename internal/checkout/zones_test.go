package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testZones() []Zone {
	return []Zone{
		{Name: "Central", Postcodes: []string{"SW1A", "SW1B"}, DeliveryFee: decimal.NewFromFloat(3.5)},
		{Name: "Outer", Postcodes: []string{"SW1", "SE1"}, DeliveryFee: decimal.NewFromFloat(5)},
	}
}

func TestResolveZone(t *testing.T) {
	tests := []struct {
		postcode string
		zone     string
		ok       bool
	}{
		{"SW1A 1AA", "Central", true},
		{"sw1a 1aa", "Central", true}, // case-insensitive
		{"  SW1B 2BB ", "Central", true},
		{"SW1X 9AA", "Outer", true}, // falls through to the broader prefix
		{"SE1 7PB", "Outer", true},
		{"N1 9GU", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.postcode, func(t *testing.T) {
			zone, ok := ResolveZone(tt.postcode, testZones())
			if ok != tt.ok {
				t.Fatalf("ResolveZone(%q): got ok=%v, want %v", tt.postcode, ok, tt.ok)
			}
			if ok && zone.Name != tt.zone {
				t.Errorf("ResolveZone(%q): got zone %q, want %q", tt.postcode, zone.Name, tt.zone)
			}
		})
	}
}

func TestResolveZone_FirstMatchWins(t *testing.T) {
	zones := []Zone{
		{Name: "A", Postcodes: []string{"SW"}, DeliveryFee: decimal.NewFromInt(2)},
		{Name: "B", Postcodes: []string{"SW1A"}, DeliveryFee: decimal.NewFromInt(9)},
	}

	zone, ok := ResolveZone("SW1A 1AA", zones)
	if !ok {
		t.Fatal("expected a match")
	}
	if zone.Name != "A" {
		t.Errorf("expected first zone in resolution order, got %q", zone.Name)
	}
}

func TestResolveFee(t *testing.T) {
	fee := ResolveFee("sw1a 1aa", testZones())
	if !fee.Equal(decimal.NewFromFloat(3.5)) {
		t.Errorf("fee: got %v, want 3.5", fee)
	}
}

func TestResolveFee_NoMatchIsZero(t *testing.T) {
	fee := ResolveFee("N1 9GU", testZones())
	if !fee.IsZero() {
		t.Errorf("fee for unmatched postcode: got %v, want 0", fee)
	}
}

func TestResolveZone_BlankPrefixNeverMatches(t *testing.T) {
	zones := []Zone{{Name: "Broken", Postcodes: []string{""}, DeliveryFee: decimal.NewFromInt(1)}}

	if _, ok := ResolveZone("SW1A 1AA", zones); ok {
		t.Error("empty prefix must not match every postcode")
	}
}
