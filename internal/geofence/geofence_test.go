package geofence

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyservice/ops-api/pkg/config"
)

func floatPtr(v float64) *float64 { return &v }

func TestHaversineZeroAndSymmetry(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(12.9716, 77.5946, 12.9716, 77.5946))

	ab := Haversine(12.9716, 77.5946, 13.0827, 80.2707)
	ba := Haversine(13.0827, 80.2707, 12.9716, 77.5946)
	assert.InDelta(t, ab, ba, 1e-6)
	// Bangalore to Chennai is roughly 290km.
	assert.InDelta(t, 290000, ab, 15000)
}

func TestCIDRContainsSlash24(t *testing.T) {
	v := NewValidator(config.OfficeConfig{AllowedCIDRs: "192.168.1.0/24"})

	for _, host := range []int{1, 42, 254} {
		assert.True(t, v.IPAllowed(fmt.Sprintf("192.168.1.%d", host)), "host %d", host)
	}
	assert.False(t, v.IPAllowed("192.168.2.1"))
	assert.False(t, v.IPAllowed("10.0.0.1"))
}

func TestCIDRPrefixZeroMatchesAll(t *testing.T) {
	v := NewValidator(config.OfficeConfig{AllowedCIDRs: "0.0.0.0/0"})
	assert.True(t, v.IPAllowed("8.8.8.8"))
	assert.True(t, v.IPAllowed("192.168.1.1"))
}

func TestIPAllowedExactAndCombinedLists(t *testing.T) {
	v := NewValidator(config.OfficeConfig{
		AllowedIPs:   "103.10.20.30, 103.10.20.31",
		AllowedCIDRs: "192.168.200.0/24",
	})

	assert.True(t, v.IPAllowed("103.10.20.30"))
	assert.True(t, v.IPAllowed("103.10.20.31"))
	assert.True(t, v.IPAllowed("192.168.200.77"))
	assert.False(t, v.IPAllowed("103.10.20.32"))
	assert.False(t, v.IPAllowed(""))
	assert.False(t, v.IPAllowed("not-an-ip"))
}

func TestIPAllowedSkipsMalformedEntries(t *testing.T) {
	v := NewValidator(config.OfficeConfig{AllowedCIDRs: "garbage/99,10.0.0.0/8"})
	assert.True(t, v.IPAllowed("10.1.2.3"))
	assert.False(t, v.IPAllowed("11.1.2.3"))
}

func TestLocationAllowedUnconfiguredAlwaysPasses(t *testing.T) {
	v := NewValidator(config.OfficeConfig{AllowedCIDRs: "192.168.1.0/24"})

	assert.True(t, v.LocationAllowed(nil, nil))
	assert.True(t, v.LocationAllowed(floatPtr(0), floatPtr(0)))
	assert.True(t, v.LocationAllowed(floatPtr(89), floatPtr(179)))
}

func TestLocationAllowedFailsClosedWithoutCandidate(t *testing.T) {
	v := NewValidator(config.OfficeConfig{Lat: floatPtr(12.9716), Lng: floatPtr(77.5946), RadiusM: 150})

	assert.False(t, v.LocationAllowed(nil, nil))
	assert.False(t, v.LocationAllowed(floatPtr(12.9716), nil))
	assert.True(t, v.LocationAllowed(floatPtr(12.9716), floatPtr(77.5946)))
}

func TestLocationAllowedRadius(t *testing.T) {
	v := NewValidator(config.OfficeConfig{Lat: floatPtr(12.9716), Lng: floatPtr(77.5946), RadiusM: 150})

	// ~111m per 0.001 degree of latitude.
	assert.True(t, v.LocationAllowed(floatPtr(12.9726), floatPtr(77.5946)))
	assert.False(t, v.LocationAllowed(floatPtr(12.9756), floatPtr(77.5946)))
}

func TestEvaluateUnrestrictedWhenNothingConfigured(t *testing.T) {
	v := NewValidator(config.OfficeConfig{})
	require.True(t, v.Unrestricted())

	d := v.Evaluate("", nil, nil)
	assert.True(t, d.Allowed())
	assert.True(t, d.Unrestricted)
}

func TestEvaluateReportsFailedDimension(t *testing.T) {
	v := NewValidator(config.OfficeConfig{
		AllowedCIDRs: "192.168.1.0/24",
		Lat:          floatPtr(12.9716),
		Lng:          floatPtr(77.5946),
		RadiusM:      150,
	})

	d := v.Evaluate("10.0.0.1", floatPtr(12.9716), floatPtr(77.5946))
	assert.False(t, d.IPMatch)
	assert.True(t, d.LocationMatch)
	assert.False(t, d.Allowed())

	d = v.Evaluate("192.168.1.10", floatPtr(13.5), floatPtr(77.5946))
	assert.True(t, d.IPMatch)
	assert.False(t, d.LocationMatch)
	assert.False(t, d.Allowed())
}

func TestDefaultRadiusApplied(t *testing.T) {
	v := NewValidator(config.OfficeConfig{Lat: floatPtr(1), Lng: floatPtr(1)})
	_, _, radius := v.Office()
	assert.Equal(t, float64(DefaultRadiusM), radius)
}
