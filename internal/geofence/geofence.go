// Package geofence decides whether an attendance claim is physically
// plausible. Two independent checks gate a claim: the client network
// address must match an allow-listed IP or CIDR block, and the reported
// GPS coordinate must fall within a radius of the office. Either check
// is skipped when its side is not configured; when neither is
// configured the validator is unrestricted and every claim passes.
// Callers must treat that default-permits state deliberately: it exists
// so a fresh deployment does not lock everyone out before the office
// network is configured.
package geofence

import (
	"math"
	"strconv"
	"strings"

	"github.com/vyservice/ops-api/pkg/config"
)

// EarthRadiusMeters is the sphere radius used by Haversine.
const EarthRadiusMeters = 6371000

// DefaultRadiusM applies when no office radius is configured.
const DefaultRadiusM = 150

// Validator evaluates presence claims against the office configuration.
// It is immutable after construction and safe for concurrent use.
type Validator struct {
	entries []string
	lat     *float64
	lng     *float64
	radiusM float64
}

// Decision reports the outcome of the two checks for one claim.
type Decision struct {
	IPMatch       bool `json:"ipMatch"`
	LocationMatch bool `json:"locationMatch"`
	Unrestricted  bool `json:"unrestricted"`
}

// Allowed reports whether the claim passed both checks.
func (d Decision) Allowed() bool {
	return d.IPMatch && d.LocationMatch
}

// NewValidator parses the office configuration once. Allow-list entries
// come from both the CIDR and the exact-IP lists, comma-separated;
// blank entries are dropped.
func NewValidator(cfg config.OfficeConfig) *Validator {
	raw := append(strings.Split(cfg.AllowedCIDRs, ","), strings.Split(cfg.AllowedIPs, ",")...)
	entries := make([]string, 0, len(raw))
	for _, entry := range raw {
		trimmed := strings.TrimSpace(entry)
		if trimmed != "" {
			entries = append(entries, trimmed)
		}
	}

	radius := cfg.RadiusM
	if radius <= 0 {
		radius = DefaultRadiusM
	}

	return &Validator{
		entries: entries,
		lat:     cfg.Lat,
		lng:     cfg.Lng,
		radiusM: radius,
	}
}

// Entries returns the configured allow-list for client display.
func (v *Validator) Entries() []string {
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Office returns the configured coordinate and radius.
func (v *Validator) Office() (lat, lng *float64, radiusM float64) {
	return v.lat, v.lng, v.radiusM
}

// Unrestricted reports whether no network and no coordinate constraint
// is configured at all.
func (v *Validator) Unrestricted() bool {
	return len(v.entries) == 0 && (v.lat == nil || v.lng == nil)
}

// Evaluate runs both checks. In the unrestricted state both report true.
func (v *Validator) Evaluate(ip string, lat, lng *float64) Decision {
	if v.Unrestricted() {
		return Decision{IPMatch: true, LocationMatch: true, Unrestricted: true}
	}
	return Decision{
		IPMatch:       v.IPAllowed(ip),
		LocationMatch: v.LocationAllowed(lat, lng),
	}
}

// IPAllowed reports whether the candidate address matches any allow-list
// entry, either exactly or by CIDR containment. An empty candidate never
// matches.
func (v *Validator) IPAllowed(ip string) bool {
	candidate := strings.TrimSpace(ip)
	if candidate == "" {
		return false
	}
	for _, entry := range v.entries {
		if strings.Contains(entry, "/") {
			if cidrContains(entry, candidate) {
				return true
			}
		} else if candidate == entry {
			return true
		}
	}
	return false
}

// LocationAllowed reports whether the candidate coordinate lies within
// the office radius. When no office coordinate is configured the check
// always passes; when it is configured, a missing candidate fails
// closed.
func (v *Validator) LocationAllowed(lat, lng *float64) bool {
	if v.lat == nil || v.lng == nil {
		return true
	}
	if lat == nil || lng == nil {
		return false
	}
	return Haversine(*lat, *lng, *v.lat, *v.lng) <= v.radiusM
}

// Haversine returns the great-circle distance in meters between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// cidrContains matches the candidate against base/prefix with integer
// masking: prefix 0 means mask 0, matching every address.
func cidrContains(cidr, ip string) bool {
	base, prefixStr, ok := strings.Cut(cidr, "/")
	if !ok || base == "" {
		return false
	}
	prefix, err := strconv.Atoi(prefixStr)
	if err != nil || prefix < 0 || prefix > 32 {
		return false
	}
	ipInt, ok := ipv4ToUint32(ip)
	if !ok {
		return false
	}
	baseInt, ok := ipv4ToUint32(base)
	if !ok {
		return false
	}
	var mask uint32
	if prefix > 0 {
		mask = ^uint32(0) << (32 - prefix)
	}
	return ipInt&mask == baseInt&mask
}

// ipv4ToUint32 parses a dotted-quad address as a big-endian integer.
func ipv4ToUint32(ip string) (uint32, bool) {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return 0, false
	}
	var out uint32
	for _, part := range parts {
		oct, err := strconv.Atoi(part)
		if err != nil || oct < 0 || oct > 255 {
			return 0, false
		}
		out = out<<8 | uint32(oct)
	}
	return out, true
}
