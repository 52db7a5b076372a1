// pkg/validate/validate.go
package validate

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"shopbridge/pkg/faults"
)

// ShopSuffix is the only domain suffix accepted for shop identities.
const ShopSuffix = ".myshopify.com"

// Intent is one of the recognized synchronization operations. The set is
// closed: anything else fails validation before reaching the dispatcher.
type Intent string

const (
	IntentPull        Intent = "pull"
	IntentPushChanged Intent = "push_changed"
	IntentPushAll     Intent = "push_all"
	IntentToggleAuto  Intent = "toggle_auto"
)

// DefaultIntervalMinutes is applied when a toggle request omits the interval.
const DefaultIntervalMinutes = 15

const maxIdentifierLen = 255

var (
	shopRe   = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.myshopify\.com$`)
	tenantRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ShopDomain checks that v is a single-label shop domain under ShopSuffix and
// returns it trimmed and lower-cased. Inputs are untyped because they come
// straight out of decoded JSON or session claims.
func ShopDomain(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", faults.Invalid("shop domain must be a string")
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > maxIdentifierLen {
		return "", faults.Invalid("shop domain must be a non-empty string of at most %d characters", maxIdentifierLen)
	}
	if !shopRe.MatchString(s) {
		return "", faults.Invalid("shop domain must look like your-store%s", ShopSuffix)
	}
	// The label itself may not begin or end with a hyphen; the character class
	// above already guarantees that, but a double-check keeps the invariant
	// local if the pattern ever changes.
	label := strings.TrimSuffix(s, ShopSuffix)
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return "", faults.Invalid("shop domain label may not start or end with a hyphen")
	}
	return s, nil
}

// ParseIntent checks membership in the closed intent set.
func ParseIntent(v any) (Intent, error) {
	s, ok := v.(string)
	if !ok {
		return "", faults.Invalid("intent must be a string")
	}
	switch in := Intent(s); in {
	case IntentPull, IntentPushChanged, IntentPushAll, IntentToggleAuto:
		return in, nil
	}
	return "", faults.Invalid("intent must be one of pull, push_changed, push_all, toggle_auto")
}

// IntervalMinutes accepts nil (falling back to the default) or an integral
// number in [1,1440]. JSON numbers arrive as float64 or json.Number; any
// fractional part or non-numeric type fails.
func IntervalMinutes(v any) (int, error) {
	if v == nil {
		return DefaultIntervalMinutes, nil
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if t != math.Trunc(t) {
			return 0, faults.Invalid("intervalMinutes must be an integer")
		}
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, faults.Invalid("intervalMinutes must be an integer")
		}
		n = int(i)
	default:
		return 0, faults.Invalid("intervalMinutes must be an integer")
	}
	if n < 1 || n > 1440 {
		return 0, faults.Invalid("intervalMinutes must be between 1 and 1440")
	}
	return n, nil
}

// TenantID checks the restricted character set used for platform tenant
// identifiers. Applied to caller input and to rows read back from the store.
func TenantID(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", faults.Invalid("tenant id must be a string")
	}
	if s == "" || len(s) > maxIdentifierLen {
		return "", faults.Invalid("tenant id must be a non-empty string of at most %d characters", maxIdentifierLen)
	}
	if !tenantRe.MatchString(s) {
		return "", faults.Invalid("tenant id may only contain letters, digits, dashes and underscores")
	}
	return s, nil
}
