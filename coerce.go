package corotick

import (
	"fmt"
	"time"
)

// CoerceInt64 normalizes a value that may have passed through a generic
// serializer into an int64, for NamedAccessor/SetCurrent implementations
// backing integer-kinded fields (time.Duration, int, int32, ...).
// encoding/json decodes every non-bool, non-string JSON scalar into
// float64 when the destination is `any`; gopkg.in/yaml.v3 commonly
// decodes a plain integer into int. CoerceInt64 accepts either, plus the
// original concrete integer types, and rejects anything else with
// ErrSchemaMismatch rather than panicking.
func CoerceInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case time.Duration:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: cannot coerce %T to an integer", ErrSchemaMismatch, v)
	}
}
