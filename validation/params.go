package validation

import "fmt"

// AmbiguousValueError reports a key that carried more than one value where a
// single value was expected. Multi-valued input is never silently resolved by
// taking the first value - it is a client fault in its own right.
type AmbiguousValueError struct {
	Key   string
	Count int
}

func (e *AmbiguousValueError) Error() string {
	return fmt.Sprintf("parameter %q supplied %d times, expected at most once", e.Key, e.Count)
}

// MaybeOne reads at most one value for key from a string multimap (the shape
// of url.Values). It returns nil when the key is absent or present with an
// empty value list, and an AmbiguousValueError when more than one value was
// supplied.
func MaybeOne(params map[string][]string, key string) (*string, error) {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	if len(values) > 1 {
		return nil, &AmbiguousValueError{Key: key, Count: len(values)}
	}
	v := values[0]
	return &v, nil
}
