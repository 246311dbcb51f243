package transform

import (
	"fmt"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// ToGo converts a CEL result back to plain Go values: lists become []any,
// maps become map[string]any and scalars their Go counterparts. Timestamps
// and durations stay time.Time and time.Duration.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case types.Timestamp:
		return v.Time
	case types.Duration:
		return v.Duration
	}

	switch v := val.(type) {
	case traits.Lister:
		size, _ := v.Size().(types.Int)
		out := make([]any, 0, int(size))
		for it := v.Iterator(); it.HasNext() == types.True; {
			out = append(out, ToGo(it.Next()))
		}
		return out
	case traits.Mapper:
		out := make(map[string]any)
		for it := v.Iterator(); it.HasNext() == types.True; {
			k := it.Next()
			out[mapKey(k)] = ToGo(v.Get(k))
		}
		return out
	}
	return val.Value()
}

func mapKey(k ref.Val) string {
	if s, ok := k.(types.String); ok {
		return string(s)
	}
	return fmt.Sprintf("%v", k.Value())
}
