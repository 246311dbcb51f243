package loader

import (
	"fmt"
	"reflect"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

// TryDecode parses a string that itself holds serialized data (JSON, YAML,
// TOML, NDJSON or a JWT). It succeeds only when the result is an object or
// an array; plain text and scalars return (nil, false).
func TryDecode(value string) (any, bool) {
	if value == "" {
		return nil, false
	}
	parsed, err := LoadRoot(value)
	if err != nil || !isStructured(parsed) {
		return nil, false
	}
	return parsed, true
}

// RecursiveDecode walks a value and replaces every string leaf that
// TryDecode accepts with its parsed structure, repeating inside the result.
// Containers are copied; the input is not modified.
func RecursiveDecode(node any) any {
	return recursiveDecode(node, 0)
}

const maxDecodeDepth = 20

func recursiveDecode(node any, depth int) any {
	if depth > maxDecodeDepth {
		return node
	}
	switch v := node.(type) {
	case *renderjson.Object:
		if v == nil {
			return node
		}
		out := renderjson.NewObject()
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out.Set(k, recursiveDecode(val, depth+1))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = recursiveDecode(val, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = recursiveDecode(val, depth+1)
		}
		return out
	case string:
		if decoded, ok := TryDecode(v); ok {
			return recursiveDecode(decoded, depth+1)
		}
		return v
	default:
		return recursiveDecodeReflect(node, depth)
	}
}

// recursiveDecodeReflect handles typed containers such as map[string]string
// and []string, converting them to map[string]any and []any.
func recursiveDecodeReflect(node any, depth int) any {
	if node == nil {
		return nil
	}
	rv := reflect.ValueOf(node)
	//exhaustive:ignore // only containers need walking
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			keyStr := fmt.Sprintf("%v", k.Interface())
			if k.Kind() == reflect.String {
				keyStr = k.String()
			}
			out[keyStr] = recursiveDecode(iter.Value().Interface(), depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = recursiveDecode(rv.Index(i).Interface(), depth+1)
		}
		return out
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return recursiveDecode(rv.Elem().Interface(), depth+1)
	default:
		return node
	}
}

func isStructured(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case *renderjson.Object:
		return t != nil
	case map[string]any, []any:
		return true
	}
	kind := reflect.ValueOf(v).Kind()
	return kind == reflect.Map || kind == reflect.Slice
}
