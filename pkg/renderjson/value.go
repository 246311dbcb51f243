package renderjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the classification of a value before rendering.
type Kind int

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindNode
)

var kindNames = [...]string{"null", "undefined", "boolean", "number", "string", "array", "object", "node"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the "no value" marker. It renders as the keyword undefined,
// distinct from nil which renders as null.
var Undefined any = undefined{}

// Object is a string-keyed mapping that remembers insertion order.
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an object from alternating key/value arguments.
func NewObject(kv ...any) *Object {
	o := &Object{}
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return o
}

// Set adds or replaces key. A new key goes to the end of the order;
// replacing keeps the original position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if !o.Has(key) {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len is the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Map converts the object to a plain map, recursively. Order is lost.
func (o *Object) Map() map[string]any {
	m := make(map[string]any, o.Len())
	for _, k := range o.Keys() {
		m[k] = Native(o.values[k])
	}
	return m
}

// MarshalJSON writes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Native converts ordered objects inside v into plain maps so the value can
// be handed to code that only understands map[string]any and []any.
func Native(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Native(e)
		}
		return out
	default:
		return v
	}
}

// value is the tagged result of classify.
type value struct {
	kind Kind
	// text is the JSON serialization for primitives.
	text string
	// str is the raw string for KindString.
	str string
	// date marks a time.Time; it prints as a string but is never truncated.
	date bool
	node Node
	arr  []any
	obj  *Object
	// raw is the value before classification, handed to the Replacer as holder.
	raw any
}

// classify resolves v once so the renderer can switch on a kind instead of
// probing types at every step.
func classify(v any) value {
	switch t := v.(type) {
	case nil:
		return value{kind: KindNull}
	case undefined:
		return value{kind: KindUndefined}
	case Node:
		if isNilPointer(t) {
			return value{kind: KindNull}
		}
		return value{kind: KindNode, node: t}
	case bool:
		return value{kind: KindBool, text: strconv.FormatBool(t)}
	case string:
		return value{kind: KindString, str: t, text: quote(t)}
	case json.Number:
		return value{kind: KindNumber, text: t.String()}
	case float64:
		return value{kind: KindNumber, text: formatFloat(t, 64)}
	case float32:
		return value{kind: KindNumber, text: formatFloat(float64(t), 32)}
	case int:
		return value{kind: KindNumber, text: strconv.Itoa(t)}
	case int64:
		return value{kind: KindNumber, text: strconv.FormatInt(t, 10)}
	case time.Time:
		s := t.Format(time.RFC3339Nano)
		return value{kind: KindString, str: s, text: quote(s), date: true}
	case []any:
		if t == nil {
			return value{kind: KindNull}
		}
		return value{kind: KindArray, arr: t}
	case *Object:
		if t == nil {
			return value{kind: KindNull}
		}
		return value{kind: KindObject, obj: t}
	case Object:
		return value{kind: KindObject, obj: &t}
	case map[string]any:
		if t == nil {
			return value{kind: KindNull}
		}
		return value{kind: KindObject, obj: objectFromMap(reflect.ValueOf(t))}
	}
	return classifyReflect(reflect.ValueOf(v))
}

func classifyReflect(rv reflect.Value) value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value{kind: KindNull}
		}
		return classify(rv.Elem().Interface())
	case reflect.Bool:
		return value{kind: KindBool, text: strconv.FormatBool(rv.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{kind: KindNumber, text: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value{kind: KindNumber, text: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32:
		return value{kind: KindNumber, text: formatFloat(rv.Float(), 32)}
	case reflect.Float64:
		return value{kind: KindNumber, text: formatFloat(rv.Float(), 64)}
	case reflect.String:
		return value{kind: KindString, str: rv.String(), text: quote(rv.String())}
	case reflect.Slice:
		if rv.IsNil() {
			return value{kind: KindNull}
		}
		fallthrough
	case reflect.Array:
		arr := make([]any, rv.Len())
		for i := range arr {
			arr[i] = rv.Index(i).Interface()
		}
		return value{kind: KindArray, arr: arr}
	case reflect.Map:
		if rv.IsNil() {
			return value{kind: KindNull}
		}
		if rv.Type().Key().Kind() == reflect.String {
			return value{kind: KindObject, obj: objectFromMap(rv)}
		}
	case reflect.Invalid:
		return value{kind: KindNull}
	}
	return classify(roundTrip(rv.Interface()))
}

// objectFromMap enumerates a Go map in sorted key order; maps have no
// insertion order to preserve.
func objectFromMap(rv reflect.Value) *Object {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	o := &Object{}
	for _, k := range keys {
		o.Set(k, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
	}
	return o
}

// roundTrip normalizes values without a JSON shape of their own (structs,
// custom marshalers) through encoding/json. Struct fields keep their
// encoding order. Values that cannot be encoded render as their fmt
// representation.
func roundTrip(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	out, err := DecodeJSON(data)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}

func isNilPointer(n Node) bool {
	switch t := n.(type) {
	case *Element:
		return t == nil
	case *Text:
		return t == nil
	}
	return false
}

// formatFloat matches JSON number output; NaN and infinities have no JSON
// form and serialize as null.
func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	b, err := json.Marshal(f)
	if bits == 32 {
		b, err = json.Marshal(float32(f))
	}
	if err != nil {
		return "null"
	}
	return string(b)
}

// quote returns the JSON string literal for s without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
