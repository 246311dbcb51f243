// Package transform compiles a CEL expression into a renderjson.Replacer.
//
// The expression sees three variables: value (the child being rendered),
// key (its object key or array index) and holder (the containing object or
// array). "_" is an alias for value. Its result replaces the child:
//
//	key == "password" ? "***" : value
//	type(value) == string ? value.upperAscii() : value
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

const (
	VarValue  = "value"
	VarKey    = "key"
	VarHolder = "holder"
	VarAlias  = "_"
)

// Transformer evaluates one compiled expression per rendered child.
type Transformer struct {
	expr     string
	prg      cel.Program
	failures atomic.Int64
}

// NewEnv returns the CEL environment expressions are compiled against.
func NewEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	all := make([]cel.EnvOption, 0, 8+len(opts))
	all = append(all,
		cel.Variable(VarValue, cel.DynType),
		cel.Variable(VarKey, cel.DynType),
		cel.Variable(VarHolder, cel.DynType),
		cel.Variable(VarAlias, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	all = append(all, opts...)
	return cel.NewEnv(all...)
}

// New compiles expr. Syntax and type errors are returned here rather than
// at render time.
func New(expr string) (*Transformer, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Transformer{expr: expr, prg: prg}, nil
}

// Expression returns the source expression.
func (t *Transformer) Expression() string { return t.expr }

// Failures counts evaluations that failed inside a Replacer.
func (t *Transformer) Failures() int64 { return t.failures.Load() }

// Apply evaluates the expression for one child. A result that is the
// unmodified value is returned as the original, so object key order and
// number text survive expressions such as `value`.
func (t *Transformer) Apply(holder, key, value any) (any, error) {
	in := ToCEL(value)
	vars := map[string]any{
		VarValue: in,
		VarAlias: in,
		VarKey:   ToCEL(key),
		// holder converts the whole container, so only on demand
		VarHolder: func() any { return ToCEL(holder) },
	}
	out, _, err := t.prg.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	if unchanged(out.Value(), in) {
		return value, nil
	}
	return ToGo(out), nil
}

// Replacer adapts the transformer for renderjson. Failed evaluations are
// logged and leave the value unchanged.
func (t *Transformer) Replacer(lgr logr.Logger) renderjson.Replacer {
	return func(holder, key, value any) any {
		out, err := t.Apply(holder, key, value)
		if err != nil {
			t.failures.Add(1)
			lgr.Error(err, "transform failed, keeping value", "expression", t.expr, "key", key)
			return value
		}
		return out
	}
}

// ToCEL converts rendered values into types the CEL native adapter accepts.
// Ordered objects become maps, JSON numbers become int64 or float64 and
// pre-built nodes become their text.
func ToCEL(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *renderjson.Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			m[k] = ToCEL(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = ToCEL(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ToCEL(val)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case renderjson.Node:
		return renderjson.PlainText(t)
	case string, bool, int64, uint64, float64, time.Time:
		return t
	}
	if v == renderjson.Undefined {
		return nil
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() == reflect.Struct {
		// structs have no CEL form without a registered type
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var decoded any
		if err := dec.Decode(&decoded); err != nil {
			return fmt.Sprintf("%v", v)
		}
		return ToCEL(decoded)
	}
	return v
}

// unchanged reports whether out is the very map or slice passed in, or a
// scalar equal to it.
func unchanged(out, in any) bool {
	a, b := reflect.ValueOf(out), reflect.ValueOf(in)
	if !a.IsValid() || !b.IsValid() || a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Map:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Len() == b.Len() && a.Pointer() == b.Pointer()
	}
	return a.Comparable() && a.Equal(b)
}
