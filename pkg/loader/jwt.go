package loader

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

func trimBearer(input string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
}

// IsJWT reports whether input is three non-empty base64url parts whose
// first two decode to JSON objects.
func IsJWT(input string) bool {
	parts := strings.Split(trimBearer(input), ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	for _, part := range parts[:2] {
		decoded, err := base64.RawURLEncoding.DecodeString(part)
		if err != nil {
			return false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(decoded, &obj); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a token into an object with header, payload and
// signature keys, in that order. Claims keep their encoded order. The
// signature stays base64url text.
func DecodeJWT(input string) (*renderjson.Object, error) {
	parts := strings.Split(trimBearer(input), ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}

	header, err := decodeJWTPart(parts[0], "header")
	if err != nil {
		return nil, err
	}
	payload, err := decodeJWTPart(parts[1], "payload")
	if err != nil {
		return nil, err
	}
	return renderjson.NewObject(
		"header", header,
		"payload", payload,
		"signature", parts[2],
	), nil
}

func decodeJWTPart(part, name string) (*renderjson.Object, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT %s: %w", name, err)
	}
	v, err := DecodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT %s JSON: %w", name, err)
	}
	obj, ok := v.(*renderjson.Object)
	if !ok {
		return nil, fmt.Errorf("invalid JWT %s JSON: not an object", name)
	}
	return obj, nil
}

func loadJWT(input string) ([]any, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []any{decoded}, nil
}
