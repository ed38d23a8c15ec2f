package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursors travel opaquely: callers receive a token string and hand it back
// unchanged. The token is URL-safe base64 over a small JSON envelope that
// carries the cursor alongside its kind, so a token minted for one traversal
// order cannot resume a traversal with a different one.

// Kinded cursors name their traversal order. Decode rejects tokens whose
// recorded kind does not match the requested cursor type.
type Kinded interface {
	CursorKind() string
}

type tokenEnvelope struct {
	Kind   string          `json:"k"`
	Cursor json.RawMessage `json:"c"`
}

func Encode(cursor any) (string, error) {
	if cursor == nil {
		return "", errEmptyCursor
	}
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	env := tokenEnvelope{Cursor: raw}
	if k, ok := cursor.(Kinded); ok {
		env.Kind = k.CursorKind()
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

func Decode[C any](token string) (*C, error) {
	if token == "" {
		return nil, errEmptyCursor
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var env tokenEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var cursor C
	if k, ok := any(cursor).(Kinded); ok && env.Kind != k.CursorKind() {
		return nil, fmt.Errorf("malformed cursor: kind %q does not match %q", env.Kind, k.CursorKind())
	}
	if err := json.Unmarshal(env.Cursor, &cursor); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return &cursor, nil
}
