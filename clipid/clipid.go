// Package clipid generates and parses clip identifiers. A ClipID is a
// base64 encoding of a microsecond-precision local timestamp, so it can
// also be used directly as a filename.
package clipid

import (
	"encoding/base64"
	"fmt"
	"time"
)

// layout is Go's reference-time spelling of extended ISO-8601 with
// microsecond precision: YYYY-MM-DDTHH:MM:SS.ffffff
const layout = "2006-01-02T15:04:05.000000"

// ID is a stable, filename-safe clip identifier.
type ID struct {
	raw string
}

// New samples the local wall clock and encodes it as a fresh ID.
func New() ID {
	timestamp := time.Now().Format(layout)
	return ID{raw: base64.StdEncoding.EncodeToString([]byte(timestamp))}
}

// Parse validates and wraps an externally supplied raw ID string. Parsing
// means base64-decoding it and re-parsing the result as an ISO-8601
// timestamp; either step failing means the id is not one this process
// generated.
func Parse(raw string) (ID, error) {
	id := ID{raw: raw}
	if _, err := id.Timestamp(); err != nil {
		return ID{}, fmt.Errorf("invalid clip id %q: %w", raw, err)
	}
	return id, nil
}

// Raw returns the base64-encoded identifier, suitable as a filename stem.
func (id ID) Raw() string {
	return id.raw
}

// Timestamp decodes and returns the originating timestamp string.
func (id ID) Timestamp() (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(id.raw)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	if _, err := time.Parse(layout, string(decoded)); err != nil {
		return "", fmt.Errorf("not an iso-8601 timestamp: %w", err)
	}
	return string(decoded), nil
}

// String satisfies fmt.Stringer, returning the raw id.
func (id ID) String() string {
	return id.raw
}
