package clipid

import "testing"

func TestNewRoundTripsThroughRaw(t *testing.T) {
	id := New()
	reparsed, err := Parse(id.Raw())
	if err != nil {
		t.Fatalf("Parse(%q): %v", id.Raw(), err)
	}

	ts1, err := id.Timestamp()
	if err != nil {
		t.Fatalf("Timestamp: %v", err)
	}
	ts2, err := reparsed.Timestamp()
	if err != nil {
		t.Fatalf("Timestamp: %v", err)
	}
	if ts1 != ts2 {
		t.Errorf("timestamps diverged after round-trip: %q != %q", ts1, ts2)
	}
	if reparsed.Raw() != id.Raw() {
		t.Errorf("Raw() diverged: %q != %q", reparsed.Raw(), id.Raw())
	}
}

func TestParseRejectsNonBase64(t *testing.T) {
	if _, err := Parse("not valid base64!!"); err == nil {
		t.Error("expected error parsing non-base64 id")
	}
}

func TestParseRejectsBase64OfNonTimestamp(t *testing.T) {
	// "hello world" base64-encoded decodes fine but isn't an ISO-8601
	// timestamp.
	if _, err := Parse("aGVsbG8gd29ybGQ="); err == nil {
		t.Error("expected error parsing base64 of non-timestamp content")
	}
}

func TestStringReturnsRaw(t *testing.T) {
	id := New()
	if id.String() != id.Raw() {
		t.Errorf("String() = %q, want %q", id.String(), id.Raw())
	}
}
