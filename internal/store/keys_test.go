package store

import (
	"bytes"
	"testing"
	"time"

	"github.com/spuerta10/RapidLogs/pkg/id"
)

func TestEntryKeysSortByTimestampThenID(t *testing.T) {
	g := id.NewGenerator()
	ts := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)

	a := KeyEntry(ts, g.Next())
	b := KeyEntry(ts, g.Next())
	c := KeyEntry(ts.Add(time.Nanosecond), g.Next())

	if !(bytes.Compare(a, b) < 0) {
		t.Fatalf("same-timestamp keys must sort by ID")
	}
	if !(bytes.Compare(b, c) < 0) {
		t.Fatalf("later timestamp must sort after")
	}
}

func TestParseEntryKeyRoundTrip(t *testing.T) {
	g := id.NewGenerator()
	ts := time.Date(2023, 4, 23, 10, 0, 0, 123456789, time.UTC)
	recordID := g.Next()

	gotTS, gotID, ok := ParseEntryKey(KeyEntry(ts, recordID))
	if !ok {
		t.Fatalf("parse failed")
	}
	if !gotTS.Equal(ts) || gotID != recordID {
		t.Fatalf("round trip mismatch: %v/%v", gotTS, gotID)
	}
}

func TestParseEntryKeyRejectsForeignKeys(t *testing.T) {
	if _, _, ok := ParseEntryKey(KeyMeta()); ok {
		t.Fatalf("meta key must not parse as a record key")
	}
	if _, _, ok := ParseEntryKey([]byte("logs/e/short")); ok {
		t.Fatalf("truncated key must not parse")
	}
}
