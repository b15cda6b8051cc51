package store

import (
	"encoding/binary"
	"time"

	"github.com/spuerta10/RapidLogs/pkg/id"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - logs/m                      (meta)
// - logs/e/{ts_ns_be8}/{id_16}  (records)

var (
	sep        = byte('/')
	logsPrefix = []byte("logs")
	metaSeg    = []byte("m")
	entrySeg   = []byte("e")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyMeta builds the store metadata key.
func KeyMeta() []byte {
	k := make([]byte, 0, len(logsPrefix)+2)
	k = append(k, logsPrefix...)
	k = append(k, sep)
	k = append(k, metaSeg...)
	return k
}

// KeyEntry builds a record key. The big-endian nanosecond timestamp followed
// by the 16-byte record ID keeps keys in (timestamp, insertion) order.
func KeyEntry(ts time.Time, recordID id.ID) []byte {
	k := make([]byte, 0, len(logsPrefix)+2+1+8+1+16)
	k = append(k, logsPrefix...)
	k = append(k, sep)
	k = append(k, entrySeg...)
	k = append(k, sep)
	k = appendBE8(k, uint64(ts.UnixNano()))
	k = append(k, sep)
	k = append(k, recordID[:]...)
	return k
}

// KeyEntryPrefix returns the common prefix of all record keys.
func KeyEntryPrefix() []byte {
	k := make([]byte, 0, len(logsPrefix)+3)
	k = append(k, logsPrefix...)
	k = append(k, sep)
	k = append(k, entrySeg...)
	k = append(k, sep)
	return k
}

// ParseEntryKey extracts the timestamp and record ID from a record key.
func ParseEntryKey(k []byte) (time.Time, id.ID, bool) {
	prefix := KeyEntryPrefix()
	if len(k) != len(prefix)+8+1+16 {
		return time.Time{}, id.ID{}, false
	}
	ns := int64(binary.BigEndian.Uint64(k[len(prefix) : len(prefix)+8]))
	recordID, ok := id.FromBytes(k[len(prefix)+9:])
	if !ok {
		return time.Time{}, id.ID{}, false
	}
	return time.Unix(0, ns).UTC(), recordID, true
}
