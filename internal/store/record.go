package store

import (
	"encoding/binary"
	"hash/crc32"
)

// Record encoding: evictedAt_ms(8B BE) | varint tagLen | tag | message | crc32c(tag|message)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeRecord serializes a record value.
func EncodeRecord(evictedAtMs int64, tag, message string) []byte {
	out := make([]byte, 0, 8+10+len(tag)+len(message)+4)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(evictedAtMs))
	out = append(out, ts[:]...)

	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(tag)))
	out = append(out, tmp[:n]...)
	out = append(out, tag...)
	out = append(out, message...)

	crc := crc32.Update(0, castagnoli, []byte(tag))
	crc = crc32.Update(crc, castagnoli, []byte(message))
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out
}

// Decoded is the result of DecodeRecord.
type Decoded struct {
	EvictedAtMs int64
	Tag         string
	Message     string
}

// DecodeRecord deserializes a record value, verifying its checksum. Returns
// false when the value is truncated or fails the CRC.
func DecodeRecord(b []byte) (Decoded, bool) {
	if len(b) < 8+1+4 {
		return Decoded{}, false
	}
	evictedAtMs := int64(binary.BigEndian.Uint64(b[:8]))
	rest := b[8:]
	tagLen, n := binary.Uvarint(rest)
	if n <= 0 {
		return Decoded{}, false
	}
	// Compare in uint64: a corrupt length near MaxUint64 would overflow int
	// and slip past a signed comparison.
	if tagLen > uint64(len(rest)) || n+int(tagLen)+4 > len(rest) {
		return Decoded{}, false
	}
	tag := rest[n : n+int(tagLen)]
	message := rest[n+int(tagLen) : len(rest)-4]
	expect := binary.BigEndian.Uint32(rest[len(rest)-4:])
	crc := crc32.Update(0, castagnoli, tag)
	crc = crc32.Update(crc, castagnoli, message)
	if crc != expect {
		return Decoded{}, false
	}
	return Decoded{EvictedAtMs: evictedAtMs, Tag: string(tag), Message: string(message)}, true
}
