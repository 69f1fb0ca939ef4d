package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job and document IDs are ULIDs: 26-character Crockford Base32 strings
// with a millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a fresh ULID. Safe for concurrent use.
func NewID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp, then 80 bits of randomness. The sequence
	// counter occupies bytes 6-7 so IDs within one millisecond stay unique.
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 renders 128 bits as 26 Crockford Base32 characters, reading
// 5-bit groups from the high end (the first character carries 3 bits).
func encodeBase32(b [16]byte) string {
	var out [26]byte
	bitPos := -2 // 26*5 = 130 bits; start two bits before the buffer.
	for i := range out {
		var v byte
		for j := 0; j < 5; j++ {
			v <<= 1
			p := bitPos + j
			if p < 0 {
				continue
			}
			if b[p/8]&(1<<(7-p%8)) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
		bitPos += 5
	}
	return string(out[:])
}
