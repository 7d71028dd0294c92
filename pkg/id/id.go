// Package id generates ULID trade identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// ForTime returns a ULID whose timestamp component is t, so IDs of
// imported trades sort in the order the trades closed. Times before the
// Unix epoch are clamped to it.
func ForTime(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	if t.Before(time.Unix(0, 0)) {
		t = time.Unix(0, 0)
	}
	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Only reachable when monotonic entropy overflows within one millisecond.
		id = ulid.MustNew(ulid.Timestamp(t.UTC()), cryptoRand.Reader)
	}
	return id.String()
}
