// Package rand produces random names and payloads for test fixtures.
//
// It is not suitable for anything security related.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

const letters = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	once sync.Once
	gen  *rand.Rand
	mu   sync.Mutex
)

func seed() {
	gen = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
}

// Bytes returns n random bytes
func Bytes(n int) []byte {
	once.Do(seed)
	buf := make([]byte, n)
	mu.Lock()
	_, _ = gen.Read(buf)
	mu.Unlock()
	return buf
}

// LetterString returns a random string picked in the [a-z]|[0-9] range, usable as a bucket or file name
func LetterString(n int) string {
	buf := Bytes(n)
	for i, b := range buf {
		buf[i] = letters[int(b)%len(letters)]
	}
	return string(buf)
}
