package service

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

const (
	orderNumberPrefix = "ORD-"
	orderNumberLength = 8
	pickupIDPrefix    = "PU-"
	pickupIDLength    = 6
)

// randomToken returns n characters from the entropy half of a fresh ULID,
// which is uppercase Crockford base32. n is at most 16.
func randomToken(n int) string {
	id := ulid.MustNew(ulid.Now(), rand.Reader).String()
	return id[len(id)-n:]
}
