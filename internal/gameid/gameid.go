// Package gameid generates short, time-sortable game identifiers.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lowercase.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of every generated id.
const Length = 26

// New returns a fresh id: a UUIDv7 in base32. Ids created later sort after
// earlier ones, so listing games by id lists them by creation time.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// Encode renders u as 26 base32 characters. The 128 bits are left-padded
// with two zero bits, so the first character is always 0-7.
func Encode(u uuid.UUID) string {
	out := make([]byte, Length)
	var acc uint32
	bits := 2 // pad
	i := 0
	for _, b := range u {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[i] = alphabet[(acc>>bits)&0x1f]
			i++
		}
	}
	return string(out)
}

// Validate reports whether id could have come from New.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game id must be %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game id first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
