// Package credential derives the per-session passwords shown in the login
// panel. The output is seeded from the session identity and the wall clock,
// so every call yields a new password. It is a cosmetic generator and not a
// key derivation function.
package credential

import (
	"fmt"
	"strings"
	"time"
)

// Length is the size of every generated password.
const Length = 18

// Character classes. Ambiguous glyphs (I, O, l, 0, 1) are left out.
const (
	Uppercase = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	Lowercase = "abcdefghijkmnopqrstuvwxyz"
	Digits    = "23456789"
	Symbols   = "!@#$%*_-+"
	Pool      = Uppercase + Lowercase + Digits + Symbols
)

var classes = [...]string{Uppercase, Lowercase, Digits, Symbols}

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Identity is the normalized login session the password is derived from.
type Identity struct {
	Username string
	Email    string
	Website  string
}

// Clock supplies the timestamp mixed into the seed.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Generator produces passwords for login sessions.
type Generator struct {
	clock Clock
}

// NewGenerator returns a generator reading time from clock. A nil clock uses
// the system clock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{clock: clock}
}

// Generate derives a fresh password for id.
func (g *Generator) Generate(id Identity) string {
	return Derive(id, g.clock.Now().UnixMilli())
}

// Seed returns the string hashed into the initial generator state.
func Seed(id Identity, millis int64) string {
	return fmt.Sprintf("%s|%s|%s|%d", id.Username, id.Email, id.Website, millis)
}

// Derive is the deterministic core of Generate: the same identity and
// timestamp always produce the same password.
func Derive(id Identity, millis int64) string {
	state := HashFNV1a(Seed(id, millis))

	chars := make([]byte, 0, Length)
	for _, class := range classes {
		state = Mix(state + 1)
		chars = append(chars, pick(class, state))
	}
	for len(chars) < Length {
		state = Mix(state + uint32(len(chars)) + 1)
		chars = append(chars, pick(Pool, state))
	}

	// Fisher-Yates so the guaranteed class characters do not sit up front.
	for i := len(chars) - 1; i > 0; i-- {
		state = Mix(state + uint32(i) + 1)
		j := int(state % uint32(i+1))
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

// HashFNV1a is the 32-bit FNV-1a hash of s, byte by byte.
func HashFNV1a(s string) uint32 {
	hash := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= fnvPrime
	}
	return hash
}

// Mix advances the generator state with a 32-bit xorshift.
func Mix(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

func pick(source string, state uint32) byte {
	return source[state%uint32(len(source))]
}

// Coverage reports which character classes appear in a password.
type Coverage struct {
	Upper  bool `json:"upper"`
	Lower  bool `json:"lower"`
	Digit  bool `json:"digit"`
	Symbol bool `json:"symbol"`
}

// Complete is true when every class is present.
func (c Coverage) Complete() bool {
	return c.Upper && c.Lower && c.Digit && c.Symbol
}

// Classify inspects password against the generator alphabets.
func Classify(password string) Coverage {
	var c Coverage
	for _, r := range password {
		switch {
		case strings.ContainsRune(Uppercase, r):
			c.Upper = true
		case strings.ContainsRune(Lowercase, r):
			c.Lower = true
		case strings.ContainsRune(Digits, r):
			c.Digit = true
		case strings.ContainsRune(Symbols, r):
			c.Symbol = true
		}
	}
	return c
}
