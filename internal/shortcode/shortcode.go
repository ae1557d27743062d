// Package shortcode generates random short codes over an alphabet that leaves
// out visually ambiguous characters.
package shortcode

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet holds the 57 alphanumerics left after removing 0, O, l, 1 and I.
	Alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// DefaultLength is the length of generated codes.
	DefaultLength = 6
	// MaxAttempts bounds the number of draws per Generate call.
	MaxAttempts = 100
)

// ErrGenerationExhausted is returned when every draw was already in use.
var ErrGenerationExhausted = errors.New("unable to generate unique short code")

// Generator draws short codes. It is safe for concurrent use.
type Generator struct {
	alphabet    string
	maxAttempts int
}

// NewGenerator returns a Generator over Alphabet.
func NewGenerator() *Generator {
	return &Generator{
		alphabet:    Alphabet,
		maxAttempts: MaxAttempts,
	}
}

// Generate returns a code of the given length that is not a key of avoid.
// Each call is independently randomized.
func (g *Generator) Generate(length int, avoid map[string]struct{}) (string, error) {
	const op = "shortcode.Generator.Generate"

	if length <= 0 {
		return "", fmt.Errorf("%s: invalid length %d", op, length)
	}

	for i := 0; i < g.maxAttempts; i++ {
		code, err := gonanoid.Generate(g.alphabet, length)
		if err != nil {
			return "", fmt.Errorf("%s: failed to draw short code: %w", op, err)
		}

		if _, taken := avoid[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%s: %w after %d attempts", op, ErrGenerationExhausted, g.maxAttempts)
}
