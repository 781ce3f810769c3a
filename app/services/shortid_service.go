package services

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
)

// ErrShortIDGeneration is returned when no usable code could be derived
var ErrShortIDGeneration = errors.New("failed to derive short code")

// ShortIDGenerator derives fixed-length alphanumeric codes for URLs.
// Codes are not collision-proof; the unique index on links.short_id is
// the backstop and callers regenerate on a duplicate-key error.
type ShortIDGenerator interface {
	Generate(originalURL string) (string, error)
}

type ShortIDGeneratorImpl struct {
	length int
}

func NewShortIDGenerator() ShortIDGenerator {
	return &ShortIDGeneratorImpl{length: utils.ShortIDLength}
}

// Generate hashes the URL salted with the current sub-second timestamp,
// encodes the digest URL-safe base64, keeps only alphanumerics and takes
// the first length characters. Each call uses a fresh salt, so repeated
// calls for the same URL yield different codes.
func (g *ShortIDGeneratorImpl) Generate(originalURL string) (string, error) {
	// A 43-char digest encoding almost always carries enough
	// alphanumerics; the bound guards the degenerate case.
	for attempt := 0; attempt < 8; attempt++ {
		salt := strconv.FormatFloat(float64(utils.UTCNowUnixNano())/1e9, 'f', -1, 64)
		digest := sha256.Sum256([]byte(originalURL + salt))
		encoded := base64.RawURLEncoding.EncodeToString(digest[:])

		code := make([]byte, 0, g.length)
		for i := 0; i < len(encoded) && len(code) < g.length; i++ {
			c := encoded[i]
			if isAlphanumeric(c) {
				code = append(code, c)
			}
		}

		if len(code) == g.length {
			return string(code), nil
		}
	}

	return "", fmt.Errorf("%w for URL of length %d", ErrShortIDGeneration, len(originalURL))
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
