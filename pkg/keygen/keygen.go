package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	lowerAlphaNumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

	// uploadSuffixLen is the length of the random part of an upload name
	uploadSuffixLen = 8
)

// SessionID generates a new session identifier
func SessionID() string {
	return uuid.New().String()
}

// Secret generates a random base64 secret of n bytes.
// Used when no signing secret is configured (development only).
func Secret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UploadName builds a stored file name for an uploaded file:
// <field>-<unix millis>-<random>.<ext>
// The random suffix keeps two uploads in the same millisecond apart.
func UploadName(field, ext string, now time.Time) (string, error) {
	suffix, err := randomString(uploadSuffixLen, lowerAlphaNumeric)
	if err != nil {
		return "", err
	}

	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := fmt.Sprintf("%s-%d-%s", field, now.UnixMilli(), suffix)
	if ext != "" {
		name += "." + ext
	}
	return name, nil
}

// randomString generates a random string of given length from the given charset
func randomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}

	return string(result), nil
}
