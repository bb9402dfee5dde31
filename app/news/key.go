package news

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// KeyFunc derives the record id from an article title.
type KeyFunc func(title string) string

const (
	KeySchemeBase64Prefix = "base64-prefix"
	KeySchemeSHA256       = "sha256"
)

// Base64PrefixLength is the number of encoded characters kept by Base64PrefixKey.
const Base64PrefixLength = 50

// Base64PrefixKey returns the first 50 characters of the padded standard
// base64 encoding of the title. Distinct titles sharing those characters
// collide and the later one is dropped as a duplicate.
func Base64PrefixKey(title string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(title))
	if len(encoded) > Base64PrefixLength {
		return encoded[:Base64PrefixLength]
	}
	return encoded
}

// SHA256Key returns the hex SHA-256 digest of the normalized title.
func SHA256Key(title string) string {
	sum := sha256.Sum256([]byte(NormalizeTitle(title)))
	return hex.EncodeToString(sum[:])
}

// NormalizeTitle applies NFKC, case folding and whitespace collapsing.
func NormalizeTitle(title string) string {
	s := norm.NFKC.String(title)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func KeyFuncByName(scheme string) (KeyFunc, error) {
	switch scheme {
	case "", KeySchemeBase64Prefix:
		return Base64PrefixKey, nil
	case KeySchemeSHA256:
		return SHA256Key, nil
	default:
		return nil, fmt.Errorf("unknown key scheme: %s", scheme)
	}
}
