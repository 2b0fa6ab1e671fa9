// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeCharset  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

// GenerateCode returns PREFIX-YYYYMMDD-XXXXXX with an unambiguous
// upper-case suffix, e.g. TR-20240310-7KQ2MX.
func GenerateCode(prefix string, at time.Time) (string, error) {
	suffix, err := randomFrom(codeCharset, 6)
	if err != nil {
		return "", err
	}
	return prefix + "-" + at.UTC().Format("20060102") + "-" + suffix, nil
}

// GenerateBrandCode returns a short code derived from the franchise name,
// e.g. "Burger Barn" -> BB-4KQ9.
func GenerateBrandCode(name string) (string, error) {
	initials := make([]byte, 0, 4)
	takeNext := true
	for i := 0; i < len(name) && len(initials) < 4; i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z':
			if takeNext {
				initials = append(initials, ch-'a'+'A')
			}
			takeNext = false
		case ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			if takeNext {
				initials = append(initials, ch)
			}
			takeNext = false
		default:
			takeNext = true
		}
	}
	if len(initials) == 0 {
		initials = append(initials, 'F', 'R')
	}
	suffix, err := randomFrom(codeCharset, 4)
	if err != nil {
		return "", err
	}
	return string(initials) + "-" + suffix, nil
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
