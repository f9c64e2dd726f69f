// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Override-code alphabet: four decimal digits followed by four uppercase hex
// letters, e.g. "4821CFAB". Short enough to read out over the phone, large
// enough a keyspace for a code that lives one week and is validated behind
// an authenticated admin endpoint.
const (
	codeDigits  = "0123456789"
	codeLetters = "ABCDEF"

	codeDigitCount  = 4
	codeLetterCount = 4
)

// GenerateOverrideCode returns a fresh random override code drawn from
// crypto/rand. The format is fixed: codeDigitCount decimal digits followed
// by codeLetterCount uppercase hex letters.
func GenerateOverrideCode() (string, error) {
	buf := make([]byte, codeDigitCount+codeLetterCount)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error reading random bytes for override code: %w", err)
	}

	out := make([]byte, 0, len(buf))
	for i := 0; i < codeDigitCount; i++ {
		out = append(out, codeDigits[int(buf[i])%len(codeDigits)])
	}
	for i := codeDigitCount; i < codeDigitCount+codeLetterCount; i++ {
		out = append(out, codeLetters[int(buf[i])%len(codeLetters)])
	}

	return string(out), nil
}

// HashOverrideCode returns the hex-encoded SHA-256 digest of code.
// The same function is used at generation and validation time so the two
// sides can never diverge.
func HashOverrideCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CompareCodeHash reports whether the hex-encoded digest of candidate equals
// storedHash. The comparison runs over the raw digest bytes in constant time
// to avoid a timing side channel on the stored hash.
func CompareCodeHash(candidate, storedHash string) bool {
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(sum[:], stored) == 1
}

// ConstantTimeEquals compares two strings in constant time over their SHA-256
// digests. Used for shared-secret token checks (e.g. the cron gate) where the
// two values may differ in length.
func ConstantTimeEquals(a, b string) bool {
	aSum := sha256.Sum256([]byte(a))
	bSum := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(aSum[:], bSum[:]) == 1
}
