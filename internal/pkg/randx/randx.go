/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate fixed-length alphanumeric room codes and standard UUID message IDs.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// CodeAlphabet defines the character set used for room codes (A-Z, 0-9).
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeAlphabetLen is the total number of characters in the room code character set.
	CodeAlphabetLen = int64(len(CodeAlphabet))

	// RoomCodeLength is the fixed length required for a generated room code.
	RoomCodeLength = 5
)

// RoomCode generates an uppercase alphanumeric room code using a cryptographically
// secure random number generator (crypto/rand). It returns a string of length
// RoomCodeLength and any error encountered. Uniqueness against live rooms is the
// caller's responsibility; the registry retries on collision.
func RoomCode() (string, error) {
	result := make([]byte, RoomCodeLength)

	for i := range RoomCodeLength {
		num, err := rand.Int(rand.Reader, big.NewInt(CodeAlphabetLen))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room code: %v", err)
		}

		result[i] = CodeAlphabet[num.Int64()]
	}

	return string(result), nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// IsValidRoomCode checks if the given string is a valid room code.
// Validity criteria include: length equals RoomCodeLength and all characters
// belong to the CodeAlphabet set.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(CodeAlphabet, char) {
			return false
		}
	}

	return true
}
