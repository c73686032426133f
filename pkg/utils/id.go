package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Meeting codes avoid 0/O/1/I so they survive being read out loud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateMeetingCode generates a human-shareable meeting code of the given
// length, e.g. "AB12CD".
func GenerateMeetingCode(length int) string {
	if length <= 0 {
		length = 6
	}
	b := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is unrecoverable for code generation
			panic(err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}

// GenerateParticipantID generates a unique participant ID.
func GenerateParticipantID() string {
	return "user-" + uuid.NewString()
}

// GenerateRequestID generates a unique request ID for HTTP logging.
func GenerateRequestID() string {
	return uuid.NewString()
}
