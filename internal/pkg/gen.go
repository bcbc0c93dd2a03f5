package pkg

import (
	"crypto/rand"
	"math/big"
)

const (
	nameLength         = 9
	nameLetterPoolSize = 4
)

// GeneratePlayerName - builds a random display name out of a small random
// pool of capital letters, which keeps names short and readable without a
// word list.
func GeneratePlayerName() string {
	pool := make([]byte, 0, nameLetterPoolSize)
	for len(pool) < nameLetterPoolSize {
		letter, ok := randomLetter()
		if !ok {
			return "PLAYER"
		}

		if !contains(pool, letter) {
			pool = append(pool, letter)
		}
	}

	name := make([]byte, nameLength)
	for i := range name {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return "PLAYER"
		}

		name[i] = pool[n.Int64()]
	}

	return string(name)
}

func randomLetter() (byte, bool) {
	n, err := rand.Int(rand.Reader, big.NewInt(26))
	if err != nil {
		return 0, false
	}

	return byte('A' + n.Int64()), true
}

func contains(pool []byte, letter byte) bool {
	for _, b := range pool {
		if b == letter {
			return true
		}
	}

	return false
}
