package room

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

const codeLength = 4
const maxRetries = 100

var letters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateCode creates a random 4-letter uppercase session code that is not in existing.
func GenerateCode(rng *rand.Rand, existing mapset.Set[string]) string {
	for i := 0; i < maxRetries; i++ {
		code := randomCode(rng)
		if !existing.Has(code) {
			return code
		}
	}
	// 26^4 codes make a long collision streak practically impossible.
	return randomCode(rng)
}

func randomCode(rng *rand.Rand) string {
	b := make([]rune, codeLength)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}
