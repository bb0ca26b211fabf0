package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	orderNumberPrefix    = "PED"
	orderNumberSuffixLen = 6
	base36Alphabet       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderNumber renders PED-<unix-ms>-<6 random base36 chars>.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, orderNumberSuffixLen)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("order number entropy: %w", err)
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, now.UTC().UnixMilli(), suffix), nil
}
