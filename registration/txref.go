package registration

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewTxRef returns a fresh transaction reference like tx_1700000000000-4821.
// Every call builds its own value; references are never shared between requests.
func NewTxRef(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("failed to generate tx_ref: %w", err)
	}
	return fmt.Sprintf("tx_%d-%d", now.UnixMilli(), n.Int64()), nil
}
