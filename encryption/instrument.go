package encryption

import (
	"context"
	"time"

	"github.com/shhhinnovations/cryptokit/observability"
)

// instrumented decorates a Cryptographer with operation metrics.
type instrumented struct {
	next    Cryptographer
	name    string
	metrics *observability.CryptoMetrics
}

// Instrument wraps c so that every Encrypt and Decrypt call is counted and
// timed on metrics, tagged with the algorithm name of c. A nil metrics
// returns c unchanged.
func Instrument(c Cryptographer, metrics *observability.CryptoMetrics) Cryptographer {
	if metrics == nil || isNil(c) {
		return c
	}
	return &instrumented{next: c, name: Name(c), metrics: metrics}
}

func (i *instrumented) Encrypt(salt, plaintext string) (string, error) {
	start := time.Now()
	out, err := i.next.Encrypt(salt, plaintext)
	i.metrics.RecordOperation(context.Background(), i.name, "encrypt", observability.StatusOf(err), time.Since(start))
	return out, err
}

func (i *instrumented) Decrypt(salt, ciphertext string) (string, error) {
	start := time.Now()
	out, err := i.next.Decrypt(salt, ciphertext)
	i.metrics.RecordOperation(context.Background(), i.name, "decrypt", observability.StatusOf(err), time.Since(start))
	return out, err
}
