package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook/domain"
)

// Verifier validates webhook authenticity and freshness. The digest is
// HMAC-SHA256 over the timestamp string concatenated with the raw body,
// base64-encoded, keyed by the processor's shared client secret.
type Verifier struct {
	secret    []byte
	freshness time.Duration
	clk       clock.Clock
}

func NewVerifier(secret string, freshness time.Duration, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Verifier{
		secret:    []byte(secret),
		freshness: freshness,
		clk:       clk,
	}
}

// Verify checks freshness first, then the digest. Both must pass; any
// failure is terminal for the delivery and never mutates state.
func (v *Verifier) Verify(rawBody []byte, timestampHeader, signatureHeader string) error {
	if timestampHeader == "" || signatureHeader == "" {
		return domain.ErrMissingSignature
	}

	seconds, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return domain.ErrInvalidTimestamp
	}
	sent := time.Unix(seconds, 0)
	skew := v.clk.Now().Sub(sent)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.freshness {
		return domain.ErrStaleTimestamp
	}

	expected := v.Sign(timestampHeader, rawBody)
	if !hmac.Equal([]byte(expected), []byte(signatureHeader)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the expected signature for a timestamp and raw body.
func (v *Verifier) Sign(timestamp string, rawBody []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
