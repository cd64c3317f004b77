package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
)

const (
	TripleASignatureHeader    = "triplea-signature"
	BridgecardSignatureHeader = "x-webhook-signature"
	DefaultSignatureTolerance = 300 * time.Second
)

// Verifier checks TripleA "t=<unix>,v1=<hex>" signature headers.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultSignatureTolerance
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance, now: time.Now}
}

// Verify accepts the body when the digest of "{t}.{body}" matches v1 and t
// is within tolerance of the current time.
func (v *Verifier) Verify(header string, body []byte) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed header", pkgerrors.ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", pkgerrors.ErrInvalidSignature)
	}

	expected := digest(v.secret, []byte(ts+"."), body)
	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(expected, got) {
		return pkgerrors.ErrInvalidSignature
	}

	skew := v.now().Sub(time.Unix(unix, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.tolerance {
		return pkgerrors.ErrStaleSignature
	}
	return nil
}

// Sign builds a header value for body at t.
func Sign(secret string, t time.Time, body []byte) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(digest([]byte(secret), []byte(ts+"."), body))
}

// VerifyBody checks a plain hex HMAC-SHA256 of the whole body, as sent by Bridgecard.
func VerifyBody(secret, signature string, body []byte) error {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return pkgerrors.ErrInvalidSignature
	}
	if !hmac.Equal(digest([]byte(secret), body), got) {
		return pkgerrors.ErrInvalidSignature
	}
	return nil
}

// SignBody is the counterpart of VerifyBody.
func SignBody(secret string, body []byte) string {
	return hex.EncodeToString(digest([]byte(secret), body))
}

func digest(secret []byte, parts ...[]byte) []byte {
	mac := hmac.New(sha256.New, secret)
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}
