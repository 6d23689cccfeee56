package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadSignature is returned for any malformed, mismatched or stale
// webhook signature. The webhook endpoint maps it to a 400.
var ErrBadSignature = errors.New("webhook signature verification failed")

// Signed payloads older than this are rejected to limit replay.
const signatureTolerance = 5 * time.Minute

// verifySignature checks a "t=<unix>,v1=<hex>" header where v1 is
// HMAC-SHA256(secret, "<t>.<body>").
func verifySignature(header string, body []byte, secret string, now time.Time) error {
	if secret == "" {
		return errors.New("webhook secret not configured")
	}

	var ts int64
	var provided []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrBadSignature
			}
			ts = parsed
		case "v1":
			provided = append(provided, v)
		}
	}
	if ts == 0 || len(provided) == 0 {
		return ErrBadSignature
	}

	sent := time.Unix(ts, 0)
	if now.Sub(sent) > signatureTolerance || sent.Sub(now) > signatureTolerance {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range provided {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrBadSignature
}

// SignPayload produces a valid signature header for the given body. Used by
// tests and the replay tool.
func SignPayload(body []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
