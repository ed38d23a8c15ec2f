package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test"

func TestVerifySignatureRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"type":"video.asset.ready","data":{"id":"ast_1"}}`)

	header := Sign(body, testSecret, now)
	assert.NoError(t, VerifySignature(body, header, testSecret, DefaultTolerance, now))
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	err := VerifySignature([]byte("{}"), "", testSecret, DefaultTolerance, time.Now())
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	header := Sign([]byte(`{"a":1}`), testSecret, now)

	err := VerifySignature([]byte(`{"a":2}`), header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	body := []byte("{}")
	header := Sign(body, "whsec_other", now)

	err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	body := []byte("{}")

	header := Sign(body, testSecret, now.Add(-6*time.Minute))
	assert.ErrorIs(t, VerifySignature(body, header, testSecret, DefaultTolerance, now), ErrStaleSignature)

	// timestamps from the future are just as suspect
	header = Sign(body, testSecret, now.Add(6*time.Minute))
	assert.ErrorIs(t, VerifySignature(body, header, testSecret, DefaultTolerance, now), ErrStaleSignature)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	now := time.Now()
	body := []byte("{}")

	for _, header := range []string{
		"v1=deadbeef",
		"t=1700000000",
		"t=notanumber,v1=deadbeef",
		"garbage",
	} {
		err := VerifySignature(body, header, testSecret, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}
