// Package qrtoken encodes and decodes the payload carried by a driver's QR code.
//
// The wire format is a compact JSON object:
//
//	{"documentId":"...","driverId":"...","timestamp":1717228800000,"token":"..."}
//
// timestamp is the issuance time in epoch milliseconds and token is an optional
// nonce. The payload is not signed: anyone who knows a document/driver pair can
// build one. Freshness is judged by the verifier, never here.
package qrtoken

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Token is the decoded QR payload
type Token struct {
	DocumentID string `json:"documentId"`
	DriverID   string `json:"driverId"`
	IssuedAt   int64  `json:"timestamp"`
	Nonce      string `json:"token,omitempty"`
}

// IssuedTime returns IssuedAt as a time.Time
func (t Token) IssuedTime() time.Time {
	return time.UnixMilli(t.IssuedAt)
}

// DecodeError reports a payload that is not a usable token. Partial holds
// whatever fields could be read so the attempt can still be audited.
type DecodeError struct {
	Reason  string
	Partial Token
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid qr code format: %s: %v", e.Reason, e.Err)
	}
	return "invalid qr code format: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Codec turns tokens into strings and back. The zero value uses time.Now.
type Codec struct {
	Now func() time.Time
}

// Default is the codec used by the package-level helpers
var Default = Codec{}

func (c Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// New builds a token stamped with the codec's current time
func (c Codec) New(documentID, driverID, nonce string) Token {
	return Token{
		DocumentID: documentID,
		DriverID:   driverID,
		IssuedAt:   c.now().UnixMilli(),
		Nonce:      nonce,
	}
}

// Encode stamps a new token with the current time and serializes it
func (c Codec) Encode(documentID, driverID, nonce string) (string, Token, error) {
	tok := c.New(documentID, driverID, nonce)
	payload, err := Marshal(tok)
	return payload, tok, err
}

// Marshal serializes an existing token
func Marshal(tok Token) (string, error) {
	if err := tok.validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return string(data), nil
}

// Encode is Default.Encode returning only the payload
func Encode(documentID, driverID, nonce string) (string, error) {
	payload, _, err := Default.Encode(documentID, driverID, nonce)
	return payload, err
}

// Decode parses a scanned payload. It does no I/O and no time checks.
func Decode(payload string) (Token, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Token{}, &DecodeError{Reason: "empty payload"}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Token{}, &DecodeError{Reason: "not a json object", Err: err}
	}
	if raw == nil {
		return Token{}, &DecodeError{Reason: "not a json object"}
	}

	var tok Token
	var firstErr *DecodeError
	fail := func(reason string, err error) {
		if firstErr == nil {
			firstErr = &DecodeError{Reason: reason, Err: err}
		}
	}

	readString := func(key string, dst *string) {
		v, ok := raw[key]
		if !ok || isNull(v) {
			return
		}
		if err := json.Unmarshal(v, dst); err != nil {
			fail(key+" must be a string", err)
		}
	}
	readString("documentId", &tok.DocumentID)
	readString("driverId", &tok.DriverID)
	readString("token", &tok.Nonce)

	if v, ok := raw["timestamp"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &tok.IssuedAt); err != nil {
			fail("timestamp must be an integer", err)
		}
	}

	if err := tok.validate(); err != nil && firstErr == nil {
		firstErr = err.(*DecodeError)
	}
	if firstErr != nil {
		firstErr.Partial = tok
		return Token{}, firstErr
	}
	return tok, nil
}

func (t Token) validate() error {
	if strings.TrimSpace(t.DocumentID) == "" {
		return &DecodeError{Reason: "missing documentId"}
	}
	if strings.TrimSpace(t.DriverID) == "" {
		return &DecodeError{Reason: "missing driverId"}
	}
	// json.Marshal rewrites invalid UTF-8 as U+FFFD, which would not round-trip
	switch {
	case !utf8.ValidString(t.DocumentID):
		return &DecodeError{Reason: "documentId is not valid utf-8"}
	case !utf8.ValidString(t.DriverID):
		return &DecodeError{Reason: "driverId is not valid utf-8"}
	case !utf8.ValidString(t.Nonce):
		return &DecodeError{Reason: "token is not valid utf-8"}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
