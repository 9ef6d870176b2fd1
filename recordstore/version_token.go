package recordstore

import (
	"bytes"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// ErrMalformedVersionToken is returned when a textual version token can't be decoded.
var ErrMalformedVersionToken = errors.New("malformed version token")

// VersionToken is an opaque value that changes on every successful write of a record.
// Tokens are only ever compared for exact equality.
type VersionToken []byte

// NewVersionToken returns 16 fresh random bytes.
func NewVersionToken() VersionToken {
	id := uuid.New()
	return VersionToken(id[:])
}

// ParseVersionToken decodes the base64 form produced by String.
func ParseVersionToken(s string) (VersionToken, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrMalformedVersionToken, err)
	}

	if len(raw) == 0 {
		return nil, ErrMalformedVersionToken
	}

	return raw, nil
}

// Equal reports whether both tokens hold the same bytes.
func (v VersionToken) Equal(other VersionToken) bool {
	return bytes.Equal(v, other)
}

// IsZero reports whether the token is empty.
func (v VersionToken) IsZero() bool {
	return len(v) == 0
}

// Clone returns a copy that shares no memory with v.
func (v VersionToken) Clone() VersionToken {
	if v == nil {
		return nil
	}

	return bytes.Clone(v)
}

// String returns the base64 encoding of the token.
func (v VersionToken) String() string {
	return base64.StdEncoding.EncodeToString(v)
}
