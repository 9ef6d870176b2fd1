package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

func Test_NewVersionToken_ReturnsSixteenUniqueBytes(t *testing.T) {
	// act
	first := recordstore.NewVersionToken()
	second := recordstore.NewVersionToken()

	// assert
	assert.Len(t, first, 16, "token should have 16 bytes")
	assert.False(t, first.Equal(second), "two fresh tokens should differ")
}

func Test_VersionToken_StringRoundTripsThroughParse(t *testing.T) {
	// arrange
	token := recordstore.NewVersionToken()

	// act
	parsed, err := recordstore.ParseVersionToken(token.String())

	// assert
	require.NoError(t, err, "parsing a rendered token should succeed")
	assert.True(t, token.Equal(parsed), "parsed token should equal the original")
}

func Test_ParseVersionToken_RejectsGarbageAndEmptyInput(t *testing.T) {
	for _, input := range []string{"", "not base64 !!", "===="} {
		_, err := recordstore.ParseVersionToken(input)

		assert.ErrorIs(t, err, recordstore.ErrMalformedVersionToken, "input %q should be rejected", input)
	}
}

func Test_VersionToken_CloneDoesNotShareMemory(t *testing.T) {
	// arrange
	token := recordstore.NewVersionToken()

	// act
	clone := token.Clone()
	clone[0] ^= 0xFF

	// assert
	assert.False(t, token.Equal(clone), "mutating the clone should not touch the original")
}

func Test_VersionToken_EmptyNeverEqualsStoredToken(t *testing.T) {
	var empty recordstore.VersionToken

	assert.True(t, empty.IsZero())
	assert.False(t, recordstore.NewVersionToken().Equal(empty))
}

func Test_UpdateResult_Err(t *testing.T) {
	assert.NoError(t, recordstore.UpdateSuccess.Err())
	assert.ErrorIs(t, recordstore.UpdateNotFound.Err(), recordstore.ErrNotFound)
	assert.ErrorIs(t, recordstore.UpdateConcurrencyConflict.Err(), recordstore.ErrConcurrencyConflict)
	assert.ErrorIs(t, recordstore.UpdateResult(0).Err(), recordstore.ErrWritingFailed)
}

func Test_UpdateResult_String(t *testing.T) {
	assert.Equal(t, "success", recordstore.UpdateSuccess.String())
	assert.Equal(t, "not_found", recordstore.UpdateNotFound.String())
	assert.Equal(t, "concurrency_conflict", recordstore.UpdateConcurrencyConflict.String())
	assert.Equal(t, "unknown", recordstore.UpdateResult(0).String())
}
