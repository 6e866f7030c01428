package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentRequestValidate(t *testing.T) {
	assert.NoError(t, CreateCommentRequest{Content: "nice"}.Validate())
	assert.Error(t, CreateCommentRequest{}.Validate())

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, CreateCommentRequest{Content: string(long)}.Validate())
}

func TestSubmitRatingRequestValidate(t *testing.T) {
	assert.NoError(t, SubmitRatingRequest{Rating: 5, SessionID: "abcdefgh"}.Validate())
	assert.Error(t, SubmitRatingRequest{Rating: 0, SessionID: "abcdefgh"}.Validate())
	assert.Error(t, SubmitRatingRequest{Rating: 6, SessionID: "abcdefgh"}.Validate())
	assert.Error(t, SubmitRatingRequest{Rating: 3, SessionID: "short"}.Validate())
}

func TestCreateGameRequestValidate(t *testing.T) {
	valid := CreateGameRequest{
		Slug:     "pixel-racer",
		Title:    "Pixel Racer",
		Category: "arcade",
	}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.ContractAddress = "not-an-address"
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.Images = []string{"not a url"}
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.Slug = ""
	assert.Error(t, invalid.Validate())
}

func TestFormatValidationErrors(t *testing.T) {
	err := CreateGameRequest{}.Validate()
	require.Error(t, err)

	fieldErrors := FormatValidationErrors(err)
	require.NotEmpty(t, fieldErrors)

	resp := CreateValidationErrorResponse(err)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.NotEmpty(t, resp.Errors)
}
