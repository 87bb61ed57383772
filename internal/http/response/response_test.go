package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonchat/account-service/internal/http/response"
)

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"username": "alice"})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"username": "alice"}, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("payment link not found")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "payment link not found", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Username string `validate:"required,min=3,max=50"`
		LinkID   string `validate:"required"`
	}

	validate := validator.New()
	err := validate.Struct(request{Username: "ab"})
	require.Error(t, err)

	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is too short")
	assert.Contains(t, resp.Error, "field LinkID is a required field")
}
