package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasiapp/qa-start-tg-bot/internal/http/response"
)

func TestOKWithData(t *testing.T) {
	resp := response.OKWithData(map[string]any{"event_id": "abc"})

	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "abc", resp.Data.(map[string]any)["event_id"])
}

func TestError(t *testing.T) {
	resp := response.Error("boom")

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "boom", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		UserID int64 `validate:"required,gt=0"`
	}

	err := validator.New().Struct(req{})
	require.Error(t, err)

	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "UserID")
}
