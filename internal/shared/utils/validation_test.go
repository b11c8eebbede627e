package utils

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindingSample struct {
	Title string `json:"title" binding:"required,max=10"`
	Tone  string `json:"tone" binding:"omitempty,oneof=formal casual"`
}

func TestBindingErrorMessage(t *testing.T) {
	t.Run("reports fields by json tag", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&bindingSample{Tone: "shouty"})
		require.Error(t, err)

		msg := BindingErrorMessage(err)
		assert.Contains(t, msg, "title is required")
		assert.Contains(t, msg, "tone must be one of [formal casual]")
	})

	t.Run("string length limits name the character count", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&bindingSample{Title: "far too long a title"})
		require.Error(t, err)

		assert.Contains(t, BindingErrorMessage(err), "title must be at most 10 characters long")
	})

	t.Run("non-validator errors stay generic", func(t *testing.T) {
		msg := BindingErrorMessage(errors.New("unexpected EOF"))
		assert.Equal(t, "invalid request body", msg)
	})
}
