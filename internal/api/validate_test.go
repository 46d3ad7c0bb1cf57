package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		form := signupForm{Username: "alice", Email: "alice@example.com", Password: "secret1"}
		assert.Nil(t, ValidateStruct(&form))
	})

	t.Run("AllMissing", func(t *testing.T) {
		fieldErrors := ValidateStruct(&signupForm{})

		require.Len(t, fieldErrors, 3)
		assert.Equal(t, FieldError{Field: "Username", Msg: "Username is required"}, fieldErrors[0])
		assert.Equal(t, FieldError{Field: "Email", Msg: "Email is required"}, fieldErrors[1])
		assert.Equal(t, FieldError{Field: "Password", Msg: "Password is required"}, fieldErrors[2])
	})

	t.Run("BadEmail", func(t *testing.T) {
		form := signupForm{Username: "alice", Email: "not-an-email", Password: "secret1"}
		fieldErrors := ValidateStruct(&form)

		require.Len(t, fieldErrors, 1)
		assert.Equal(t, "Please provide a valid email", fieldErrors[0].Msg)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		form := signupForm{Username: "alice", Email: "alice@example.com", Password: "abc"}
		fieldErrors := ValidateStruct(&form)

		require.Len(t, fieldErrors, 1)
		assert.Equal(t, "Password must be at least 6 characters long", fieldErrors[0].Msg)
	})
}
