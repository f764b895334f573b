package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_Length(t *testing.T) {
	buf := GenerateRandByteArray(24)
	require.Len(t, buf, 24)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret123")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
	WipeByteArray(nil)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrAuthenticationFailed, "Error: Incorrect login or password!"},
		{fmt.Errorf("%w: %w", ErrAuthenticationFailed, ErrConflict), "Error: Incorrect login or password!"},
		{fmt.Errorf("%w: text is empty", ErrInvalidArgument), "Error: invalid argument: text is empty"},
		{ErrBusy, "Please wait, the previous message is still being answered."},
		{fmt.Errorf("%w: dial tcp", ErrStorageUnavailable), "Error: storage is unavailable, try again later"},
		{errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
