// internal/engine/errors_test.go
package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwapErrorFormatting(t *testing.T) {
	err := &SwapError{
		Code:   CodeExpired,
		Step:   2,
		Detail: "block height 105 passed last valid height 100",
	}
	assert.Contains(t, err.Error(), "step 2")
	assert.Contains(t, err.Error(), "expired")
	assert.Contains(t, err.Error(), "block height 105")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeTimedOut, CodeOf(&SwapError{Code: CodeTimedOut}))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))

	// Категория видна и через обёртку.
	wrapped := fmt.Errorf("perform swap: %w", &SwapError{Code: CodeOnChainFailure})
	assert.Equal(t, CodeOnChainFailure, CodeOf(wrapped))
	assert.True(t, IsOnChainFailure(wrapped))
}

func TestTagStep(t *testing.T) {
	tagged := tagStep(&SwapError{Code: CodeExpired}, 3)
	var swapErr *SwapError
	assert.True(t, errors.As(tagged, &swapErr))
	assert.Equal(t, 3, swapErr.Step)

	// Неклассифицированная ошибка заворачивается как транспортная.
	tagged = tagStep(errors.New("boom"), 1)
	assert.True(t, errors.As(tagged, &swapErr))
	assert.Equal(t, CodeTransportError, swapErr.Code)
	assert.Equal(t, 1, swapErr.Step)
}
