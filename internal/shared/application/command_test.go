package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommandResult(t *testing.T) {
	ok := NewCommandResult("data", nil)
	assert.True(t, ok.Success)
	assert.Equal(t, "data", ok.Data)
	assert.Equal(t, "", ok.Message())

	failed := NewCommandResult(nil, errors.New("Already exist"))
	assert.False(t, failed.Success)
	assert.Equal(t, "Already exist", failed.Message())
}
