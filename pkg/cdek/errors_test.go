package cdek_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tournevent/cdek/pkg/cdek"
)

func TestError_Format(t *testing.T) {
	err := cdek.NewError("400", "bad request")
	assert.Equal(t, "[400] bad request", err.Error())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := cdek.NewError(cdek.CodeNoUUID, "no entity uuid")
	assert.ErrorIs(t, err, cdek.NewError(cdek.CodeNoUUID, "different message"))
	assert.NotErrorIs(t, err, cdek.NewError(cdek.CodeNoEntity, "no entity uuid"))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := cdek.NewError(cdek.CodeTransport, "request failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, cdek.IsTransport(err))
	assert.True(t, cdek.IsTransport(fmt.Errorf("fetching page 0: %w", err)))
	assert.False(t, cdek.IsTransport(cause))
}
