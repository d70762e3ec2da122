package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMessage(t *testing.T) {
	err := fmt.Errorf("create transaction: %w", &StatusError{Code: 400, Message: "Chưa chọn ví"})
	assert.Equal(t, "Chưa chọn ví", ServerMessage(err))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.False(t, IsTransport(err))
	assert.Contains(t, err.Error(), "Chưa chọn ví")

	assert.Equal(t, "", ServerMessage(fmt.Errorf("x: %w", ErrTransport)))
	assert.True(t, IsTransport(fmt.Errorf("x: %w", ErrTransport)))
}

func TestStatusErrorWithoutMessage(t *testing.T) {
	err := &StatusError{Code: http.StatusNotFound}
	assert.Equal(t, "backend returned 404 Not Found", err.Error())
}

func TestPredictionMatched(t *testing.T) {
	assert.True(t, Prediction{Status: "success", CategoryID: "C1"}.Matched())
	assert.False(t, Prediction{Status: "no_match"}.Matched())
	assert.False(t, Prediction{Status: "success"}.Matched())
}
