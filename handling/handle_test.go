package handling

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestHandleErrorWritesInternalServerError(t *testing.T) {
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	rec := httptest.NewRecorder()

	HandleError(errors.New("boom"), "Failed to fetch sync events", logger, rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
