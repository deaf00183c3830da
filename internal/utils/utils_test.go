package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerPrefixesAppName(t *testing.T) {
	var buf bytes.Buffer
	initLogger("tolet-test", &buf, "debug")
	defer initLogger("tolet-test", &buf, "info")

	Logger.Debug("hello")
	require.Contains(t, buf.String(), "[tolet-test] hello")
	require.Equal(t, logrus.DebugLevel, Logger.GetLevel())
}

func TestInitLoggerInvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	initLogger("tolet-test", &buf, "loud")
	require.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	require.Contains(t, buf.String(), "Invalid LOG_LEVEL")
}

func TestHandleAppErrorWritesDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	err := fmt.Errorf("wrapped: %w", NewConflict("duplicate", map[string]string{"existingPropertyId": "AAAA0001"}))

	HandleAppError(rr, err)

	require.Equal(t, http.StatusConflict, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, ErrCodeConflict, body.Code)
	require.Equal(t, "duplicate", body.Message)
	require.Equal(t, map[string]any{"existingPropertyId": "AAAA0001"}, body.Details)
}

func TestHandleAppErrorFallsBackToInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleAppError(rr, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, ErrCodeInternal, body.Code)
	require.Nil(t, body.Details)
}

func TestErrorCode(t *testing.T) {
	require.Equal(t, ErrCodeForbidden, ErrorCode(NewForbidden("no")))
	require.Equal(t, ErrCodeValidation, ErrorCode(fmt.Errorf("x: %w", NewValidation("bad"))))
	require.Equal(t, "", ErrorCode(errors.New("plain")))
}

func TestParsePaging(t *testing.T) {
	page, limit := ParsePaging("", "", 10, 100)
	require.Equal(t, 1, page)
	require.Equal(t, 10, limit)

	page, limit = ParsePaging("3", "500", 10, 100)
	require.Equal(t, 3, page)
	require.Equal(t, 100, limit)

	page, limit = ParsePaging("-2", "abc", 10, 100)
	require.Equal(t, 1, page)
	require.Equal(t, 10, limit)
}
