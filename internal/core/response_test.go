// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSONErrorRendersAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	appErr := NewAppError(ErrConflict, "room still has entities", http.StatusConflict, "ROOM_HAS_ENTITIES")

	JSONError(rec, fmt.Errorf("delete room: %w", appErr))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ROOM_HAS_ENTITIES", resp.Error.Code)
	assert.Equal(t, "room still has entities", resp.Error.Message)
}

func TestJSONErrorHidesFaults(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	OK(rec, map[string]int{"room_id": 4})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"room_id":4}}`, rec.Body.String())
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("get user: %w", NotFoundError("user"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsAppError(err))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.True(t, role.IsAdmin())

	role, err = ParseRole(" USER ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
