package common_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/warehouse-report/internal/common"
)

var errNotFound = errors.New("not found")

func TestClassify(t *testing.T) {
	mappings := []common.ErrorMapping{{Target: errNotFound, Code: "NOT_FOUND", Status: http.StatusNotFound}}

	require.Nil(t, common.Classify(nil, "INTERNAL", mappings...))

	appErr := common.Classify(fmt.Errorf("lookup w1: %w", errNotFound), "INTERNAL", mappings...)
	require.Equal(t, "NOT_FOUND", appErr.Code)
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	require.ErrorIs(t, appErr, errNotFound)

	appErr = common.Classify(errors.New("boom"), "INTERNAL", mappings...)
	require.Equal(t, "INTERNAL", appErr.Code)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)

	existing := common.NewAppError("CONFLICT", "conflict", http.StatusConflict, nil)
	require.Same(t, existing, common.Classify(fmt.Errorf("wrap: %w", existing), "INTERNAL", mappings...))
}

func TestWriteAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteAppError(rec, common.NewAppError("DIVISION_BY_ZERO", "warehouse W: total profit is zero", http.StatusUnprocessableEntity, nil))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body struct {
		Error common.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "DIVISION_BY_ZERO", body.Error.Code)
	require.Equal(t, "warehouse W: total profit is zero", body.Error.Message)
}
