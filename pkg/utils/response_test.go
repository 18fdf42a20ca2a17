package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "lab-system/pkg/errors"
)

func newErrorResponseFixture() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorResponseEchoHTTPError(t *testing.T) {
	ctx, rec := newErrorResponseFixture()

	err := ErrorResponse(ctx, echo.NewHTTPError(http.StatusNotFound, "задача не найдена"), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "задача не найдена")
}

func TestErrorResponseEchoHTTPErrorWrapped(t *testing.T) {
	ctx, rec := newErrorResponseFixture()

	// Ошибки bind echo оборачивает в *echo.HTTPError с кодом 400.
	bindErr := echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса")
	require.NoError(t, ErrorResponse(ctx, bindErr, zap.NewNop()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorResponseTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperrors.NewValidationError("плохой интервал"), http.StatusBadRequest},
		{"conflict", &apperrors.ConflictError{EquipmentID: 1, BookingID: 2}, http.StatusConflict},
		{"invalid state", &apperrors.InvalidStateError{Attempted: "approved", Current: "rejected"}, http.StatusConflict},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, rec := newErrorResponseFixture()
			require.NoError(t, ErrorResponse(ctx, tc.err, zap.NewNop()))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestErrorResponseUnknownErrorHidden(t *testing.T) {
	ctx, rec := newErrorResponseFixture()

	require.NoError(t, ErrorResponse(ctx, errors.New("pgx: connection refused"), zap.NewNop()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pgx")
	assert.Contains(t, rec.Body.String(), "Внутренняя ошибка сервера")
}
