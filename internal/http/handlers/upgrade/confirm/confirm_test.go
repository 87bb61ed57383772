package confirm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/anonchat/account-service/internal/http/middlewarectx"
	"github.com/anonchat/account-service/internal/services/upgrade"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Confirm(ctx context.Context, username, linkID string) (*upgrade.Result, error) {
	args := m.Called(ctx, username, linkID)
	result, _ := args.Get(0).(*upgrade.Result)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestConfirmHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		ctxUsername    any
		requestBody    interface{}
		mockResult     *upgrade.Result
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:           "paid link grants premium",
			ctxUsername:    "alice",
			requestBody:    Request{LinkID: "plink_L1"},
			mockResult:     &upgrade.Result{Status: "paid", Premium: true},
			wantStatusCode: http.StatusOK,
			wantData:       map[string]any{"status": "paid", "premium": true},
			wantStatus:     "OK",
		},
		{
			name:           "expired link keeps standard",
			ctxUsername:    "bob",
			requestBody:    Request{LinkID: "plink_L2"},
			mockResult:     &upgrade.Result{Status: "expired", Premium: false},
			wantStatusCode: http.StatusOK,
			wantData:       map[string]any{"status": "expired", "premium": false},
			wantStatus:     "OK",
		},
		{
			name:           "no user in context",
			ctxUsername:    nil,
			requestBody:    Request{LinkID: "plink_L1"},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
			wantStatus:     "Error",
		},
		{
			name:           "invalid json body",
			ctxUsername:    "alice",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing link id",
			ctxUsername:    "alice",
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field LinkID is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "unknown link",
			ctxUsername:    "alice",
			requestBody:    Request{LinkID: "plink_unknown"},
			mockErr:        upgrade.ErrAttemptNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "payment link not found",
			wantStatus:     "Error",
		},
		{
			name:           "foreign link",
			ctxUsername:    "mallory",
			requestBody:    Request{LinkID: "plink_L1"},
			mockErr:        upgrade.ErrNotAttemptOwner,
			wantStatusCode: http.StatusForbidden,
			wantError:      "payment link belongs to another user",
			wantStatus:     "Error",
		},
		{
			name:           "grant not persisted",
			ctxUsername:    "alice",
			requestBody:    Request{LinkID: "plink_L1"},
			mockErr:        errors.Join(upgrade.ErrGrantNotPersisted, errors.New("connection lost")),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "payment received, retry confirmation",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			ctxUsername:    "alice",
			requestBody:    Request{LinkID: "plink_L1"},
			mockErr:        errors.New("storage down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResult != nil || tt.mockErr != nil {
				serviceMock.On("Confirm", mock.Anything, tt.ctxUsername, tt.requestBody.(Request).LinkID).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/upgrade/confirm", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.ctxUsername != nil {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}

			if tt.mockResult != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
