package start

import (
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

func (m *ServiceMock) Start(ctx context.Context, username string) (*upgrade.Attempt, error) {
	args := m.Called(ctx, username)
	attempt, _ := args.Get(0).(*upgrade.Attempt)
	return attempt, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStartHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		ctxUsername    any
		mockAttempt    *upgrade.Attempt
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:        "payment link created",
			ctxUsername: "alice",
			mockAttempt: &upgrade.Attempt{
				LinkID:   "plink_L1",
				URL:      "https://rzp.io/l/L1",
				Amount:   10000,
				Currency: "INR",
			},
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"link_id":  "plink_L1",
				"url":      "https://rzp.io/l/L1",
				"amount":   float64(10000),
				"currency": "INR",
			},
			wantStatus: "OK",
		},
		{
			name:           "no user in context",
			ctxUsername:    nil,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
			wantStatus:     "Error",
		},
		{
			name:           "account not found",
			ctxUsername:    "ghost",
			mockErr:        upgrade.ErrUserNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "already premium",
			ctxUsername:    "vip",
			mockErr:        upgrade.ErrAlreadyPremium,
			wantStatusCode: http.StatusConflict,
			wantError:      "account is already premium",
			wantStatus:     "Error",
		},
		{
			name:           "gateway failure",
			ctxUsername:    "alice",
			mockErr:        errors.New("gateway unreachable"),
			wantStatusCode: http.StatusBadGateway,
			wantError:      "failed to create payment link",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockAttempt != nil || tt.mockErr != nil {
				serviceMock.On("Start", mock.Anything, tt.ctxUsername).
					Return(tt.mockAttempt, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/upgrade", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.ctxUsername != nil {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
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

			if tt.mockAttempt != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
