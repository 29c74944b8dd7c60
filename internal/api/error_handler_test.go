package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/api/handler"
	"github.com/pulselink/pulselink-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, "A user with this email already exists."},
		{"auth failed", fmt.Errorf("login: %w", domain.ErrAuthenticationFailed), http.StatusUnauthorized, "Incorrect email or password"},
		{"credentials invalid", domain.ErrCredentialsInvalid, http.StatusUnauthorized, "Could not validate credentials"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, slow down."},
		{"unavailable", domain.ErrServiceUnavailable, http.StatusServiceUnavailable, "AI service is unavailable."},
		{"transcription", domain.ErrTranscriptionFailed, http.StatusInternalServerError, "Could not transcribe audio."},
		{"validation", domain.ErrValidation, http.StatusUnprocessableEntity, "invalid input"},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp handler.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Error)
			}

			challenge := rec.Header().Get(echo.HeaderWWWAuthenticate)
			if tt.wantCode == http.StatusUnauthorized && challenge != "Bearer" {
				t.Fatalf("expected bearer challenge, got %q", challenge)
			}
			if tt.wantCode != http.StatusUnauthorized && challenge != "" {
				t.Fatalf("unexpected challenge on %d: %q", tt.wantCode, challenge)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrServiceUnavailable, c)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response must not change, got %d", rec.Code)
	}
}
