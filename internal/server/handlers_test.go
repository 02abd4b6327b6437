package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meltforce/ironledger/internal/metrics"
	"github.com/meltforce/ironledger/internal/workout"
)

func identified(req *http.Request, uid int, info UserInfo) *http.Request {
	ctx := context.WithValue(req.Context(), userIDKey, uid)
	ctx = context.WithValue(ctx, userInfoKey, info)
	return req.WithContext(ctx)
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = identified(req, 1, devUser)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = identified(req, 7, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

// TestWriteErrorStatusMapping verifies that service errors land on the
// documented HTTP statuses, including wrapped sentinels.
func TestWriteErrorStatusMapping(t *testing.T) {
	s := &Server{log: slog.Default()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", workout.ErrNotFound, http.StatusNotFound},
		{"unauthorized", workout.ErrUnauthorized, http.StatusForbidden},
		{"forbidden", workout.ErrForbidden, http.StatusForbidden},
		{"workout ended", workout.ErrWorkoutEnded, http.StatusConflict},
		{"cross workout", workout.ErrCrossWorkout, http.StatusBadRequest},
		{"invalid argument", workout.ErrInvalidArgument, http.StatusBadRequest},
		{"wrapped invalid argument", fmt.Errorf("%w: chosen exercise is already completed", workout.ErrInvalidArgument), http.StatusBadRequest},
		{"below bar weight", metrics.ErrBelowBarWeight, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestParseIDRejectsGarbage verifies malformed UUIDs become 400s before
// reaching storage.
func TestParseIDRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	if _, ok := parseID(rec, req); ok {
		t.Fatal("parseID accepted a malformed UUID")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestPlanRequestValidation exercises the plan payload checks.
func TestPlanRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     planRequest
		wantErr bool
	}{
		{"valid private", planRequest{Name: "Push Day", Privacy: "private"}, false},
		{"valid default privacy", planRequest{Name: "Push Day"}, false},
		{"missing name", planRequest{Privacy: "shared"}, true},
		{"bad privacy", planRequest{Name: "Push Day", Privacy: "public"}, true},
		{"zero exercise ref", planRequest{Name: "Push Day", Exercises: []planExerciseRequest{{}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.req.validate()
			if (msg != "") != tt.wantErr {
				t.Errorf("validate() = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}
}
