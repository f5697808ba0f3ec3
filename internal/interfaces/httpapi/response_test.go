package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/usecase"
)

func TestMapError_StatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantHTTP   int
		wantReason string
	}{
		{"validation", &usecase.ValidationError{Reasons: []string{"x"}}, http.StatusBadRequest, "eventRejected"},
		{"unknown event code", fmt.Errorf("%w: NOPE", usecase.ErrUnknownEventCode), http.StatusBadRequest, "unknownEventCode"},
		{"invalid input", fmt.Errorf("%w: bad", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		{"unknown token", usecase.ErrUnknownToken, http.StatusNotFound, "unknownToken"},
		{"not found", fmt.Errorf("%w: thing", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		{"disqualified", character.ErrAlreadyDisqualified, http.StatusForbidden, "characterDisqualified"},
		{"duplicate account", usecase.ErrDuplicateAccount, http.StatusConflict, "duplicateAccount"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.wantHTTP {
				t.Fatalf("unexpected status: got=%d want=%d", mapped.HTTPStatus, tc.wantHTTP)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("unexpected reason: got=%s want=%s", mapped.Reason, tc.wantReason)
			}
		})
	}
}

func TestWriteError_ItemizesValidationReasons(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &usecase.ValidationError{Reasons: []string{
		"State bit does not indicate DOWNED",
		"Mount change reported without a mount index",
	}}

	writeError(context.Background(), rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}

	var envelope googleResponseEnvelope
	if e := json.Unmarshal(rec.Body.Bytes(), &envelope); e != nil {
		t.Fatalf("decode envelope: %v", e)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion: %s", envelope.APIVersion)
	}
	if envelope.Error == nil {
		t.Fatalf("error body missing")
	}
	if envelope.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected status string: %s", envelope.Error.Status)
	}
	if len(envelope.Error.Errors) != 2 {
		t.Fatalf("one entry per reason expected: got=%d", len(envelope.Error.Errors))
	}
	for _, item := range envelope.Error.Errors {
		if item.Domain != errorDomain || item.Reason != "eventRejected" {
			t.Fatalf("unexpected item: %+v", item)
		}
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion || envelope.Data["hello"] != "world" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestWriteInternalError_HidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}

	var envelope googleResponseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Fatalf("internal errors must not leak details: %+v", envelope.Error)
	}
}
