package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/repository"
	"site-catalog/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{&service.ValidationError{Message: "name: cannot be blank"}, http.StatusBadRequest, "name: cannot be blank"},
		{fmt.Errorf("get: %w", repository.ErrInvalidID), http.StatusBadRequest, "invalid id"},
		{repository.ErrNotFound, http.StatusNotFound, "not found"},
		{&service.ConflictError{Message: `brand "acme" already exists`}, http.StatusConflict, `brand "acme" already exists`},
		{fmt.Errorf("%w: index uniq_key", repository.ErrConflict), http.StatusConflict, "already exists"},
		{service.ErrInvalidTransition, http.StatusConflict, "only drafts can be published"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["error"] != tt.msg {
			t.Errorf("%v: error = %q, want %q", tt.err, body["error"], tt.msg)
		}
	}
}

func TestOutcome(t *testing.T) {
	cases := map[error]string{
		nil:                           "ok",
		&service.ValidationError{}:    "invalid",
		repository.ErrNotFound:        "not_found",
		&service.ConflictError{}:      "conflict",
		service.ErrInvalidTransition:  "conflict",
		service.ErrForbidden:          "forbidden",
		errors.New("network is down"): "error",
	}
	for err, want := range cases {
		if got := outcome(err); got != want {
			t.Errorf("outcome(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestIDFromBody(t *testing.T) {
	if got := idFromBody([]byte(`{"id":"a","_id":"b"}`)); got != "a" {
		t.Errorf("got %q", got)
	}
	if got := idFromBody([]byte(`{"_id":"b"}`)); got != "b" {
		t.Errorf("got %q", got)
	}
	if got := idFromBody([]byte(`not json`)); got != "" {
		t.Errorf("got %q", got)
	}
}
