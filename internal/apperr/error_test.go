package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:         http.StatusNotFound,
		CodeRoomFull:         http.StatusConflict,
		CodeNotYourTurn:      http.StatusConflict,
		CodeAlreadyTerminal:  http.StatusConflict,
		CodeEmptyArgument:    http.StatusBadRequest,
		CodeInvalidTopic:     http.StatusBadRequest,
		CodeNotAParticipant:  http.StatusForbidden,
		CodeUnauthorized:     http.StatusUnauthorized,
		CodeJudgeUnavailable: http.StatusBadGateway,
		CodeTransport:        http.StatusServiceUnavailable,
		CodeUnknown:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s: expected %d, got %d", code, want, got)
		}
	}
}

func TestWrapAndInspect(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("poll: %w", Wrap(CodeTransport, cause))

	if !IsCode(err, CodeTransport) {
		t.Fatalf("expected %s through wrapping, got %s", CodeTransport, GetCode(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable")
	}
	if Message(err) != CodeTransport.DefaultMessage() {
		t.Fatalf("unexpected message %q", Message(err))
	}
	if GetCode(cause) != CodeUnknown {
		t.Fatalf("plain errors should have no code, got %s", GetCode(cause))
	}
	if Message(cause) != CodeInternal.DefaultMessage() {
		t.Fatalf("plain errors should not leak details, got %q", Message(cause))
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	if New(CodeNotYourTurn).Message == New(CodeAlreadyTerminal).Message {
		t.Fatal("not your turn and already over must read differently")
	}
	e := Newf(CodeInvalidTopic, "Topic must be at least %d characters", 10).WithMetadata("min", "10")
	if e.Message != "Topic must be at least 10 characters" || e.Metadata["min"] != "10" {
		t.Fatalf("unexpected error %+v", e)
	}
}
