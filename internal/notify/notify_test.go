package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := []byte("callback-secret-123")
	payload := []byte(`{"repo_full_name":"org/repo"}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    []byte
		wantErr   bool
	}{
		{
			name:      "valid signature",
			payload:   payload,
			signature: SignPayload(payload, secret),
			secret:    secret,
			wantErr:   false,
		},
		{
			name:      "wrong secret",
			payload:   payload,
			signature: SignPayload(payload, []byte("wrong-secret")),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "tampered payload",
			payload:   []byte(`{"repo_full_name":"org/other"}`),
			signature: SignPayload(payload, secret),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "missing sha256= prefix",
			payload:   payload,
			signature: "not-a-valid-sig",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "invalid hex after prefix",
			payload:   payload,
			signature: "sha256=zzzz",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "empty signature",
			payload:   payload,
			signature: "",
			secret:    secret,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(tc.payload, tc.signature, tc.secret)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEvent_IndexCompleted(t *testing.T) {
	payload := IndexCompletedEvent{
		RepoFullName:  "org/repo",
		DefaultBranch: "main",
		CommitSHA:     "abc123",
		Branch:        "main",
		Graph:         json.RawMessage(`{"nodes":[],"edges":[]}`),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event, err := ParseEvent("index_completed", data)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}

	e, ok := event.(*IndexCompletedEvent)
	if !ok {
		t.Fatalf("expected *IndexCompletedEvent, got %T", event)
	}
	if e.RepoFullName != "org/repo" || e.CommitSHA != "abc123" {
		t.Errorf("event = %+v", e)
	}
	if len(e.Graph) == 0 {
		t.Error("expected inline graph payload")
	}
}

func TestParseEvent_RepoRemoved(t *testing.T) {
	event, err := ParseEvent("repo_removed", []byte(`{"repo_full_name":"org/gone"}`))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	e, ok := event.(*RepoRemovedEvent)
	if !ok {
		t.Fatalf("expected *RepoRemovedEvent, got %T", event)
	}
	if e.RepoFullName != "org/gone" {
		t.Errorf("repo = %q, want org/gone", e.RepoFullName)
	}
}

func TestParseEvent_UnsupportedType(t *testing.T) {
	_, err := ParseEvent("unknown_event", []byte(`{}`))
	if err == nil {
		t.Error("expected error for unsupported event type, got nil")
	}
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	types := []string{"index_completed", "repo_removed"}
	for _, eventType := range types {
		t.Run(eventType, func(t *testing.T) {
			_, err := ParseEvent(eventType, []byte(`{invalid json`))
			if err == nil {
				t.Errorf("expected error parsing invalid JSON for %s, got nil", eventType)
			}
		})
	}
}

func TestHandlerRejectsBadSignature(t *testing.T) {
	h := NewHandler([]byte("secret"), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/callbacks/indexer", nil)
	req.Header.Set(EventHeader, "repo_removed")
	req.Header.Set(SignatureHeader, "sha256=deadbeef")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandlerRejectsWrongMethod(t *testing.T) {
	h := NewHandler([]byte("secret"), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/callbacks/indexer", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestWebhookNotifierSignsRequests(t *testing.T) {
	secret := []byte("notify-secret")

	var gotEvent, gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEvent = r.Header.Get(EventHeader)
		gotSig = r.Header.Get(SignatureHeader)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, secret)
	if err := n.GraphReady(context.Background(), "repo-1", "graph-1"); err != nil {
		t.Fatalf("GraphReady: %v", err)
	}

	if gotEvent != "graph_ready" {
		t.Errorf("event header = %q, want graph_ready", gotEvent)
	}
	if err := VerifySignature(gotBody, gotSig, secret); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestWebhookNotifierRejectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, []byte("s"))
	if err := n.GraphReady(context.Background(), "r", "g"); err == nil {
		t.Error("expected error for rejected notification")
	}
}
