// Package notify handles the signed callback channel between CodeLens and
// the indexing pipeline: incoming indexer events and outgoing graph-ready
// notifications to subscribers.
package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Header names for the signed callback protocol.
const (
	SignatureHeader = "X-CodeLens-Signature-256"
	EventHeader     = "X-CodeLens-Event"
)

// SignPayload computes the signature header value for a payload.
func SignPayload(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature validates the signature header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// IndexCompletedEvent is sent by the indexer when a repository finishes
// indexing and a fresh import graph is available.
type IndexCompletedEvent struct {
	RepoFullName  string          `json:"repo_full_name"`
	DefaultBranch string          `json:"default_branch"`
	CommitSHA     string          `json:"commit_sha"`
	Branch        string          `json:"branch"`
	Graph         json.RawMessage `json:"graph"`
}

// RepoRemovedEvent is sent by the indexer when a repository is deleted
// upstream and its builds should stop being served.
type RepoRemovedEvent struct {
	RepoFullName string `json:"repo_full_name"`
}

// GraphReadyEvent is the outgoing notification posted to subscribers when a
// build completes.
type GraphReadyEvent struct {
	Event   string `json:"event"`
	RepoID  string `json:"repo_id"`
	GraphID string `json:"graph_id"`
}

// ParseEvent parses a callback payload based on the event type.
func ParseEvent(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case "index_completed":
		var e IndexCompletedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse index_completed event: %w", err)
		}
		return &e, nil
	case "repo_removed":
		var e RepoRemovedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse repo_removed event: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
