package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts signed graph-ready events to a subscriber URL.
// It implements the ingestion Notifier contract.
type WebhookNotifier struct {
	url    string
	secret []byte
	client *http.Client
}

// NewWebhookNotifier creates a notifier targeting the given URL.
func NewWebhookNotifier(url string, secret []byte) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GraphReady posts a signed graph_ready event.
func (n *WebhookNotifier) GraphReady(ctx context.Context, repoID, graphID string) error {
	payload, err := json.Marshal(GraphReadyEvent{
		Event:   "graph_ready",
		RepoID:  repoID,
		GraphID: graphID,
	})
	if err != nil {
		return fmt.Errorf("marshal graph_ready event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, "graph_ready")
	req.Header.Set(SignatureHeader, SignPayload(payload, n.secret))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}
