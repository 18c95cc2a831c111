package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier is an HTTP client that delivers caixa events to an external
// notification endpoint (painel/push do front). The core never blocks on it:
// events go through the worker queue and this client is only called by the
// notification worker, behind the circuit breaker.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Habilitado reports whether a webhook endpoint is configured.
func (n *Notifier) Habilitado() bool { return n.webhookURL != "" }

// PublicarEvento sends a POST with the event payload and expects a 2xx.
func (n *Notifier) PublicarEvento(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notifier: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notifier: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifier: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notifier: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
