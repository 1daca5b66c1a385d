package mailer

import (
	"context"
	"sync"
)

// Mock records outgoing mail instead of delivering it. cmd/api falls
// back to it when SMTP is not configured; tests assert on Sent.
type Mock struct {
	mu   sync.Mutex
	Sent []Email
	Err  error
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}
