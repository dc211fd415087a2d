package payments

import (
	"context"
	"errors"
	"klinipay-service/internal/app/models"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeSessionClient scripts CheckMergedPaymentStatus responses per call.
type fakeSessionClient struct {
	mu        sync.Mutex
	calls     int
	responses []checkResponse
}

type checkResponse struct {
	result *responses.MergedPaymentStatus
	err    error
}

func (f *fakeSessionClient) CreateMergedPaymentSession(ctx context.Context, request *requests.CreateMergedPaymentSession) (*responses.MergedPaymentSession, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSessionClient) CheckMergedPaymentStatus(ctx context.Context, sessionID string) (*responses.MergedPaymentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.result, r.err
}

func (f *fakeSessionClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type terminalCapture struct {
	mu     sync.Mutex
	count  int
	status models.SessionStatus
	result *responses.MergedPaymentStatus
	fired  chan struct{}
}

func newTerminalCapture() *terminalCapture {
	return &terminalCapture{fired: make(chan struct{})}
}

func (c *terminalCapture) fn() TerminalFunc {
	return func(status models.SessionStatus, result *responses.MergedPaymentStatus) {
		c.mu.Lock()
		c.count++
		c.status = status
		c.result = result
		if c.count == 1 {
			close(c.fired)
		}
		c.mu.Unlock()
	}
}

func (c *terminalCapture) wait(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-c.fired:
	case <-time.After(timeout):
		t.Fatal("terminal callback never fired")
	}
}

func TestStatusPollerTerminalPaid(t *testing.T) {
	client := &fakeSessionClient{responses: []checkResponse{
		{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
		{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
		{result: &responses.MergedPaymentStatus{Status: "PAID", PaidAt: "2026-09-01T10:00:00Z", TransactionID: "trx-1", Amount: 150}},
	}}
	capture := newTerminalCapture()

	poller := NewStatusPoller(client, zap.NewNop())
	poller.Start(context.Background(), "sess-1", 10*time.Millisecond, time.Minute, capture.fn())
	defer poller.Stop()

	capture.wait(t, 2*time.Second)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, models.SessionStatusPaid, capture.status)
	assert.NotNil(t, capture.result)
	assert.Equal(t, "trx-1", capture.result.TransactionID)
	assert.Equal(t, 150.0, capture.result.Amount)
	assert.GreaterOrEqual(t, client.callCount(), 3)
}

func TestStatusPollerRetriesTransportErrors(t *testing.T) {
	client := &fakeSessionClient{responses: []checkResponse{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
		{result: &responses.MergedPaymentStatus{Status: "EXPIRED"}},
	}}
	capture := newTerminalCapture()

	poller := NewStatusPoller(client, zap.NewNop())
	poller.Start(context.Background(), "sess-2", 10*time.Millisecond, time.Minute, capture.fn())
	defer poller.Stop()

	capture.wait(t, 2*time.Second)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, models.SessionStatusExpired, capture.status)
	assert.Equal(t, 1, capture.count)
}

func TestStatusPollerTimeout(t *testing.T) {
	client := &fakeSessionClient{responses: []checkResponse{
		{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
	}}
	capture := newTerminalCapture()

	poller := NewStatusPoller(client, zap.NewNop())
	poller.Start(context.Background(), "sess-3", 10*time.Millisecond, 50*time.Millisecond, capture.fn())
	defer poller.Stop()

	capture.wait(t, 2*time.Second)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, models.SessionStatusTimeout, capture.status)
	assert.Nil(t, capture.result)
	assert.Equal(t, 1, capture.count)
}

func TestStatusPollerStop(t *testing.T) {
	t.Run("stop prevents further terminals", func(t *testing.T) {
		client := &fakeSessionClient{responses: []checkResponse{
			{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
		}}
		capture := newTerminalCapture()

		poller := NewStatusPoller(client, zap.NewNop())
		poller.Start(context.Background(), "sess-4", 10*time.Millisecond, time.Minute, capture.fn())

		time.Sleep(30 * time.Millisecond)
		poller.Stop()

		capture.mu.Lock()
		assert.Equal(t, 0, capture.count)
		capture.mu.Unlock()
	})

	t.Run("stop is idempotent and safe before start", func(t *testing.T) {
		client := &fakeSessionClient{responses: []checkResponse{
			{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
		}}
		poller := NewStatusPoller(client, zap.NewNop())

		poller.Stop()
		poller.Start(context.Background(), "sess-5", 10*time.Millisecond, time.Minute, func(models.SessionStatus, *responses.MergedPaymentStatus) {})
		poller.Stop()
		poller.Stop()
	})

	t.Run("restart cancels the previous task", func(t *testing.T) {
		client := &fakeSessionClient{responses: []checkResponse{
			{result: &responses.MergedPaymentStatus{Status: "WAITING"}},
		}}
		first := newTerminalCapture()
		second := newTerminalCapture()

		poller := NewStatusPoller(client, zap.NewNop())
		poller.Start(context.Background(), "sess-old", 10*time.Millisecond, time.Minute, first.fn())
		poller.Start(context.Background(), "sess-new", 10*time.Millisecond, 50*time.Millisecond, second.fn())
		defer poller.Stop()

		second.wait(t, 2*time.Second)

		first.mu.Lock()
		assert.Equal(t, 0, first.count)
		first.mu.Unlock()

		second.mu.Lock()
		assert.Equal(t, models.SessionStatusTimeout, second.status)
		second.mu.Unlock()
	})
}
