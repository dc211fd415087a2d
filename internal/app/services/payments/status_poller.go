package payments

import (
	"context"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/app/models"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/responses"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultPollTimeout  = 10 * time.Minute
)

// TerminalFunc receives the terminal status exactly once per started poll.
// result is nil when the terminal is the client-side TIMEOUT.
type TerminalFunc func(status models.SessionStatus, result *responses.MergedPaymentStatus)

// StatusPoller runs at most one polling task against the payment backend's
// session status endpoint. It is the single shared "active poll" handle of a
// collection workflow; only the workflow's usecase starts or stops it.
// Replacing a session restarts the poller, which first cancels the previous
// task and waits for it to exit.
type StatusPoller struct {
	sessionClient contracts.PaymentSessionClient
	log           *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewStatusPoller(sessionClient contracts.PaymentSessionClient, logger *zap.Logger) *StatusPoller {
	return &StatusPoller{
		sessionClient: sessionClient,
		log:           logger,
	}
}

// Start begins polling sessionID every interval until a terminal status
// arrives, timeout elapses, or Stop is called. A previous task, if any, is
// stopped first. Transport errors on individual polls are logged and the
// poll retried; they never end the session.
func (p *StatusPoller) Start(ctx context.Context, sessionID string, interval, timeout time.Duration, onTerminal TerminalFunc) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	p.Stop()

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.run(pollCtx, sessionID, interval, timeout, onTerminal, done)
}

func (p *StatusPoller) run(ctx context.Context, sessionID string, interval, timeout time.Duration, onTerminal TerminalFunc, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug("StatusPoller stopped",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
			)
			return
		case <-deadline.C:
			// Client-side safety net, independent of server-declared expiry.
			p.log.Warn("StatusPoller timed out waiting for terminal status",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Duration("timeout", timeout),
			)
			onTerminal(models.SessionStatusTimeout, nil)
			return
		case <-ticker.C:
			result, err := p.sessionClient.CheckMergedPaymentStatus(ctx, sessionID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// A single flaky poll is not a session failure.
				p.log.Warn("StatusPoller poll failed, will retry",
					zap.String(constvars.LoggingSessionIDKey, sessionID),
					zap.Error(err),
				)
				continue
			}

			status := models.SessionStatus(result.Status)
			if !status.IsTerminal() {
				continue
			}

			p.log.Info("StatusPoller observed terminal status",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.String(constvars.LoggingPaymentStatusKey, result.Status),
			)
			onTerminal(status, result)
			return
		}
	}
}

// Stop cancels the running task, if any, and waits for it to exit. Safe to
// call repeatedly and before Start.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
