package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/pkg/dataflow"
)

// NoopNotifier is used when no mail server is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyCreated(ctx context.Context, e domain.Employee) error {
	logger.InfoLog(ctx, "Email notifications are disabled; no confirmation sent to %s", e.Email)
	return nil
}

// Dispatcher retries a notifier a bounded number of times before giving up.
type Dispatcher struct {
	next       domain.NotificationGateway
	maxRetries int
	backoff    time.Duration
}

func NewDispatcher(next domain.NotificationGateway, maxRetries int, backoff time.Duration) *Dispatcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Dispatcher{next: next, maxRetries: maxRetries, backoff: backoff}
}

// NotifyCreated implements domain.NotificationGateway.
func (d *Dispatcher) NotifyCreated(ctx context.Context, e domain.Employee) error {
	attempt := 0
	err := dataflow.ForEach(ctx, dataflow.From(ctx, e), func(emp domain.Employee) error {
		attempt++
		err := d.next.NotifyCreated(ctx, emp)
		if err != nil && attempt <= d.maxRetries {
			logger.WarnLog(ctx, "Notification attempt %d for %s failed, retrying: %v", attempt, emp.ID, err)
		}
		return err
	}, dataflow.WithRetry(d.maxRetries, dataflow.LinearBackoff(d.backoff)))
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrDeliveryFailure) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrDeliveryFailure, err)
}
