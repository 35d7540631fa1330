package notifications

import (
	"context"
	"fmt"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

const defaultQueueSize = 256

// Dispatcher delivers notifications asynchronously so business operations
// never block or fail on notification writes.
type Dispatcher struct {
	repo  Repository
	logg  *logger.Logger
	queue chan models.Notification
}

// NewDispatcher builds a dispatcher with a buffered delivery queue.
func NewDispatcher(repo Repository, logg *logger.Logger, queueSize int) (*Dispatcher, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		repo:  repo,
		logg:  logg,
		queue: make(chan models.Notification, queueSize),
	}, nil
}

// Notify enqueues a notification without blocking the caller. When the
// queue is full the notification is dropped and logged.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string) {
	if userID <= 0 || message == "" {
		return
	}
	notification := models.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}
	select {
	case d.queue <- notification:
	default:
		fields := map[string]any{"user_id": userID, "type": string(typ)}
		d.logg.Warn(d.logg.WithFields(ctx, fields), "notification queue full, dropping")
	}
}

// Run drains the queue until the context is canceled. Delivery failures
// are logged and never propagated.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return ctx.Err()
		case notification := <-d.queue:
			d.persist(ctx, notification)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case notification := <-d.queue:
			d.persist(context.Background(), notification)
		default:
			return
		}
	}
}

func (d *Dispatcher) persist(ctx context.Context, notification models.Notification) {
	if err := d.repo.Create(ctx, &notification); err != nil {
		fields := map[string]any{"user_id": notification.UserID, "type": string(notification.Type)}
		d.logg.Error(d.logg.WithFields(ctx, fields), "persisting notification", err)
	}
}
