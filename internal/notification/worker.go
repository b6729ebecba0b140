package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/model"
)

// Notice is one message addressed to a set of users.
type Notice struct {
	UserIDs []string `json:"-"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	URL     string   `json:"url,omitempty"`
}

// Notifier accepts notices without blocking the caller.
type Notifier interface {
	Dispatch(n Notice) bool
}

// Discard is the Notifier used when push is not configured.
type Discard struct{}

func (Discard) Dispatch(Notice) bool { return true }

// SubscriptionSource resolves and prunes push subscriptions.
type SubscriptionSource interface {
	SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Notice
	subs    SubscriptionSource
	webpush *webpush.Options
	sender  NotificationSender
	log     *zerolog.Logger
}

// NewWorkerPool creates a new worker pool with a queue of queueSize notices.
func NewWorkerPool(size, queueSize int, subs SubscriptionSource, webpushOptions *webpush.Options, log *zerolog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize < size {
		queueSize = size
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Notice, queueSize),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug().Int("worker", id).Msg("notification worker started")
	for {
		select {
		case n := <-wp.jobs:
			wp.deliver(ctx, n)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues a notice. It never blocks: when the queue is full the
// notice is dropped and false is returned.
func (wp *WorkerPool) Dispatch(n Notice) bool {
	if len(n.UserIDs) == 0 {
		return true
	}
	select {
	case wp.jobs <- n:
		return true
	default:
		wp.log.Warn().Str("title", n.Title).Msg("notification queue full, dropping notice")
		metrics.Notification("dropped")
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}

func (wp *WorkerPool) deliver(ctx context.Context, n Notice) {
	subscriptions, err := wp.subs.SubscriptionsForUsers(ctx, n.UserIDs)
	if err != nil {
		wp.log.Error().Err(err).Strs("users", n.UserIDs).Msg("error fetching subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		wp.log.Error().Err(err).Msg("error encoding notice")
		return
	}

	wp.log.Debug().Int("count", len(subscriptions)).Str("title", n.Title).Msg("sending notifications")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("error sending notification")
		metrics.Notification("failed")
		return
	}
	defer resp.Body.Close()

	// The push service forgets endpoints it answers 404 or 410 for.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		wp.log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		metrics.Notification("expired")
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
		return
	}
	metrics.Notification("sent")
}
