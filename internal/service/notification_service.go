package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/notify"
	"github.com/vyservice/ops-api/pkg/jobs"
)

const notificationJobType = "repair-registered"

type notificationPayload struct {
	Phone   string
	Message string
}

// NotificationService fans repair-registration messages out to the
// configured providers. Delivery is strictly best-effort: enqueue
// failures are logged and forgotten, never surfaced to the intake flow.
type NotificationService struct {
	queue   *jobs.Queue
	senders []notify.Sender
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService wires the senders behind an in-process queue.
// senders may be empty; the service then drops every message with a log
// line, which keeps local development quiet.
func NewNotificationService(senders []notify.Sender, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		senders: senders,
		metrics: metrics,
		logger:  logger,
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.process, cfg)
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyRegistration queues one message per phone number on the ticket.
// The phone field may hold several comma-separated numbers.
func (s *NotificationService) NotifyRegistration(repair *models.Repair) {
	message := registrationMessage(repair)
	for _, raw := range strings.Split(repair.PhoneNumber, ",") {
		phone, ok := notify.NormalizePhone(raw)
		if !ok {
			s.logger.Warn("skipping unparsable phone number",
				zap.String("repair_id", repair.ID),
				zap.String("phone", strings.TrimSpace(raw)))
			continue
		}
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    notificationJobType,
			Payload: notificationPayload{Phone: phone, Message: message},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue notification",
				zap.String("repair_id", repair.ID), zap.Error(err))
		}
	}
}

// process tries the providers in order until one delivers.
func (s *NotificationService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	if len(s.senders) == 0 {
		s.logger.Info("no notification providers configured, dropping message",
			zap.String("phone", payload.Phone))
		return nil
	}

	var lastErr error
	for _, sender := range s.senders {
		err := sender.Send(ctx, payload.Phone, payload.Message)
		s.metrics.RecordNotification(sender.Name(), err == nil)
		if err == nil {
			s.logger.Info("notification sent",
				zap.String("provider", sender.Name()),
				zap.String("phone", payload.Phone))
			return nil
		}
		s.logger.Warn("notification provider failed",
			zap.String("provider", sender.Name()),
			zap.String("phone", payload.Phone),
			zap.Error(err))
		lastErr = err
	}
	return lastErr
}

func registrationMessage(repair *models.Repair) string {
	return fmt.Sprintf(
		"Hello %s, your %s %s has been registered for repair (ID: %s). We will notify you once it is ready for pickup.",
		repair.CustomerName, repair.Brand, repair.Type, repair.UniqueID)
}
