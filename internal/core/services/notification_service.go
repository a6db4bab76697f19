package services

import (
	"context"
	"time"

	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// NotificationService turns domain outcomes into events for the configured publisher
type NotificationService struct {
	publisher Publisher
	log       *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(publisher Publisher, log *zap.Logger) *NotificationService {
	return &NotificationService{publisher: publisher, log: log}
}

// CertificateIssued tells the recipient their certificate is ready
func (s *NotificationService) CertificateIssued(ctx context.Context, userID uint, email, courseTitle, certificateID, certificateURL string) {
	s.send(ctx, domain.NewEvent(domain.EventCertificateIssued, userID, email, map[string]interface{}{
		"course_title":    courseTitle,
		"certificate_id":  certificateID,
		"certificate_url": certificateURL,
	}))
}

// ReferralCreated tells a referrer that someone signed up with their code
func (s *NotificationService) ReferralCreated(ctx context.Context, referrerID uint, email, referredName string) {
	s.send(ctx, domain.NewEvent(domain.EventReferralCreated, referrerID, email, map[string]interface{}{
		"referred_name": referredName,
	}))
}

// ReferralApproved tells a referrer they were credited
func (s *NotificationService) ReferralApproved(ctx context.Context, referrerID uint, email string, points int) {
	s.send(ctx, domain.NewEvent(domain.EventReferralApproved, referrerID, email, map[string]interface{}{
		"points_awarded": points,
	}))
}

// send never fails the caller; the write that triggered the event has already committed
func (s *NotificationService) send(ctx context.Context, event domain.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("notification not delivered",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Uint("user_id", event.UserID),
			zap.Error(err),
		)
		return
	}

	s.log.Debug("notification published",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
	)
}
