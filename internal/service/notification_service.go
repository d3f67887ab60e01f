package service

import (
	"context"
	"encoding/json"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NotificationService turns domain events into stored notifications and,
// when Redis is available, mirrors them onto a pub/sub channel for any live
// consumer. Emission is fire-and-forget: a failed notification never fails
// the operation that produced the event.
type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Redis            *redis.Client
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, redisClient *redis.Client) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		Redis:            redisClient,
	}
}

func (s *NotificationService) EmitAttemptCompleted(evt AttemptCompletedEvent) {
	n := &model.Notification{
		UserID:      evt.UserID,
		Type:        model.NotifyAttemptResult,
		TitleEN:     "Test completed",
		TitleNP:     "परीक्षा सम्पन्न भयो",
		MessageEN:   fmt.Sprintf("You scored %.1f out of %.1f (%.1f%%).", evt.Score, evt.TotalScore, evt.Percentage),
		MessageNP:   fmt.Sprintf("तपाईंले %.1f मध्ये %.1f अंक (%.1f%%) प्राप्त गर्नुभयो।", evt.TotalScore, evt.Score, evt.Percentage),
		ReferenceID: &evt.AttemptID,
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		logger.Log.Warn("notification: attempt result write failed",
			zap.Uint("userId", evt.UserID), zap.Error(err))
	}
	s.publish("events:attempt_completed", evt)
}

func (s *NotificationService) EmitLeaderboardUpdated(evt LeaderboardUpdatedEvent) {
	notifications := make([]model.Notification, 0, len(evt.Changes))
	for _, change := range evt.Changes {
		var messageEN, messageNP string
		switch {
		case change.PreviousRank == 0:
			messageEN = fmt.Sprintf("You entered the %s leaderboard at rank %d.", evt.TimePeriod, change.NewRank)
			messageNP = fmt.Sprintf("तपाईं %s लिडरबोर्डमा %d औं स्थानमा प्रवेश गर्नुभयो।", evt.TimePeriod, change.NewRank)
		case change.NewRank < change.PreviousRank:
			messageEN = fmt.Sprintf("You moved up from rank %d to %d on the %s leaderboard.", change.PreviousRank, change.NewRank, evt.TimePeriod)
			messageNP = fmt.Sprintf("तपाईं %s लिडरबोर्डमा %d बाट %d औं स्थानमा उक्लनुभयो।", evt.TimePeriod, change.PreviousRank, change.NewRank)
		default:
			messageEN = fmt.Sprintf("Your %s leaderboard rank changed from %d to %d.", evt.TimePeriod, change.PreviousRank, change.NewRank)
			messageNP = fmt.Sprintf("तपाईंको %s लिडरबोर्ड स्थान %d बाट %d भयो।", evt.TimePeriod, change.PreviousRank, change.NewRank)
		}
		notifications = append(notifications, model.Notification{
			UserID:    change.UserID,
			Type:      model.NotifyRankChange,
			TitleEN:   "Leaderboard update",
			TitleNP:   "लिडरबोर्ड अपडेट",
			MessageEN: messageEN,
			MessageNP: messageNP,
		})
	}
	if err := s.NotificationRepo.CreateBatch(notifications); err != nil {
		logger.Log.Warn("notification: rank change batch write failed", zap.Error(err))
	}
	s.publish("events:leaderboard_updated", evt)
}

func (s *NotificationService) EmitContributionDecision(userID, questionID uint, approved bool) {
	titleEN, titleNP := "Contribution approved", "योगदान स्वीकृत भयो"
	messageEN := "Your contributed question has been approved and will be published."
	messageNP := "तपाईंले योगदान गर्नुभएको प्रश्न स्वीकृत भयो र प्रकाशित हुनेछ।"
	if !approved {
		titleEN, titleNP = "Contribution rejected", "योगदान अस्वीकृत भयो"
		messageEN = "Your contributed question was not accepted."
		messageNP = "तपाईंले योगदान गर्नुभएको प्रश्न स्वीकार गरिएन।"
	}
	n := &model.Notification{
		UserID:      userID,
		Type:        model.NotifyContribution,
		TitleEN:     titleEN,
		TitleNP:     titleNP,
		MessageEN:   messageEN,
		MessageNP:   messageNP,
		ReferenceID: &questionID,
	}
	if err := s.NotificationRepo.Create(n); err != nil {
		logger.Log.Warn("notification: contribution decision write failed",
			zap.Uint("userId", userID), zap.Error(err))
	}
}

func (s *NotificationService) publish(channel string, payload any) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Redis.Publish(ctx, channel, data).Err(); err != nil {
		logger.Log.Warn("notification: publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (s *NotificationService) List(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.NotificationRepo.ListByUser(userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.NotificationRepo.MarkRead(userID, notificationID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotificationRepo.MarkAllRead(userID)
}
