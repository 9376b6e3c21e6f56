package service

import (
	"context"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/config"
	"github.com/sofaspartan/sofaspartan-backend/pkg/emailjs"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// NotificationService emails the artist when someone comments. It is
// strictly fire-and-forget: a broken relay never fails a post.
type NotificationService interface {
	NotifyNewComment(authorName, content string, isReply bool, postedAt time.Time)
}

type notificationService struct {
	client  *emailjs.Client
	toEmail string
}

// NewNotificationService builds the service; with an incomplete relay
// config it degrades to logging only.
func NewNotificationService(cfg *config.NotifyConfig) NotificationService {
	client, err := emailjs.NewClient(emailjs.Config{
		ServiceID:  cfg.ServiceID,
		TemplateID: cfg.TemplateID,
		PublicKey:  cfg.PublicKey,
		BaseURL:    cfg.BaseURL,
	})
	if err != nil {
		logger.Warn("Comment notifications disabled: relay not configured", map[string]interface{}{
			"error": err.Error(),
		})
		return &notificationService{client: nil, toEmail: cfg.ToEmail}
	}
	return &notificationService{client: client, toEmail: cfg.ToEmail}
}

func (s *notificationService) NotifyNewComment(authorName, content string, isReply bool, postedAt time.Time) {
	if s.client == nil {
		logger.Debug("Skipping comment notification: relay not configured", map[string]interface{}{
			"author": authorName,
		})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := s.client.SendCommentNotification(ctx, emailjs.CommentNotification{
			AuthorName: authorName,
			Content:    content,
			PostedAt:   postedAt.Format(time.RFC1123),
			IsReply:    isReply,
			ToEmail:    s.toEmail,
		})
		if err != nil {
			logger.Error("Failed to send comment notification", err, map[string]interface{}{
				"author": authorName,
			})
			return
		}

		logger.Info("Comment notification sent", map[string]interface{}{
			"author":   authorName,
			"is_reply": isReply,
		})
	}()
}
