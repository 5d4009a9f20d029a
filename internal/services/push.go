package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/logger"
	"github.com/selin/goaltrack-api/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// PushService sends push notifications via Firebase Cloud Messaging.
// With no service account configured every send is a no-op.
type PushService struct {
	client *messaging.Client
}

var Push = &PushService{}

func InitPush(serviceAccountPath string) {
	if serviceAccountPath == "" {
		logger.Log.Info("FCM: no service account configured, push notifications disabled")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		logger.Log.Warn("FCM: failed to initialize Firebase app", zap.Error(err))
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Log.Warn("FCM: failed to get messaging client", zap.Error(err))
		return
	}

	Push = &PushService{client: client}
	logger.Log.Info("FCM: push notifications enabled")
}

// SendToUser pushes to the user's registered device. No-op if push is
// not configured or the user never registered a token.
func (p *PushService) SendToUser(userID uuid.UUID, title, body string, data map[string]string) {
	if p.client == nil {
		return
	}

	var user models.User
	if err := database.DB.Select("fcm_token").First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(context.Background(), msg); err != nil {
		logger.Log.Warn("FCM: failed to send", zap.String("userId", userID.String()), zap.Error(err))
	}
}
