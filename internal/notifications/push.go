package notifications

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"bailemos/internal/config"
	"bailemos/internal/middleware"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const defaultPushTitle = "New enrollment"

// PushMessage is a device notification with an optional string data map.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushSender delivers device notifications. A disabled sender reports false
// and no error.
type PushSender interface {
	Enabled() bool
	Send(ctx context.Context, deviceToken string, msg PushMessage) (bool, error)
}

// messagingClient is the part of *messaging.Client the sender uses.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NewPushSender returns an FCM sender built from the Firebase service account,
// or a disabled one when no credentials are configured or the SDK fails to
// initialize.
func NewPushSender(ctx context.Context, cfg *config.Config) PushSender {
	if cfg == nil || !cfg.PushEnabled() {
		return disabledPush{}
	}
	cred, err := firebaseCredentials(cfg)
	if err != nil {
		middleware.Logger.Warn("push disabled: invalid firebase credentials", "error", err)
		return disabledPush{}
	}
	app, err := firebase.NewApp(ctx, nil, cred)
	if err != nil {
		middleware.Logger.Warn("push disabled: firebase init failed", "error", err)
		return disabledPush{}
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		middleware.Logger.Warn("push disabled: firebase messaging init failed", "error", err)
		return disabledPush{}
	}
	return newFCMSender(client)
}

// firebaseCredentials prefers FIREBASE_SERVICE_ACCOUNT_JSON, which holds the
// key either base64-encoded or as raw JSON, over FIREBASE_SERVICE_ACCOUNT_PATH.
func firebaseCredentials(cfg *config.Config) (option.ClientOption, error) {
	if raw := strings.TrimSpace(cfg.FirebaseServiceAccountJSON); raw != "" {
		if strings.HasPrefix(raw, "{") {
			return option.WithCredentialsJSON([]byte(raw)), nil
		}
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("decode FIREBASE_SERVICE_ACCOUNT_JSON: %w", err)
		}
		return option.WithCredentialsJSON(key), nil
	}
	path, err := filepath.Abs(strings.TrimSpace(cfg.FirebaseServiceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("resolve FIREBASE_SERVICE_ACCOUNT_PATH: %w", err)
	}
	return option.WithCredentialsFile(path), nil
}

type fcmSender struct {
	client messagingClient
}

func newFCMSender(client messagingClient) *fcmSender {
	return &fcmSender{client: client}
}

func (p *fcmSender) Enabled() bool { return true }

func (p *fcmSender) Send(ctx context.Context, deviceToken string, msg PushMessage) (bool, error) {
	deviceToken = strings.TrimSpace(deviceToken)
	if deviceToken == "" {
		return false, nil
	}
	title := msg.Title
	if title == "" {
		title = defaultPushTitle
	}

	id, err := p.client.Send(ctx, &messaging.Message{
		Token:        deviceToken,
		Notification: &messaging.Notification{Title: title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		if messaging.IsRegistrationTokenNotRegistered(err) {
			return false, fmt.Errorf("push token not registered: %w", err)
		}
		return false, fmt.Errorf("send push notification: %w", err)
	}
	middleware.Logger.DebugContext(ctx, "push notification sent", "message_id", id)
	return true, nil
}

type disabledPush struct{}

func (disabledPush) Enabled() bool { return false }
func (disabledPush) Send(context.Context, string, PushMessage) (bool, error) {
	return false, nil
}
