// Package notify delivers push notifications through APNs.
package notify

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNSPusher sends push notifications via token-based APNs auth.
type APNSPusher struct {
	client *apns2.Client
	topic  string
}

// NewAPNSPusher creates a pusher from a .p8 signing key.
func NewAPNSPusher(keyFile, keyID, teamID, topic string) (*APNSPusher, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}).Production()

	return &APNSPusher{client: client, topic: topic}, nil
}

// Push sends an alert notification to a device.
func (p *APNSPusher) Push(ctx context.Context, deviceToken, title, body string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       p.topic,
		Payload: payload.NewPayload().
			AlertTitle(title).
			AlertBody(body).
			Sound("default"),
	}

	res, err := p.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
