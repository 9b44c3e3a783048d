package client

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/api/roomezv1/roomezv1connect"
)

// PushClient provides client operations for push subscriptions
type PushClient struct {
	client roomezv1connect.PushServiceClient
}

func NewPushClient(httpClient connect.HTTPClient, baseURL, apiKey string) *PushClient {
	return &PushClient{
		client: roomezv1connect.NewPushServiceClient(
			httpClient,
			baseURL,
			connect.WithInterceptors(newAuthInterceptor(apiKey)),
		),
	}
}

// VAPIDPublicKey returns the key browsers need to subscribe
func (c *PushClient) VAPIDPublicKey(ctx context.Context) (string, error) {
	resp, err := c.client.GetVAPIDPublicKey(ctx, connect.NewRequest(&roomezv1.GetVAPIDPublicKeyRequest{}))
	if err != nil {
		return "", fmt.Errorf("failed to get VAPID public key: %w", err)
	}
	return resp.Msg.PublicKey, nil
}
