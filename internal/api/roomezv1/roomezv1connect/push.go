package roomezv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/pkg/jsoncodec"
)

const PushServiceName = "roomez.v1.PushService"

const (
	PushServiceGetVAPIDPublicKeyProcedure = "/roomez.v1.PushService/GetVAPIDPublicKey"
	PushServiceSubscribePushProcedure     = "/roomez.v1.PushService/SubscribePush"
	PushServiceUnsubscribePushProcedure   = "/roomez.v1.PushService/UnsubscribePush"
)

type PushServiceHandler interface {
	GetVAPIDPublicKey(context.Context, *connect.Request[roomezv1.GetVAPIDPublicKeyRequest]) (*connect.Response[roomezv1.GetVAPIDPublicKeyResponse], error)
	SubscribePush(context.Context, *connect.Request[roomezv1.SubscribePushRequest]) (*connect.Response[roomezv1.SubscribePushResponse], error)
	UnsubscribePush(context.Context, *connect.Request[roomezv1.UnsubscribePushRequest]) (*connect.Response[roomezv1.UnsubscribePushResponse], error)
}

func NewPushServiceHandler(svc PushServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{jsoncodec.WithJSON()}, opts...)
	return "/" + PushServiceName + "/", route(map[string]http.Handler{
		PushServiceGetVAPIDPublicKeyProcedure: connect.NewUnaryHandler(PushServiceGetVAPIDPublicKeyProcedure, svc.GetVAPIDPublicKey, opts...),
		PushServiceSubscribePushProcedure:     connect.NewUnaryHandler(PushServiceSubscribePushProcedure, svc.SubscribePush, opts...),
		PushServiceUnsubscribePushProcedure:   connect.NewUnaryHandler(PushServiceUnsubscribePushProcedure, svc.UnsubscribePush, opts...),
	})
}

type PushServiceClient interface {
	GetVAPIDPublicKey(context.Context, *connect.Request[roomezv1.GetVAPIDPublicKeyRequest]) (*connect.Response[roomezv1.GetVAPIDPublicKeyResponse], error)
	SubscribePush(context.Context, *connect.Request[roomezv1.SubscribePushRequest]) (*connect.Response[roomezv1.SubscribePushResponse], error)
	UnsubscribePush(context.Context, *connect.Request[roomezv1.UnsubscribePushRequest]) (*connect.Response[roomezv1.UnsubscribePushResponse], error)
}

type pushServiceClient struct {
	getVAPIDPublicKey *connect.Client[roomezv1.GetVAPIDPublicKeyRequest, roomezv1.GetVAPIDPublicKeyResponse]
	subscribePush     *connect.Client[roomezv1.SubscribePushRequest, roomezv1.SubscribePushResponse]
	unsubscribePush   *connect.Client[roomezv1.UnsubscribePushRequest, roomezv1.UnsubscribePushResponse]
}

func NewPushServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PushServiceClient {
	opts = append([]connect.ClientOption{jsoncodec.WithJSON()}, opts...)
	return &pushServiceClient{
		getVAPIDPublicKey: connect.NewClient[roomezv1.GetVAPIDPublicKeyRequest, roomezv1.GetVAPIDPublicKeyResponse](httpClient, baseURL+PushServiceGetVAPIDPublicKeyProcedure, opts...),
		subscribePush:     connect.NewClient[roomezv1.SubscribePushRequest, roomezv1.SubscribePushResponse](httpClient, baseURL+PushServiceSubscribePushProcedure, opts...),
		unsubscribePush:   connect.NewClient[roomezv1.UnsubscribePushRequest, roomezv1.UnsubscribePushResponse](httpClient, baseURL+PushServiceUnsubscribePushProcedure, opts...),
	}
}

func (c *pushServiceClient) GetVAPIDPublicKey(ctx context.Context, req *connect.Request[roomezv1.GetVAPIDPublicKeyRequest]) (*connect.Response[roomezv1.GetVAPIDPublicKeyResponse], error) {
	return c.getVAPIDPublicKey.CallUnary(ctx, req)
}

func (c *pushServiceClient) SubscribePush(ctx context.Context, req *connect.Request[roomezv1.SubscribePushRequest]) (*connect.Response[roomezv1.SubscribePushResponse], error) {
	return c.subscribePush.CallUnary(ctx, req)
}

func (c *pushServiceClient) UnsubscribePush(ctx context.Context, req *connect.Request[roomezv1.UnsubscribePushRequest]) (*connect.Response[roomezv1.UnsubscribePushResponse], error) {
	return c.unsubscribePush.CallUnary(ctx, req)
}
