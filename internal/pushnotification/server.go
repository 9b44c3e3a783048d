package pushnotification

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/oklog/ulid/v2"

	roomezv1 "github.com/kazz187/roomez/internal/api/roomezv1"
	"github.com/kazz187/roomez/internal/api/roomezv1/roomezv1connect"
	"github.com/kazz187/roomez/internal/config"
	"github.com/kazz187/roomez/internal/pushsubscription"
	"github.com/kazz187/roomez/internal/room"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/clog"
)

var _ roomezv1connect.PushServiceHandler = (*Server)(nil)

type Server struct {
	vapidEnv *config.VAPIDEnv
	repo     pushsubscription.Repository
}

func NewServer(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository) *Server {
	return &Server{
		vapidEnv: vapidEnv,
		repo:     repo,
	}
}

func (s *Server) GetVAPIDPublicKey(_ context.Context, _ *connect.Request[roomezv1.GetVAPIDPublicKeyRequest]) (*connect.Response[roomezv1.GetVAPIDPublicKeyResponse], error) {
	if s.vapidEnv.VAPIDPublicKey == "" {
		return nil, cerr.NewError(cerr.FailedPrecondition, "VAPID keys not configured", nil)
	}
	return connect.NewResponse(&roomezv1.GetVAPIDPublicKeyResponse{
		PublicKey: s.vapidEnv.VAPIDPublicKey,
	}), nil
}

func (s *Server) SubscribePush(ctx context.Context, req *connect.Request[roomezv1.SubscribePushRequest]) (*connect.Response[roomezv1.SubscribePushResponse], error) {
	code, err := room.ParseCode(req.Msg.RoomCode)
	if err != nil {
		return nil, err
	}
	if req.Msg.Endpoint == "" {
		return nil, cerr.NewInvalidArgument("endpoint is required", "endpoint.required")
	}
	if req.Msg.P256dhKey == "" {
		return nil, cerr.NewInvalidArgument("p256dh_key is required", "p256dh_key.required")
	}
	if req.Msg.AuthKey == "" {
		return nil, cerr.NewInvalidArgument("auth_key is required", "auth_key.required")
	}
	clog.AddAttribute(ctx, "room", code)

	// Re-subscribing the same endpoint replaces its keys and room.
	existing, err := s.repo.FindByEndpoint(ctx, req.Msg.Endpoint)
	if err == nil && existing != nil {
		existing.RoomCode = code
		existing.P256dhKey = req.Msg.P256dhKey
		existing.AuthKey = req.Msg.AuthKey
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, existing); err != nil {
			return nil, err
		}
		return connect.NewResponse(&roomezv1.SubscribePushResponse{SubscriptionID: existing.ID}), nil
	}
	if err != nil && !cerr.IsCode(err, cerr.NotFound) {
		return nil, err
	}

	sub := &pushsubscription.Subscription{
		ID:        ulid.Make().String(),
		RoomCode:  code,
		Endpoint:  req.Msg.Endpoint,
		P256dhKey: req.Msg.P256dhKey,
		AuthKey:   req.Msg.AuthKey,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return connect.NewResponse(&roomezv1.SubscribePushResponse{SubscriptionID: sub.ID}), nil
}

func (s *Server) UnsubscribePush(ctx context.Context, req *connect.Request[roomezv1.UnsubscribePushRequest]) (*connect.Response[roomezv1.UnsubscribePushResponse], error) {
	if req.Msg.Endpoint == "" {
		return nil, cerr.NewInvalidArgument("endpoint is required", "endpoint.required")
	}
	if err := s.repo.DeleteByEndpoint(ctx, req.Msg.Endpoint); err != nil {
		return nil, err
	}
	return connect.NewResponse(&roomezv1.UnsubscribePushResponse{}), nil
}
