package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kazz187/roomez/internal/api/roomezv1/roomezv1connect"
	"github.com/kazz187/roomez/internal/config"
	"github.com/kazz187/roomez/internal/pushnotification"
	"github.com/kazz187/roomez/internal/room"
	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/clog"
)

type Server struct {
	server      *http.Server
	env         *config.BaseEnv
	taskService *task.Service
	taskServer  *task.Server
	pushServer  *pushnotification.Server
}

func NewServer(
	env *config.BaseEnv,
	taskService *task.Service,
	taskServer *task.Server,
	pushServer *pushnotification.Server,
) *Server {
	return &Server{
		env:         env,
		taskService: taskService,
		taskServer:  taskServer,
		pushServer:  pushServer,
	}
}

// Handler builds the full HTTP handler: connect services, health checks and the
// JSON /api router, behind CORS and the API key check.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.NewConvertConnectErrorChiMiddleware(),
		)
		r.Get("/rooms/new-code", s.newRoomCode)
		r.Get("/rooms/{code}/tasks", s.listRoomTasks)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
	})

	mux := http.NewServeMux()

	mux.Handle("/health", &HealthChecker{})
	mux.Handle("/api/", r)
	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker(
		roomezv1connect.TaskServiceName,
		roomezv1connect.PushServiceName,
	)))

	handlerOpts := connect.WithInterceptors(s.interceptors()...)

	mux.Handle(roomezv1connect.NewTaskServiceHandler(s.taskServer, handlerOpts))
	mux.Handle(roomezv1connect.NewPushServiceHandler(s.pushServer, handlerOpts))

	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(s.apiKeyMiddleware(mux))
}

// ListenAndServe starts the HTTP server. Request contexts derive from ctx, so
// cancelling it also ends open WatchTasks streams.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     h2c.NewHandler(s.Handler(), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type newRoomCodeResponse struct {
	Code string `json:"code"`
}

func (s *Server) newRoomCode(w http.ResponseWriter, r *http.Request) {
	code, err := room.GenerateCode(0)
	if err != nil {
		cerr.SetNewJSONError(r.Context(), cerr.Internal, "server error", err)
		return
	}
	cerr.SetJSONResponse(r.Context(), &newRoomCodeResponse{Code: code})
}

type roomTasksResponse struct {
	Tasks []*task.Record `json:"tasks"`
}

func (s *Server) listRoomTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.List(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	if tasks == nil {
		tasks = []*task.Record{}
	}
	cerr.SetJSONResponse(r.Context(), &roomTasksResponse{Tasks: tasks})
}

func (s *Server) interceptors() []connect.Interceptor {
	return []connect.Interceptor{
		clog.NewSlogConnectInterceptor(),
		cerr.NewConvertConnectErrorInterceptor(),
	}
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/grpc.health.v1.Health/Check" {
			next.ServeHTTP(w, r)
			return
		}
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if apiKey != s.env.APIKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
