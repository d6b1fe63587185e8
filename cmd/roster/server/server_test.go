package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"user-roster/cmd/roster/di"
	grpcadapter "user-roster/internal/adapter/grpc"
	"user-roster/internal/config"
	"user-roster/internal/usecase/user"
)

func localAddr(t *testing.T, addr string) string {
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return net.JoinHostPort("127.0.0.1", port)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = "0"
	cfg.App.GRPCPort = "0"
	cfg.App.ShutdownTimeoutSeconds = 2

	log := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := di.NewContainer(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.UserUC.CreateUser(ctx, user.CreateUserRequest{Name: "John", Age: 30})
	require.NoError(t, err)

	srv := New(cfg, log, c)
	require.NoError(t, srv.Listen(ctx))

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	// REST
	resp, err := http.Get(fmt.Sprintf("http://%s/v1/users/names", localAddr(t, srv.HTTPAddr())))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"names":["John"]}`, string(body))

	// gRPC
	conn, err := grpc.NewClient(localAddr(t, srv.GRPCAddr()), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpcadapter.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())

	names := new(structpb.ListValue)
	require.NoError(t, conn.Invoke(ctx, "/"+grpcadapter.ServiceName+"/ListNames", wrapperspb.String(""), names))
	assert.Equal(t, []any{"John"}, names.AsSlice())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ServeCanceledContext(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = "0"
	cfg.App.GRPCPort = "0"
	cfg.App.ShutdownTimeoutSeconds = 2

	log := zaptest.NewLogger(t)
	c, err := di.NewContainer(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	// shutdown may stop the gRPC server before Serve starts
	for i := 0; i < 20; i++ {
		srv := New(cfg, log, c)
		require.NoError(t, srv.Listen(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, srv.Serve(ctx), "attempt %d", i+1)
	}
}

func TestServer_ServeWithoutListen(t *testing.T) {
	s := &Server{}
	assert.EqualError(t, s.Serve(context.Background()), "server is not listening")
}
