package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"user-roster/internal/adapter/db/memory"
	"user-roster/internal/adapter/kv"
	"user-roster/internal/domain/user"
	usecase "user-roster/internal/usecase/user"
)

func setupClient(t *testing.T) *grpc.ClientConn {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	uc := usecase.New(memory.NewUserRepo(log), log)
	for _, u := range []user.User{user.New("John", 30), user.WithEmail("Jane", 25, "jane@example.com")} {
		_, err := uc.CreateUser(ctx, usecase.CreateUserRequest{Name: u.Name, Age: u.Age, Email: u.Email})
		require.NoError(t, err)
	}
	store := kv.NewMapStore()
	require.NoError(t, kv.SetAll(ctx, store, kv.DefaultEntries()))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	NewRosterServer(uc, store).Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func method(name string) string {
	return "/" + ServiceName + "/" + name
}

func TestRosterServer_ListNames(t *testing.T) {
	conn := setupClient(t)

	out := new(structpb.ListValue)
	require.NoError(t, conn.Invoke(context.Background(), method("ListNames"), wrapperspb.String(""), out))
	assert.Equal(t, []any{"John", "Jane"}, out.AsSlice())

	out = new(structpb.ListValue)
	require.NoError(t, conn.Invoke(context.Background(), method("ListNames"), wrapperspb.String("zzz"), out))
	assert.Empty(t, out.AsSlice())
}

func TestRosterServer_GetUserByName(t *testing.T) {
	conn := setupClient(t)

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), method("GetUserByName"), wrapperspb.String("Jane"), out))
	assert.Equal(t, map[string]any{"name": "Jane", "age": float64(25), "email": "jane@example.com"}, out.AsMap())

	err := conn.Invoke(context.Background(), method("GetUserByName"), wrapperspb.String("Nobody"), new(structpb.Struct))
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = conn.Invoke(context.Background(), method("GetUserByName"), wrapperspb.String(""), new(structpb.Struct))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRosterServer_Lookup(t *testing.T) {
	conn := setupClient(t)

	out := new(wrapperspb.StringValue)
	require.NoError(t, conn.Invoke(context.Background(), method("Lookup"), wrapperspb.String("key1"), out))
	assert.Equal(t, "value1", out.GetValue())

	err := conn.Invoke(context.Background(), method("Lookup"), wrapperspb.String("key3"), new(wrapperspb.StringValue))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "Not found", st.Message())

	err = conn.Invoke(context.Background(), method("Lookup"), wrapperspb.String("bad key"), new(wrapperspb.StringValue))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
