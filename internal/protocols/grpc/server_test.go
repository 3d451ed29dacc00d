package grpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"leetstats/pkg/models"
)

const successBody = `{"status":"success","ranking":1500,"totalSolved":120,"totalQuestions":3000,
	"easySolved":80,"totalEasy":800,"mediumSolved":30,"totalMedium":1600,"hardSolved":10,"totalHard":600}`

type stubFetcher struct {
	body string
	err  error
}

func (f *stubFetcher) FetchStats(ctx context.Context, username string) (*models.RawStatsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.RawStatsResponse{Shape: models.ShapeFlat, Body: []byte(f.body)}, nil
}

func startServer(t *testing.T, f *stubFetcher) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer("bufnet", f, time.Second)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGetStatsSuccess(t *testing.T) {
	conn := startServer(t, &stubFetcher{body: successBody})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := NewStatsClient(conn).GetStats(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", payload.Username)
	rank, ok := payload.Model.Ranking.Value()
	assert.True(t, ok)
	assert.Equal(t, 1500, rank)
	assert.Equal(t, 120, payload.Model.TotalSolved)
	assert.Equal(t, models.DifficultyStats{Solved: 10, Total: 600}, payload.Model.ByDifficulty.Hard)
	assert.Equal(t, 4, payload.Model.CompletionPercent)
	assert.Equal(t, "#1500", payload.Slots.Rank)
	assert.Equal(t, "10%", payload.Slots.Easy.Width)
}

func TestGetStatsErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		username string
		err      error
		code     codes.Code
		message  string
	}{
		{"not found", "ghost", models.NewNotFoundError(http.StatusNotFound, nil), codes.NotFound, models.MsgNotFound},
		{"network", "alice", models.NewNetworkError(errors.New("refused")), codes.Unavailable, models.MsgNetwork},
		{"empty username", "  ", nil, codes.InvalidArgument, models.MsgEmptyUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := startServer(t, &stubFetcher{body: successBody, err: tt.err})
			_, err := NewStatsClient(conn).GetStats(context.Background(), tt.username)
			require.Error(t, err)

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}

func TestHealthService(t *testing.T) {
	conn := startServer(t, &stubFetcher{body: successBody})
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

func TestWaitForShutdownStopsOnCancel(t *testing.T) {
	srv := NewServer("bufnet", &stubFetcher{}, time.Second)
	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.WaitForShutdown(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	srv.Stop() // idempotent
}
