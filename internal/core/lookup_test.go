package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetstats/internal/api"
	"leetstats/internal/render"
	"leetstats/pkg/models"
)

type fakeFetcher struct {
	calls   atomic.Int32
	raw     *models.RawStatsResponse
	err     error
	started chan struct{}
	block   chan struct{}
	panics  bool
}

func (f *fakeFetcher) FetchStats(ctx context.Context, username string) (*models.RawStatsResponse, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.panics {
		panic("boom")
	}
	return f.raw, f.err
}

const successBody = `{"status":"success","ranking":1500,"totalSolved":120,"totalQuestions":3000,
	"easySolved":80,"totalEasy":800,"mediumSolved":30,"totalMedium":1600,"hardSolved":10,"totalHard":600}`

func successFetcher() *fakeFetcher {
	return &fakeFetcher{raw: &models.RawStatsResponse{Shape: models.ShapeFlat, Body: []byte(successBody)}}
}

func TestLookupSuccess(t *testing.T) {
	f := successFetcher()
	res, ok := NewLookup(f).Run(context.Background(), "  alice  ")

	require.True(t, ok)
	require.True(t, res.OK())
	assert.Equal(t, "alice", res.Username)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, 4, res.Model.CompletionPercent)
	assert.Empty(t, res.Message)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestLookupEmptyInputNeverFetches(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		f := successFetcher()
		res, ok := NewLookup(f).Run(context.Background(), input)

		require.True(t, ok)
		assert.ErrorIs(t, res.Err, models.ErrEmptyUsername)
		assert.Equal(t, models.MsgEmptyUsername, res.Message)
		assert.Equal(t, models.ResetModel(), res.Model)
		assert.Equal(t, int32(0), f.calls.Load())
	}
}

func TestLookupInvalidInputNeverFetches(t *testing.T) {
	f := successFetcher()
	l := NewLookup(f)

	for _, input := range []string{"a b", "bob!", "../etc", strings.Repeat("a", 51)} {
		res, ok := l.Run(context.Background(), input)
		require.True(t, ok)
		assert.Error(t, res.Err)
	}
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestLookupFailureMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{models.NewNotFoundError(200, nil), models.MsgNotFound},
		{models.NewNetworkError(errors.New("dial")), models.MsgNetwork},
		{models.NewHTTPError(500), models.MsgHTTP},
		{models.NewParseError(errors.New("eof")), models.MsgGeneric},
	}
	for _, tt := range tests {
		res, ok := NewLookup(&fakeFetcher{err: tt.err}).Run(context.Background(), "alice")
		require.True(t, ok)
		assert.Equal(t, tt.want, res.Message)
		assert.Equal(t, models.ResetModel(), res.Model)
	}
}

func TestLookupDropsOverlappingRuns(t *testing.T) {
	f := successFetcher()
	f.started = make(chan struct{}, 2)
	f.block = make(chan struct{})
	l := NewLookup(f)

	var wg sync.WaitGroup
	wg.Add(1)
	var first Result
	go func() {
		defer wg.Done()
		first, _ = l.Run(context.Background(), "alice")
	}()
	<-f.started
	assert.True(t, l.InFlight())

	res, ok := l.Run(context.Background(), "bob")
	assert.False(t, ok)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, int32(1), f.calls.Load())

	close(f.block)
	wg.Wait()
	assert.True(t, first.OK())
	assert.False(t, l.InFlight())

	f.block = nil
	_, ok = l.Run(context.Background(), "bob")
	assert.True(t, ok)
	<-f.started
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestLookupReleasesAfterFailureAndPanic(t *testing.T) {
	f := &fakeFetcher{err: models.NewHTTPError(503)}
	l := NewLookup(f)

	_, ok := l.Run(context.Background(), "alice")
	require.True(t, ok)
	assert.False(t, l.InFlight())

	f.err = nil
	f.panics = true
	res, ok := l.Run(context.Background(), "alice")
	require.True(t, ok)
	assert.Equal(t, models.MsgGeneric, res.Message)
	assert.False(t, l.InFlight())
}

func TestLookupNilResponseIsParseError(t *testing.T) {
	res, ok := NewLookup(&fakeFetcher{}).Run(context.Background(), "alice")
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, models.ErrParse)
}

func TestPresentNotFoundResetsSlots(t *testing.T) {
	for _, upstream := range []struct {
		status int
		body   string
	}{
		{http.StatusOK, `{"status":"failed"}`},
		{http.StatusNotFound, `{}`},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(upstream.status)
			_, _ = w.Write([]byte(upstream.body))
		}))

		board := render.NewBoard()
		renderer := render.New(board)
		l := NewLookup(api.NewClient(srv.URL, models.ShapeFlat, time.Second))

		res, _ := l.Run(context.Background(), "alice")
		Present(res, renderer)
		srv.Close()

		s := board.Snapshot()
		assert.Equal(t, "#--", s.Rank)
		assert.Equal(t, "0", s.TotalSolved)
		assert.Equal(t, "0%", s.Easy.Width)
		assert.Equal(t, "0%", s.Medium.Width)
		assert.Equal(t, "0%", s.Hard.Width)
		assert.Equal(t, 0.0, s.Gauge.Fill)
		assert.Equal(t, models.MsgNotFound, s.Status)
	}
}

func TestPresentSuccessClearsStatus(t *testing.T) {
	board := render.NewBoard()
	renderer := render.New(board)
	renderer.ShowStatus("stale")

	res, ok := NewLookup(successFetcher()).Run(context.Background(), "alice")
	require.True(t, ok)
	Present(res, renderer)

	s := board.Snapshot()
	assert.Empty(t, s.Status)
	assert.Equal(t, "#1500", s.Rank)
	assert.Equal(t, "120", s.TotalSolved)
	assert.Equal(t, 4.0, s.Gauge.Fill)
}
