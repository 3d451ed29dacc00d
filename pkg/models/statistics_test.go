package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestRankingJSON(t *testing.T) {
	data, err := json.Marshal(RankOf(1500))
	require.NoError(t, err)
	assert.Equal(t, "1500", string(data))

	data, err = json.Marshal(UnknownRank())
	require.NoError(t, err)
	assert.Equal(t, `"--"`, string(data))

	var r Ranking
	require.NoError(t, json.Unmarshal([]byte(`"--"`), &r))
	_, known := r.Value()
	assert.False(t, known)

	require.NoError(t, json.Unmarshal([]byte(`42`), &r))
	v, known := r.Value()
	assert.True(t, known)
	assert.Equal(t, 42, v)
}

func TestRankOfNonPositiveIsSentinel(t *testing.T) {
	assert.Equal(t, RankingSentinel, RankOf(0).String())
	assert.Equal(t, RankingSentinel, RankOf(-3).String())
	assert.Equal(t, "7", RankOf(7).String())
}

func TestResetModel(t *testing.T) {
	m := ResetModel()
	assert.Equal(t, RankingSentinel, m.Ranking.String())
	assert.Equal(t, 0, m.TotalSolved)
	assert.Equal(t, 1, m.TotalQuestions)
	assert.Equal(t, Difficulties{}, m.ByDifficulty)
	assert.Equal(t, 0, m.CompletionPercent)
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, s)

	s, err = ParseShape("profile")
	require.NoError(t, err)
	assert.Equal(t, ShapeProfile, s)

	_, err = ParseShape("xml")
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestFetchErrorMatchesTaxonomy(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewHTTPError(500))
	assert.ErrorIs(t, err, ErrHTTP)
	assert.NotErrorIs(t, err, ErrNetwork)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 500, fe.StatusCode)

	cause := errors.New("connection refused")
	assert.ErrorIs(t, NewNetworkError(cause), cause)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty", ErrEmptyUsername, MsgEmptyUsername},
		{"invalid", ErrInvalidUsername, MsgInvalidUsername},
		{"not found", NewNotFoundError(0, nil), MsgNotFound},
		{"network", NewNetworkError(errors.New("dial tcp")), MsgNetwork},
		{"http", NewHTTPError(502), MsgHTTP},
		{"parse", NewParseError(errors.New("eof")), MsgGeneric},
		{"other", errors.New("boom"), MsgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestNewAppError(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		grpcCode codes.Code
	}{
		{ErrEmptyUsername, http.StatusBadRequest, codes.InvalidArgument},
		{NewNotFoundError(404, nil), http.StatusNotFound, codes.NotFound},
		{NewNetworkError(errors.New("x")), http.StatusServiceUnavailable, codes.Unavailable},
		{NewHTTPError(500), http.StatusBadGateway, codes.Unavailable},
		{NewParseError(errors.New("x")), http.StatusBadGateway, codes.Unavailable},
		{errors.New("x"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tt := range tests {
		appErr := NewAppError(tt.err)
		assert.Equal(t, tt.status, appErr.StatusCode, tt.err.Error())
		assert.Equal(t, tt.grpcCode, appErr.GRPCCode, tt.err.Error())
	}
}
