package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"leetstats/internal/core"
	"leetstats/internal/render"
	"leetstats/pkg/logger"
	"leetstats/pkg/models"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "leetstats.v1.StatsService"

// GetStatsMethod is the full method path of GetStats
const GetStatsMethod = "/" + ServiceName + "/GetStats"

// StatsServiceServer is the server API for StatsService.
// Requests and responses are google.protobuf.Struct so no generated code
// is needed: the request carries {"username": ...}, the response the
// display model and rendered slots.
type StatsServiceServer interface {
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// StatsServiceDesc describes StatsService for grpc.Server.RegisterService
var StatsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StatsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStats",
			Handler:    getStatsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "leetstats/v1/stats.proto",
}

func getStatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatsServiceServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatsMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatsServiceServer).GetStats(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// StatsService implements StatsServiceServer on top of a fetcher
type StatsService struct {
	fetcher core.Fetcher
	timeout time.Duration
}

// NewStatsService creates the gRPC stats service
func NewStatsService(fetcher core.Fetcher, timeout time.Duration) *StatsService {
	return &StatsService{fetcher: fetcher, timeout: timeout}
}

// GetStats runs one lookup on a fresh orchestrator
func (s *StatsService) GetStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	username := req.GetFields()["username"].GetStringValue()
	defer func() {
		logger.GRPC("GetStats", username, int(time.Since(start).Milliseconds()))
	}()

	res, _ := core.NewLookup(s.fetcher).WithTimeout(s.timeout).Run(ctx, username)
	if !res.OK() {
		return nil, models.NewAppError(res.Err).ToGRPCError()
	}

	board := render.NewBoard()
	core.Present(res, render.New(board))

	out, err := toStruct(models.StatsPayload{
		Username: res.Username,
		Model:    res.Model,
		Slots:    board.Snapshot(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// toStruct converts v through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// StatsClient calls StatsService over an existing connection
type StatsClient struct {
	cc grpc.ClientConnInterface
}

// NewStatsClient wraps cc
func NewStatsClient(cc grpc.ClientConnInterface) *StatsClient {
	return &StatsClient{cc: cc}
}

// GetStats requests the stats for username
func (c *StatsClient) GetStats(ctx context.Context, username string, opts ...grpc.CallOption) (*models.StatsPayload, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	data, err := out.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	var payload models.StatsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &payload, nil
}
