package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"GroveWorld/internal/grove/interfaces/handler"
	"GroveWorld/internal/shared/transport"
	transportgrpc "GroveWorld/internal/shared/transport/grpc"
	"GroveWorld/modules/kit/logx"
)

// WorldServer serves grove.v1.WorldService/Do. Requests are
// {action, token, payload}; responses {code, msg, data}. Game outcomes
// travel in code; grpc status errors are reserved for malformed calls.
type WorldServer struct {
	grove *handler.Grove
	log   logx.Logger
}

func NewWorldServer(g *handler.Grove, l logx.Logger) *WorldServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WorldServer{grove: g, log: l}
}

func (s *WorldServer) Do(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is nil")
	}
	fields := req.GetFields()
	action := fields["action"].GetStringValue()
	if action == "" {
		return nil, status.Error(codes.InvalidArgument, "action is required")
	}
	var payload any
	if p := fields["payload"].GetStructValue(); p != nil {
		payload = p.AsMap()
	}

	ctx = transport.NewContextWithParent(ctx, "GRPC "+action)
	r := s.grove.Handle(ctx, fields["token"].GetStringValue(), action, payload)
	transport.SetBizCode(ctx, transport.BizCode(r.Code))
	transport.WriteAccessLog(ctx, s.log)

	return toStruct(r)
}

func toStruct(r handler.Reply) (*structpb.Struct, error) {
	out := map[string]any{"code": r.Code}
	if r.Msg != "" {
		out["msg"] = r.Msg
	}
	if r.Data != nil {
		raw, err := json.Marshal(r.Data)
		if err != nil {
			return nil, status.Error(codes.Internal, "encode reply")
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, status.Error(codes.Internal, "encode reply")
		}
		out["data"] = data
	}
	st, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

var _ transportgrpc.WorldServiceServer = (*WorldServer)(nil)
