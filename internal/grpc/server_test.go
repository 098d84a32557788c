package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthFollowsPing(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var pingErr error
	s := newServer(listener, func(context.Context) error { return pingErr }, nil)
	go func() { _ = s.Start() }()
	defer s.Stop()

	conn, err := grpc.NewClient(s.GetAddr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := func() healthpb.HealthCheckResponse_ServingStatus {
		res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		require.NoError(t, err)
		return res.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status())

	require.NoError(t, s.CheckHealth(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status())

	pingErr = errors.New("db down")
	assert.Error(t, s.CheckHealth(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status())
}
