package engine

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/edvin/modelerd/internal/model"
)

// GRPCChecker probes gateway reachability with a grpc health check
// against the endpoint's gateway address.
type GRPCChecker struct {
	logger  zerolog.Logger
	timeout time.Duration
}

func NewGRPCChecker(logger zerolog.Logger, timeout time.Duration) *GRPCChecker {
	return &GRPCChecker{
		logger:  logger.With().Str("component", "connection-checker").Logger(),
		timeout: timeout,
	}
}

func (c *GRPCChecker) Check(ctx context.Context, endpoint model.Endpoint) CheckResult {
	target, secure := grpcTarget(endpoint)
	if target == "" {
		return CheckResult{Success: false, Reason: "no contact point configured"}
	}

	creds := insecure.NewCredentials()
	if secure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return CheckResult{Success: false, Reason: fmt.Sprintf("dial gateway: %v", err)}
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := grpchealth.NewHealthClient(conn).Check(ctx, &grpchealth.HealthCheckRequest{})
	if err != nil {
		st := status.Convert(err)
		c.logger.Debug().
			Str("endpoint", endpoint.ID).
			Str("code", st.Code().String()).
			Msg("connectivity probe failed")
		return CheckResult{
			Success: false,
			Reason:  string(model.ClassifyCode(int(st.Code()))),
		}
	}
	if resp.GetStatus() != grpchealth.HealthCheckResponse_SERVING {
		return CheckResult{Success: false, Reason: "gateway not serving"}
	}
	return CheckResult{Success: true}
}

// grpcTarget resolves the gRPC dial target and whether to use TLS.
// Cloud clusters always use TLS on 443; self-hosted follows the
// contact point's scheme, defaulting to plaintext.
func grpcTarget(endpoint model.Endpoint) (target string, secure bool) {
	raw := endpoint.ContactPoint
	if endpoint.TargetType == model.TargetTypeCamundaCloud {
		raw = endpoint.CamundaCloudClusterURL
		secure = true
	}
	raw = strings.TrimSuffix(raw, "/")
	if scheme, rest, found := strings.Cut(raw, "://"); found {
		secure = scheme == "https" || scheme == "grpcs"
		raw = rest
	}
	return raw, secure
}
