package solana

import "context"

// HealthCheck implements ports.HealthChecker for the Solana RPC node.
type HealthCheck struct {
	rpc *RPCClient
}

// NewHealthCheck creates a Solana RPC health checker.
func NewHealthCheck(rpc *RPCClient) *HealthCheck {
	return &HealthCheck{rpc: rpc}
}

// Ping asks the node whether it is caught up with the cluster.
func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.rpc.GetHealth(ctx)
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "solana_rpc"
}
