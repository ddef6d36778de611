package monitoring

import (
	"context"
	"time"

	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
)

// InstrumentResolver wraps a resolver so that every client it hands out
// reports call counts, latency and token usage to the monitor.
//
// Usage:
//
//	monitor := monitoring.NewMonitor(logger)
//	clients = monitoring.InstrumentResolver(clients, monitor)
func InstrumentResolver(next service.LLMClientResolver, monitor *Monitor) service.LLMClientResolver {
	return &observedResolver{next: next, monitor: monitor}
}

type observedResolver struct {
	next    service.LLMClientResolver
	monitor *Monitor
}

func (r *observedResolver) Resolve(cfg valueobject.ModelConfig) (service.LLMClient, error) {
	client, err := r.next.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	return &observedClient{next: client, monitor: r.monitor}, nil
}

type observedClient struct {
	next    service.LLMClient
	monitor *Monitor
}

func (c *observedClient) Generate(ctx context.Context, req *service.LLMRequest) (*service.LLMResponse, error) {
	c.monitor.IncModelCall()
	start := time.Now()

	resp, err := c.next.Generate(ctx, req)
	c.monitor.RecordModelLatency(time.Since(start))
	if err != nil {
		c.monitor.IncModelFailed()
		return nil, err
	}
	c.monitor.AddTokensUsed(resp.TokensUsed)
	return resp, nil
}
