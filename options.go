package threadpool

import "log/slog"

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger that receives worker events (job received, terminate received, shutdown progress).
// Pools log nowhere by default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records pool activity in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) { p.metrics = m }
}
