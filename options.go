package leader

// Option configures a Candidate with optional dependencies.
type Option func(*candidateOptions)

// candidateOptions holds optional Candidate configuration.
type candidateOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewCandidate
//
// Example:
//
//	hooks := &leader.Hooks{
//	    OnElected: func(ctx context.Context, id string) error {
//	        log.Printf("elected: %s", id)
//	        return nil
//	    },
//	}
//	cand, err := leader.NewCandidate(store, cfg, leader.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *candidateOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewCandidate
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "leader")
//	cand, err := leader.NewCandidate(store, cfg, leader.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *candidateOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewCandidate
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	cand, err := leader.NewCandidate(store, cfg, leader.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *candidateOptions) {
		o.logger = logger
	}
}
