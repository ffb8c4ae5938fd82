package ww

// Option configures a Stream or a Reflow call.
type Option func(*config)

type config struct {
	chunkSize   int
	onViolation func(Violation)
	onBoundary  func(Boundary)
}

const defaultChunkSize = 4096

// Violation describes a word that was wider than the column width.
type Violation struct {
	Word  string
	Width int
	Limit int
	// Line is the 1-based output line the word was written on.
	Line int
}

// WithChunkSize sets how many bytes Reflow reads from its Reader at a time.
// Values below 1 select the default of 4096.
func WithChunkSize(size int) Option {
	return func(cfg *config) {
		cfg.chunkSize = size
	}
}

// WithViolationHandler registers fn to be called for every word wider than
// the column width. Processing continues after fn returns.
func WithViolationHandler(fn func(Violation)) Option {
	return func(cfg *config) {
		cfg.onViolation = fn
	}
}

// WithBoundaryHandler registers fn to be called with the boundary chosen for
// every word that is written.
func WithBoundaryHandler(fn func(Boundary)) Option {
	return func(cfg *config) {
		cfg.onBoundary = fn
	}
}

func buildConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.chunkSize <= 0 {
		cfg.chunkSize = defaultChunkSize
	}
	return cfg
}
