// File: pool/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

// Option customizes pipe construction.
type Option func(*config)

type config struct {
	alloc Allocator
}

func defaultConfig() config {
	return config{alloc: DefaultAllocator()}
}

// WithAllocator overrides the payload arena allocator.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		if a != nil {
			c.alloc = a
		}
	}
}
