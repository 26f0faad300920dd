// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cached generic loader: .env once, then environment parsing per type.

package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (a copy of the loaded struct)
)

// Load fills cfg from the environment. The first call loads .env from the
// working directory if present; variables already set take precedence.
// Each struct type is parsed once and later calls receive the cached value.
func Load[T any](cfg *T) error {
	typ := reflect.TypeOf(cfg).Elem()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}
	if err := Parse(cfg); err != nil {
		return err
	}
	actual, _ := cache.LoadOrStore(typ, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on error, for use during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse fills cfg from the environment without touching the cache.
func Parse[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// a missing .env is the normal case outside development
		_ = godotenv.Load()
	})
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %T: %w", *cfg, err)
	}
	return nil
}
