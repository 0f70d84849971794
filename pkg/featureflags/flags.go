// ABOUTME: Feature flags toggling optional hardening in the aggregation pipeline
// ABOUTME: Flags resolve from overrides, then the environment, then defaults, and travel via context

package featureflags

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// StaleRunFencing discards cache writes from superseded aggregation runs
	StaleRunFencing FeatureFlag = "stale_run_fencing"

	// MetricsEnabled exposes the Prometheus endpoint
	MetricsEnabled FeatureFlag = "metrics_enabled"

	// RateLimitEnabled enables the per-client API rate limiter
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"

	// CacheMirrorEnabled mirrors channel cache entries to the snapshot store
	CacheMirrorEnabled FeatureFlag = "cache_mirror_enabled"
)

// All lists every defined flag
var All = []FeatureFlag{StaleRunFencing, MetricsEnabled, RateLimitEnabled, CacheMirrorEnabled}

// Parse resolves a flag name, case-insensitively
func Parse(name string) (FeatureFlag, error) {
	flag := FeatureFlag(strings.ToLower(strings.TrimSpace(name)))
	if !lo.Contains(All, flag) {
		return "", fmt.Errorf("unknown feature flag %q", name)
	}
	return flag, nil
}

// Manager resolves and overrides flag states
type Manager interface {
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// SetEnabled overrides a flag's state for the life of the manager
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns a snapshot of every known flag
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager reads flags from <prefix><FLAG_NAME> environment variables.
// Lookup order: SetEnabled override, environment, then defaults.
type EnvManager struct {
	prefix   string
	defaults map[FeatureFlag]bool

	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
}

// NewEnvManager creates an environment-backed manager. An empty prefix
// means FEATURE_.
func NewEnvManager(prefix string, defaults map[FeatureFlag]bool) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		prefix:    prefix,
		defaults:  maps.Clone(defaults),
		overrides: make(map[FeatureFlag]bool),
	}
}

// IsEnabled reports the flag's resolved state
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	enabled, overridden := m.overrides[flag]
	m.mu.RUnlock()
	if overridden {
		return enabled
	}

	if value, ok := os.LookupEnv(m.envKey(flag)); ok && value != "" {
		return envTruthy(value)
	}
	return m.defaults[flag]
}

func (m *EnvManager) envKey(flag FeatureFlag) string {
	return m.prefix + strings.ToUpper(string(flag))
}

func envTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "enabled":
		return true
	}
	return false
}

// SetEnabled overrides a flag regardless of environment and defaults
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	m.overrides[flag] = enabled
	m.mu.Unlock()
}

// GetAllFlags resolves every flag in All
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	return lo.SliceToMap(All, func(flag FeatureFlag) (FeatureFlag, bool) {
		return flag, m.IsEnabled(ctx, flag)
	})
}

// StaticManager holds fixed flag states; unknown flags are disabled
type StaticManager struct {
	mu    sync.RWMutex
	flags map[FeatureFlag]bool
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	if flags == nil {
		flags = make(map[FeatureFlag]bool)
	}
	return &StaticManager{flags: flags}
}

func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns a copy of the configured states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.flags)
}

type contextKey struct{}

// WithManager attaches manager to ctx
func WithManager(ctx context.Context, manager Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, manager)
}

// FromContext returns the manager attached to ctx. Without one, every flag
// reads as disabled.
func FromContext(ctx context.Context) Manager {
	if manager, ok := ctx.Value(contextKey{}).(Manager); ok {
		return manager
	}
	return NewStaticManager(nil)
}

// IsEnabled checks flag against the manager attached to ctx
func IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	return FromContext(ctx).IsEnabled(ctx, flag)
}
