package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleRunFencing_DisabledByDefault(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_", nil)

	assert.False(t, manager.IsEnabled(context.Background(), StaleRunFencing))
}

func TestEnvManager_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TEST_FEATURE_METRICS_ENABLED", "false")

	manager := NewEnvManager("TEST_FEATURE_", map[FeatureFlag]bool{MetricsEnabled: true})

	assert.False(t, manager.IsEnabled(context.Background(), MetricsEnabled))
}

func TestEnvManager_DefaultWhenUnset(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_", map[FeatureFlag]bool{MetricsEnabled: true})

	assert.True(t, manager.IsEnabled(context.Background(), MetricsEnabled))
	assert.False(t, manager.IsEnabled(context.Background(), RateLimitEnabled))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"false", "false", false},
		{"0", "0", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_", nil)

			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_SetEnabledWins(t *testing.T) {
	t.Setenv("TEST_FEATURE_STALE_RUN_FENCING", "true")

	manager := NewEnvManager("TEST_FEATURE_", nil)
	manager.SetEnabled(StaleRunFencing, false)

	assert.False(t, manager.IsEnabled(context.Background(), StaleRunFencing))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_", map[FeatureFlag]bool{CacheMirrorEnabled: true})

	flags := manager.GetAllFlags()

	assert.Len(t, flags, len(All))
	assert.True(t, flags[CacheMirrorEnabled])
	assert.False(t, flags[StaleRunFencing])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{StaleRunFencing: true})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, StaleRunFencing))
	assert.False(t, manager.IsEnabled(ctx, MetricsEnabled))

	manager.SetEnabled(MetricsEnabled, true)
	assert.True(t, manager.IsEnabled(ctx, MetricsEnabled))

	all := manager.GetAllFlags()
	all[StaleRunFencing] = false
	assert.True(t, manager.IsEnabled(ctx, StaleRunFencing), "GetAllFlags should return a copy")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsEnabled(ctx, StaleRunFencing), "no manager means disabled")

	ctx = WithManager(ctx, NewStaticManager(map[FeatureFlag]bool{StaleRunFencing: true}))
	assert.True(t, IsEnabled(ctx, StaleRunFencing))
}

func TestParse(t *testing.T) {
	flag, err := Parse(" Metrics_Enabled ")
	assert.NoError(t, err)
	assert.Equal(t, MetricsEnabled, flag)

	_, err = Parse("search_enabled")
	assert.Error(t, err)
}

func TestNewEnvManager_CopiesDefaults(t *testing.T) {
	defaults := map[FeatureFlag]bool{MetricsEnabled: true}
	manager := NewEnvManager("TEST_FEATURE_", defaults)

	defaults[MetricsEnabled] = false

	assert.True(t, manager.IsEnabled(context.Background(), MetricsEnabled))
}
