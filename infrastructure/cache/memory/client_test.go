package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"subfeed-api/core/channelcache"
	"subfeed-api/core/domain"
	"subfeed-api/core/interfaces"
	"subfeed-api/pkg/config"
)

const snapshotKey = "subscriptions:UC123"

func TestMemoryCache_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		writes [][]byte
		ttl    time.Duration
		want   string
	}{
		{"single write", [][]byte{[]byte(`{"videos":[]}`)}, time.Hour, `{"videos":[]}`},
		{"overwrite keeps last", [][]byte{[]byte(`{"videos":[]}`), []byte(`{"liveStreams":[]}`)}, time.Hour, `{"liveStreams":[]}`},
		{"zero ttl never expires", [][]byte{[]byte(`{"rssFeedEntries":[]}`)}, 0, `{"rssFeedEntries":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewMemoryCache()
			ctx := context.Background()

			for _, w := range tt.writes {
				require.NoError(t, cache.Set(ctx, snapshotKey, w, tt.ttl))
			}

			got, err := cache.Get(ctx, snapshotKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, 1, cache.Len())
		})
	}
}

func TestMemoryCache_MissingAndDeleted(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "subscriptions:UCnone")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, cache.Set(ctx, snapshotKey, []byte("{}"), 0))
	require.NoError(t, cache.Delete(ctx, snapshotKey))
	_, err = cache.Get(ctx, snapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, cache.Delete(ctx, "subscriptions:UCnone"), "deleting a missing key is not an error")
}

func TestMemoryCache_TTLExpires(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, snapshotKey, []byte("{}"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, snapshotKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_IsolatesStoredBytes(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	input := []byte("abc")
	require.NoError(t, cache.Set(ctx, snapshotKey, input, 0))
	input[0] = 'x'

	got, err := cache.Get(ctx, snapshotKey)
	require.NoError(t, err)
	got[1] = 'y'

	again, err := cache.Get(ctx, snapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_CancelledContext(t *testing.T) {
	cache := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, cache.Set(ctx, snapshotKey, []byte("{}"), 0))
	_, err := cache.Get(ctx, snapshotKey)
	assert.Error(t, err)
	assert.Error(t, cache.Delete(ctx, snapshotKey))
}

func TestNewMemoryCacheFromConfig_DefaultExpiration(t *testing.T) {
	cache := NewMemoryCacheFromConfig(config.MemoryConfig{DefaultExpiration: 1, CleanupInterval: 1})
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, snapshotKey, []byte("{}"), 0))
	time.Sleep(1100 * time.Millisecond)

	_, err := cache.Get(ctx, snapshotKey)
	assert.Error(t, err, "zero TTL should use the configured default expiration")
}

func TestMemoryCache_BacksChannelCacheSnapshots(t *testing.T) {
	store := NewMemoryCache()
	ctx := context.Background()

	writer := channelcache.New(interfaces.Dependencies{Cache: store})
	writer.Update("UC123", domain.UpdateForKind(domain.KindVideos, []domain.FeedEntry{{VideoID: "v1", Title: "One"}}))

	reader := channelcache.New(interfaces.Dependencies{Cache: store})
	assert.Equal(t, 1, reader.Warm(ctx, []string{"UC123", "UCmissing"}))

	entry, ok := reader.Get("UC123")
	require.True(t, ok)
	require.Len(t, entry.Videos, 1)
	assert.Equal(t, "v1", entry.Videos[0].VideoID)
	assert.Nil(t, entry.LiveStreams)
}
