package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/japanesestudent/progress-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course.yaml"), []byte("kind: course\nid: c1\nmodules: []\n"), 0o644))

	tests := []struct {
		name          string
		cfg           config.ContentConfig
		cache         CacheClient
		expectedError bool
		assertReader  func(t *testing.T, r Reader)
	}{
		{
			name: "http",
			cfg:  config.ContentConfig{Source: config.ContentSourceHTTP, BaseURL: "http://cms.local", Timeout: time.Second},
			assertReader: func(t *testing.T, r Reader) {
				assert.IsType(t, &HTTPReader{}, r)
			},
		},
		{
			name:  "http with cache",
			cfg:   config.ContentConfig{Source: config.ContentSourceHTTP, BaseURL: "http://cms.local", CacheTTL: time.Minute},
			cache: newMockCache(),
			assertReader: func(t *testing.T, r Reader) {
				assert.IsType(t, &CachedReader{}, r)
			},
		},
		{
			name:  "cache disabled by ttl",
			cfg:   config.ContentConfig{Source: config.ContentSourceFile, Dir: dir},
			cache: newMockCache(),
			assertReader: func(t *testing.T, r Reader) {
				assert.IsType(t, &FileReader{}, r)
			},
		},
		{
			name:          "missing content dir",
			cfg:           config.ContentConfig{Source: config.ContentSourceFile, Dir: filepath.Join(dir, "missing")},
			expectedError: true,
		},
		{
			name:          "unknown source",
			cfg:           config.ContentConfig{Source: "ftp"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := New(tt.cfg, tt.cache, zap.NewNop())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, reader)
				return
			}
			require.NoError(t, err)
			tt.assertReader(t, reader)
		})
	}
}
