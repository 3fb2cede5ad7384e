package storage

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:      true,
		Endpoint:     "localhost:9000",
		Bucket:       "rentquote-test",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(nil)
	assert.ErrorContains(t, err, "configuration is required")

	for name, mutate := range map[string]func(*config.StorageConfig){
		"bucket is required":     func(c *config.StorageConfig) { c.Bucket = "" },
		"access key is required": func(c *config.StorageConfig) { c.AccessKey = "" },
		"secret key is required": func(c *config.StorageConfig) { c.SecretKey = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", got)

	got, err = normalizeEndpoint("s3.example.com/", true)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", got)

	got, err = normalizeEndpoint("", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)
}

func TestS3ObjectStorage_Defaults(t *testing.T) {
	s, err := NewS3ObjectStorage(testConfig(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "rentquote-test", s.Bucket())
	assert.Equal(t, DefaultPresignExpiration, s.presignExpiration)
}

func TestS3ObjectStorage_KeyPrefix(t *testing.T) {
	s, err := NewS3ObjectStorage(testConfig(), WithKeyPrefix("/staging/"))
	require.NoError(t, err)

	key, err := s.objectKey("/invoices/acc/RINV-202506-001.pdf")
	require.NoError(t, err)
	assert.Equal(t, "staging/invoices/acc/RINV-202506-001.pdf", key)

	_, err = s.objectKey("")
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(testConfig())
	require.NoError(t, err)

	before := time.Now()
	upload, expires, err := s.GenerateUploadURL(ctx, "templates/abc/logo", "image/png", 10*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(upload)
	require.NoError(t, err)
	assert.Equal(t, "/rentquote-test/templates/abc/logo", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.WithinDuration(t, before.Add(10*time.Minute), expires, 5*time.Second)

	download, _, err := s.GenerateDownloadURL(ctx, "invoices/a/RINV-1.pdf", 0)
	require.NoError(t, err)
	assert.True(t, strings.Contains(download, "X-Amz-Expires=900"))

	_, _, err = s.GenerateDownloadURL(ctx, "", 0)
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestIntegration_UploadAndDownload(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("set INTEGRATION_TEST=1 with MinIO on localhost:9000 to run")
	}
	ctx := context.Background()
	s, err := NewS3ObjectStorage(testConfig())
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx))

	key := "invoices/it/" + time.Now().Format("150405.000") + ".pdf"
	require.NoError(t, s.Upload(ctx, key, []byte("%PDF-1.4"), "application/pdf"))
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}
