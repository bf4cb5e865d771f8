package thumbnail

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBackendResolver(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		key       string
		want      string
	}{
		{name: "Plain", publicURL: "http://localhost:4000", key: "uploads/a.png", want: "http://localhost:4000/uploads/a.png"},
		{name: "Trailing slash on origin", publicURL: "http://localhost:4000/", key: "uploads/a.png", want: "http://localhost:4000/uploads/a.png"},
		{name: "Leading slash on key", publicURL: "https://cdn.example.com", key: "/a.png", want: "https://cdn.example.com/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBackendResolver(tt.publicURL).Resolve(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newOfflineS3Resolver(prefix string) Resolver {
	client := s3.New(s3.Options{
		Region:      "eu-west-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})

	return NewS3ResolverWithClient(client, config.S3Config{
		Enabled:       true,
		Bucket:        "thumbs",
		Region:        "eu-west-1",
		Prefix:        prefix,
		PresignExpiry: 10 * time.Minute,
	}, zerolog.Nop())
}

func TestS3Resolver_Presigns(t *testing.T) {
	raw, err := newOfflineS3Resolver("thumbnails/").Resolve(context.Background(), "uploads/a.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Contains(t, u.Host, "thumbs")
	assert.Contains(t, u.Path, "thumbnails/uploads/a.png")
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Resolver_NoPrefix(t *testing.T) {
	raw, err := newOfflineS3Resolver("").Resolve(context.Background(), "/a.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.NotContains(t, u.Path, "//")
	assert.Contains(t, u.Path, "a.png")
}

type stubResolver struct {
	fail map[string]bool
}

func (s stubResolver) Resolve(_ context.Context, key string) (string, error) {
	if s.fail[key] {
		return "", errors.New("presign failed")
	}
	return "https://img/" + key, nil
}

func TestDecorate(t *testing.T) {
	withThumb := &model.Product{ID: "p1", Thumbnail: strPtr("a.png")}
	without := &model.Product{ID: "p2"}
	empty := &model.Product{ID: "p3", Thumbnail: strPtr("")}
	broken := &model.Product{ID: "p4", Thumbnail: strPtr("bad.png")}

	Decorate(context.Background(), stubResolver{fail: map[string]bool{"bad.png": true}}, zerolog.Nop(),
		withThumb, without, empty, broken, nil)

	assert.Equal(t, "https://img/a.png", withThumb.ThumbnailURL)
	assert.Empty(t, without.ThumbnailURL)
	assert.Empty(t, empty.ThumbnailURL)
	assert.Empty(t, broken.ThumbnailURL)
}

func TestDecorate_NilResolver(t *testing.T) {
	p := &model.Product{ID: "p1", Thumbnail: strPtr("a.png")}
	Decorate(context.Background(), nil, zerolog.Nop(), p)
	assert.Empty(t, p.ThumbnailURL)
}
