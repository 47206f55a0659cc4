package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// DocumentStore keeps generated documents and hands back a public URL.
type DocumentStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// SupabaseStore uploads into one Supabase Storage bucket.
type SupabaseStore struct {
	client *storage.Client
	bucket string
}

func NewSupabaseStore(supabaseURL, key, bucket string) *SupabaseStore {
	base := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStore{
		client: storage.NewClient(base+"/storage/v1", key, nil),
		bucket: bucket,
	}
}

// Upload writes data at objectPath (overwriting) and returns its public URL.
func (s *SupabaseStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", s.bucket, objectPath, err)
	}
	return s.client.GetPublicUrl(s.bucket, objectPath).SignedURL, nil
}
