package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService archives raw uploaded number lists in object storage so
// there is an audit trail of what was fed into each campaign.
type StorageService interface {
	EnsureBucketExists(ctx context.Context) error
	ArchiveNumberList(ctx context.Context, campaignID string, body string) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket}, nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// ArchiveNumberList stores the raw list under a campaign-scoped,
// timestamped key and returns the object name.
func (m *minioStorage) ArchiveNumberList(ctx context.Context, campaignID string, body string) (string, error) {
	objectName := fmt.Sprintf("campaign-%s/%s.txt", campaignID, time.Now().UTC().Format("20060102T150405"))
	reader := strings.NewReader(body)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}
