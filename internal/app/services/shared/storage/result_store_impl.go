package storage

import (
	"bytes"
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/pkg/exceptions"
	"context"

	"github.com/minio/minio-go/v7"
)

type minioResultStore struct {
	Client     *minio.Client
	BucketName string
}

func NewMinioResultStore(client *minio.Client, driverConfig *config.DriverConfig) contracts.ResultStore {
	return &minioResultStore{
		Client:     client,
		BucketName: driverConfig.Minio.BucketName,
	}
}

func (s *minioResultStore) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := s.Client.StatObject(ctx, s.BucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, exceptions.ErrMinioStatObject(err, s.BucketName)
	}
	return true, nil
}

func (s *minioResultStore) Put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.BucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return exceptions.ErrMinioPutObject(err, s.BucketName)
	}
	return nil
}
