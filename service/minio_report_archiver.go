package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cw-forecast/logger"
	"cw-forecast/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// REPORT_KEY_FORMAT is city/first-day/forecast-id.xlsx.
const REPORT_KEY_FORMAT = "reports/%s/%s/%s.xlsx"

// objectStore is the part of *minio.Client the archiver uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioReportArchiver uploads forecast spreadsheets to a bucket, creating it on first use.
type MinioReportArchiver struct {
	store  objectStore
	bucket string
	log    logger.Logger
}

// NewMinioReportArchiver connects to a MinIO or S3 compatible endpoint.
func NewMinioReportArchiver(endpoint, accessKey, secretKey, bucket string, useSSL bool, log logger.Logger) (*MinioReportArchiver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newMinioReportArchiver(client, bucket, log), nil
}

func newMinioReportArchiver(store objectStore, bucket string, log logger.Logger) *MinioReportArchiver {
	if log == nil {
		log = logger.Discard()
	}
	return &MinioReportArchiver{store: store, bucket: bucket, log: logger.Component(log, "minio_archiver")}
}

// ReportKey is the object key of the report of resp.
func ReportKey(resp *models.ForecastResponse) string {
	first := "empty"
	if len(resp.Forecast) > 0 {
		first = resp.Forecast[0].Date
	}
	return fmt.Sprintf(REPORT_KEY_FORMAT, strings.ToLower(resp.City), first, resp.ForecastID)
}

func (a *MinioReportArchiver) Enabled() bool { return true }

func (a *MinioReportArchiver) Archive(ctx context.Context, resp *models.ForecastResponse, workbook []byte) (string, error) {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket: %w", err)
		}
		a.log.Infof("Created bucket: %s", a.bucket)
	}

	key := ReportKey(resp)
	_, err = a.store.PutObject(ctx, a.bucket, key, bytes.NewReader(workbook), int64(len(workbook)), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	a.log.Debugf("Uploaded report to bucket: %s, key: %s", a.bucket, key)
	return key, nil
}
