package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cw-forecast/models"
)

type fakeObjectStore struct {
	buckets    map[string]bool
	objects    map[string][]byte
	types      map[string]string
	existsErr  error
	putErr     error
	madeBucket int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeObjectStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	return s.buckets[bucket], s.existsErr
}

func (s *fakeObjectStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	s.buckets[bucket] = true
	s.madeBucket++
	return nil
}

func (s *fakeObjectStore) PutObject(_ context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if s.putErr != nil {
		return minio.UploadInfo{}, s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	s.objects[bucket+"/"+key] = data
	s.types[bucket+"/"+key] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestMinioReportArchiver_Archive(t *testing.T) {
	store := newFakeObjectStore()
	archiver := newMinioReportArchiver(store, "reports", nil)
	assert.True(t, archiver.Enabled())
	resp := &models.ForecastResponse{
		ForecastID: "forecast-1",
		City:       "Riyadh",
		Forecast:   []models.ForecastRecordView{{Date: "2025-03-01"}},
	}

	key, err := archiver.Archive(context.Background(), resp, []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "reports/riyadh/2025-03-01/forecast-1.xlsx", key)
	assert.Equal(t, []byte("xlsx"), store.objects["reports/"+key])
	assert.Equal(t, xlsxContentType, store.types["reports/"+key])
	assert.Equal(t, 1, store.madeBucket)

	_, err = archiver.Archive(context.Background(), resp, []byte("again"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.madeBucket, "bucket is created once")
}

func TestMinioReportArchiver_Errors(t *testing.T) {
	store := newFakeObjectStore()
	store.existsErr = errors.New("access denied")
	archiver := newMinioReportArchiver(store, "reports", nil)
	_, err := archiver.Archive(context.Background(), &models.ForecastResponse{}, nil)
	assert.ErrorIs(t, err, store.existsErr)

	store = newFakeObjectStore()
	store.putErr = errors.New("quota exceeded")
	archiver = newMinioReportArchiver(store, "reports", nil)
	_, err = archiver.Archive(context.Background(), &models.ForecastResponse{}, nil)
	assert.ErrorIs(t, err, store.putErr)
}

func TestReportKey_EmptyForecast(t *testing.T) {
	assert.Equal(t, "reports/jeddah/empty/x.xlsx", ReportKey(&models.ForecastResponse{ForecastID: "x", City: "Jeddah"}))
}
