package results

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioStore persists records to a MinIO or S3-compatible bucket. Separate
// simulation instances (one sim id each) can share a bucket and merge
// results by listing it.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore creates a store writing under bucket/rootPrefix.
func NewMinioStore(client *minio.Client, bucket, rootPrefix string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *MinioStore) objectName(key string) string {
	return path.Join(s.prefix, key)
}

// Put implements Store.
func (s *MinioStore) Put(ctx context.Context, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.objectName(rec.Key()),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Get implements Store.
func (s *MinioStore) Get(ctx context.Context, key string) (Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return Record{}, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return decode(data)
}

// List implements Store.
func (s *MinioStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	opts := minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		key := strings.TrimPrefix(obj.Key, s.prefix)
		keys = append(keys, strings.TrimPrefix(key, "/"))
	}
	sort.Strings(keys)
	return keys, nil
}
