package storage

import (
	"context"
	"io"
)

// Storage is the blob store holding uploaded essay files. Objects are
// write-once: a submission's key is generated fresh at upload time and
// never overwritten.
type Storage interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetURL(key string) string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}
