package minio

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

// ArtifactStore stores the output files of mapping runs under
// <prefix>/<runID>/<name>.
type ArtifactStore interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	UploadFile(ctx context.Context, runID, localPath string) (*UploadResult, error)
	Exists(ctx context.Context, runID, name string) (bool, error)
}

// UploadRequest describes one in-memory artifact.
type UploadRequest struct {
	RunID       string
	Name        string
	Reader      io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// UploadResult describes a stored artifact.
type UploadResult struct {
	Bucket    string
	ObjectKey string
	ETag      string
	Size      int64
}

type minioArtifactStore struct {
	client *MinIOClient
	logger logging.Logger
}

// NewArtifactStore creates an ArtifactStore on client.
func NewArtifactStore(client *MinIOClient, log logging.Logger) ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioArtifactStore{client: client, logger: log}
}

// ObjectKey returns the key of artifact name of run runID under prefix.
func ObjectKey(prefix, runID, name string) string {
	return strings.TrimPrefix(path.Join(prefix, runID, name), "/")
}

// contentTypeFor guesses a content type from the file extension.
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv":
		return "text/tab-separated-values"
	case ".prom":
		return "text/plain; version=0.0.4"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (r *minioArtifactStore) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil || req.Reader == nil || req.RunID == "" || req.Name == "" {
		return nil, errors.InvalidParam("upload request requires run id, name and reader")
	}
	ct := req.ContentType
	if ct == "" {
		ct = contentTypeFor(req.Name)
	}
	key := ObjectKey(r.client.Prefix(), req.RunID, req.Name)
	info, err := r.client.GetClient().PutObject(ctx, r.client.Bucket(), key, req.Reader, req.Size, minio.PutObjectOptions{
		ContentType:  ct,
		UserMetadata: req.Metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload artifact").WithDetail("key=" + key)
	}
	r.logger.Info("Artifact uploaded", logging.String("key", key), logging.Int64("size", info.Size))
	return &UploadResult{Bucket: r.client.Bucket(), ObjectKey: key, ETag: info.ETag, Size: info.Size}, nil
}

func (r *minioArtifactStore) UploadFile(ctx context.Context, runID, localPath string) (*UploadResult, error) {
	if runID == "" || localPath == "" {
		return nil, errors.InvalidParam("upload requires run id and path")
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "artifact file not found").WithDetail("path=" + localPath)
	}
	name := filepath.Base(localPath)
	key := ObjectKey(r.client.Prefix(), runID, name)
	info, err := r.client.GetClient().FPutObject(ctx, r.client.Bucket(), key, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(name),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload artifact").WithDetail("key=" + key)
	}
	r.logger.Info("Artifact uploaded", logging.String("key", key), logging.Int64("size", info.Size))
	return &UploadResult{Bucket: r.client.Bucket(), ObjectKey: key, ETag: info.ETag, Size: info.Size}, nil
}

func (r *minioArtifactStore) Exists(ctx context.Context, runID, name string) (bool, error) {
	key := ObjectKey(r.client.Prefix(), runID, name)
	_, err := r.client.GetClient().StatObject(ctx, r.client.Bucket(), key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat artifact").WithDetail("key=" + key)
}

//Personal.AI order the ending
