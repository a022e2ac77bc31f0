// minio предоставляет реализацию storage.Storage на базе MinIO/S3.
// Контейнер отображается в префикс ключа внутри одного бакета.
package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/courtside/internal/config"
	"github.com/pribylovaa/courtside/internal/storage"
	"github.com/pribylovaa/courtside/pkg/log"
)

// Store — адаптер MinIO.
type Store struct {
	client     *mclient.Client
	bucket     string
	publicBase string
}

// New создает и инициализирует клиент MinIO.
// Делает endpoint-перенастройку (убирает схему), подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg config.S3Config) (*Store, error) {
	const op = "storage.minio.New"

	endpoint, secure := splitEndpoint(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%s: %w: empty endpoint", op, storage.ErrInvalidArgument)
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.Bucket
	}

	return &Store{client: client, bucket: cfg.Bucket, publicBase: publicBase}, nil
}

// splitEndpoint: "https://host:9000" -> ("host:9000", true); "host:9000" -> ("host:9000", false).
func splitEndpoint(raw string) (string, bool) {
	endpoint := strings.TrimSpace(raw)
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	return endpoint, secure
}

// Upload кладёт объект container/name и возвращает его публичный URL.
func (s *Store) Upload(ctx context.Context, r io.Reader, size int64, name, container string) (string, error) {
	const op = "storage.minio.Upload"

	key, err := storage.ObjectKey(name, container)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if r == nil {
		return "", fmt.Errorf("%s: %w: nil reader", op, storage.ErrInvalidArgument)
	}

	if size < 0 {
		size = -1
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, mclient.PutObjectOptions{
		ContentType: storage.ContentType(name),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("upload_ok",
		slog.String("op", op),
		slog.String("key", key),
		slog.Int64("size", info.Size),
	)

	return s.objectURL(key), nil
}

// Delete удаляет объект; false — объекта не было.
func (s *Store) Delete(ctx context.Context, name, container string) (bool, error) {
	const op = "storage.minio.Delete"

	ok, err := s.Exists(ctx, name, container)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		return false, nil
	}

	key, _ := storage.ObjectKey(name, container)
	if err := s.client.RemoveObject(ctx, s.bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("delete_ok",
		slog.String("op", op),
		slog.String("key", key),
	)

	return true, nil
}

// Exists проверяет объект через StatObject.
func (s *Store) Exists(ctx context.Context, name, container string) (bool, error) {
	const op = "storage.minio.Exists"

	key, err := storage.ObjectKey(name, container)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, mclient.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (s *Store) objectURL(key string) string {
	return s.publicBase + "/" + key
}

func isNotFound(err error) bool {
	errResp := mclient.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.StatusCode == http.StatusNotFound
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Store)(nil)
