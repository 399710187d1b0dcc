package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageTooLarge = errors.New("image exceeds the upload limit")
	ErrImageInvalid  = errors.New("file is not a supported image")
)

var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ImageUploader validates uploads before handing them to an ImageStore.
type ImageUploader struct {
	store    ImageStore
	maxBytes int64
	now      func() time.Time
}

// NewImageUploader creates an ImageUploader with a per-file size cap.
func NewImageUploader(store ImageStore, maxBytes int64) *ImageUploader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &ImageUploader{store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload reads the multipart file, checks it decodes as png, jpeg, gif or webp and stores it.
func (u *ImageUploader) Upload(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return u.UploadReader(ctx, file)
}

// UploadReader is Upload for an arbitrary reader.
func (u *ImageUploader) UploadReader(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrImageTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrImageInvalid
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return "", ErrImageInvalid
	}

	name := fmt.Sprintf("%s-%s%s", u.now().Format("20060102"), uuid.New().String(), ext)
	return u.store.Save(ctx, name, "image/"+format, data)
}

// LocalImageStore writes images below dir and serves them under urlPath.
type LocalImageStore struct {
	dir     string
	urlPath string
}

// NewLocalImageStore creates a disk-backed ImageStore.
func NewLocalImageStore(dir, urlPath string) *LocalImageStore {
	return &LocalImageStore{dir: dir, urlPath: "/" + strings.Trim(urlPath, "/")}
}

// Save implements ImageStore.
func (s *LocalImageStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return path.Join(s.urlPath, name), nil
}

// RemoteImageStore uploads images to a managed blob API with a bearer token.
type RemoteImageStore struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// NewRemoteImageStore creates a blob-API backed ImageStore.
func NewRemoteImageStore(baseURL, token string, log zerolog.Logger) *RemoteImageStore {
	return &RemoteImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type blobResponse struct {
	URL string `json:"url"`
}

// Save implements ImageStore.
func (s *RemoteImageStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	endpoint := s.baseURL + "/images/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build blob request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("blob upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read blob response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn().Int("status", resp.StatusCode).Str("name", name).Msg("blob upload rejected")
		return "", fmt.Errorf("blob upload failed: status %d", resp.StatusCode)
	}

	var parsed blobResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode blob response: %w", err)
	}
	if strings.TrimSpace(parsed.URL) == "" {
		return "", errors.New("blob response has no url")
	}

	s.log.Debug().Str("name", name).Str("url", parsed.URL).Msg("image stored")
	return parsed.URL, nil
}
