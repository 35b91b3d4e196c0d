package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-letters/letter"
)

// SignedURLInput describes a signed URL request.
type SignedURLInput struct {
	BaseURL   string
	Key       string
	ExpiresAt time.Time
}

// SignedURLSigner signs artifact URLs.
type SignedURLSigner interface {
	SignURL(input SignedURLInput) (string, error)
}

// Store provides filesystem-backed storage for generated letters and
// uploaded permission files. Writes go through a temp file and rename, so
// readers never observe a partially written PDF.
type Store struct {
	Root    string
	BaseURL string
	Signer  SignedURLSigner
	Now     func() time.Time
}

var _ letter.ArtifactStore = (*Store)(nil)

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Put stores an artifact on disk.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta letter.ArtifactMeta) (letter.ArtifactRef, error) {
	_ = ctx
	if s == nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return letter.ArtifactRef{}, letter.NewError(letter.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return letter.ArtifactRef{}, letter.NewError(letter.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return letter.ArtifactRef{}, err
	}

	dir := filepath.Dir(pathOnDisk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact directory create failed", err)
	}

	tmp, err := os.CreateTemp(dir, ".letter-*")
	if err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact temp file create failed", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact write failed", err)
	}
	if err := tmp.Sync(); err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact sync failed", err)
	}
	if err := tmp.Close(); err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact close failed", err)
	}

	if err := os.Rename(tmp.Name(), pathOnDisk); err != nil {
		return letter.ArtifactRef{}, letter.NewError(letter.KindStorage, "artifact rename failed", err)
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}

	if err := s.writeMeta(pathOnDisk, meta); err != nil {
		return letter.ArtifactRef{}, err
	}

	return letter.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact from disk.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, letter.ArtifactMeta, error) {
	_ = ctx
	if s == nil {
		return nil, letter.ArtifactMeta{}, letter.NewError(letter.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return nil, letter.ArtifactMeta{}, letter.NewError(letter.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return nil, letter.ArtifactMeta{}, letter.NewError(letter.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, letter.ArtifactMeta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, letter.ArtifactMeta{}, letter.NewError(letter.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, letter.ArtifactMeta{}, letter.NewError(letter.KindStorage, "artifact open failed", err)
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}

	return file, meta, nil
}

// Delete removes an artifact from disk.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	if s == nil {
		return letter.NewError(letter.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return letter.NewError(letter.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return letter.NewError(letter.KindValidation, "artifact key is required", nil)
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	_ = os.Remove(pathOnDisk)
	_ = os.Remove(metaPath(pathOnDisk))
	return nil
}

// SignedURL generates a signed URL when configured.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	_ = ctx
	if s == nil {
		return "", letter.NewError(letter.KindInternal, "store is nil", nil)
	}
	if s.Signer == nil || s.BaseURL == "" {
		return "", letter.NewError(letter.KindNotImpl, "signed URLs not configured", nil)
	}
	if ttl <= 0 {
		return "", letter.NewError(letter.KindValidation, "signed URL TTL is required", nil)
	}
	if key == "" {
		return "", letter.NewError(letter.KindValidation, "artifact key is required", nil)
	}
	expires := s.now().Add(ttl)
	return s.Signer.SignURL(SignedURLInput{
		BaseURL:   strings.TrimRight(s.BaseURL, "/"),
		Key:       key,
		ExpiresAt: expires,
	})
}

func (s *Store) resolvePath(key string) (string, error) {
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", letter.NewError(letter.KindValidation, "invalid artifact key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
		return "", letter.NewError(letter.KindValidation, "artifact key escapes root", nil)
	}
	return target, nil
}

func (s *Store) writeMeta(pathOnDisk string, meta letter.ArtifactMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	dir := filepath.Dir(pathOnDisk)
	tmp, err := os.CreateTemp(dir, ".meta-*")
	if err != nil {
		return letter.NewError(letter.KindStorage, "meta temp file create failed", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(payload); err != nil {
		return letter.NewError(letter.KindStorage, "meta write failed", err)
	}
	if err := tmp.Sync(); err != nil {
		return letter.NewError(letter.KindStorage, "meta sync failed", err)
	}
	if err := tmp.Close(); err != nil {
		return letter.NewError(letter.KindStorage, "meta close failed", err)
	}
	if err := os.Rename(tmp.Name(), metaPath(pathOnDisk)); err != nil {
		return letter.NewError(letter.KindStorage, "meta rename failed", err)
	}
	return nil
}

func (s *Store) readMeta(pathOnDisk string) letter.ArtifactMeta {
	data, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return letter.ArtifactMeta{}
	}
	var meta letter.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return letter.ArtifactMeta{}
	}
	return meta
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}
