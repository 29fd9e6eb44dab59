package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type LocalStore struct {
	Root string // 例如 "./uploads"
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) ensureDir(p string) error {
	return os.MkdirAll(p, 0o755)
}

// Put 写入一个对象；key 为空时按 年/月/uuid 自动生成
func (s *LocalStore) Put(key string, r io.Reader) (string, int64, error) {
	if key == "" {
		now := time.Now().UTC()
		key = filepath.ToSlash(filepath.Join(
			fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month())),
			uuid.NewString(),
		))
	}
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := s.ensureDir(filepath.Dir(full)); err != nil {
		return "", 0, err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return "", 0, err
	}
	return key, n, nil
}

func (s *LocalStore) Delete(key string) error {
	return os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
}

func (s *LocalStore) Path(key string) (string, error) {
	return filepath.Join(s.Root, filepath.FromSlash(key)), nil
}
