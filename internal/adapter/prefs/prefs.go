package prefs

import (
	"fmt"
	"sync"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/spf13/viper"
)

const sourceKey = "catalog_source"

var _ port.SourcePrefs = (*FileStore)(nil)

// FileStore persists the operator's source preference in a small YAML file.
// A missing file means no preference is set yet.
type FileStore struct {
	mu sync.Mutex
	v  *viper.Viper
}

func New(path string) *FileStore {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	_ = v.ReadInConfig()
	return &FileStore{v: v}
}

func (s *FileStore) SourcePreference() (domain.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := domain.Source(s.v.GetString(sourceKey))
	if !src.IsValid() {
		return "", false
	}
	return src, true
}

func (s *FileStore) SaveSourcePreference(src domain.Source) error {
	const op = "prefs.FileStore.SaveSourcePreference"

	if !src.IsValid() {
		return fmt.Errorf("%s: %w: %q", op, domain.ErrUnknownSource, src)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(sourceKey, string(src))
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
