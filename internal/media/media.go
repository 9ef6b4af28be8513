// Package media хранит фотографии на диске и выдает относительные пути.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Логические корзины для фотографий.
const (
	BucketMembers = "members"
	BucketCars    = "cars"
)

// Store раскладывает фотографии по двум корзинам. Имя файла
// собирается из id пользователя, вида сущности и сквозного номера,
// чтобы пачка загрузок подряд не затирала друг друга.
type Store struct {
	baseDir string
	seq     atomic.Uint64
}

func NewStore(baseDir string) (*Store, error) {
	for _, bucket := range []string{BucketMembers, BucketCars} {
		if err := os.MkdirAll(filepath.Join(baseDir, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("создание каталога фотографий: %w", err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// Save записывает фотографию и возвращает путь относительно корня
// хранилища, например "cars/42_car_7.jpg".
func (s *Store) Save(bucket string, userID int64, kind string, data []byte) (string, error) {
	name := fmt.Sprintf("%d_%s_%d.jpg", userID, kind, s.seq.Add(1))
	rel := filepath.Join(bucket, name)
	if err := os.WriteFile(filepath.Join(s.baseDir, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("запись фотографии: %w", err)
	}
	return rel, nil
}

// Path возвращает абсолютный путь для сохранённого ранее файла.
func (s *Store) Path(rel string) string {
	return filepath.Join(s.baseDir, rel)
}
