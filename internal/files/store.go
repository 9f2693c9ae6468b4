// Package files — хранилище файлов документов.
//
// Сервис документов сохраняет только имя, возвращённое хранилищем, сами байты
// в БД не попадают. Боевое FTP-хранилище платформы живёт за тем же контрактом.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store сохраняет содержимое файла и возвращает стабильное имя.
type Store interface {
	Save(fileName string, content io.Reader) (string, error)
}

// LocalStore кладёт файлы в каталог на диске.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("каталог документов: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save сохраняет файл под уникальным именем, сохраняя расширение исходного.
func (s *LocalStore) Save(fileName string, content io.Reader) (string, error) {
	storedName := uuid.NewString() + filepath.Ext(fileName)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("создание файла документа: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("запись файла документа: %w", err)
	}

	return storedName, nil
}
