// memory — потокобезопасная in-memory реализация storage.Repository
// с загрузкой начальных данных из JSON.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
)

// Store — документы, сгруппированные по ресурсу (ключ в нижнем регистре) и Id.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]models.Document
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: make(map[string]map[string]models.Document)}
}

// LoadFile читает начальные данные из файла, см. Load.
func (s *Store) LoadFile(path string) (int, error) {
	const op = "storage.memory.LoadFile"

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	n, err := s.Load(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// Load загружает JSON вида {"Run": [{...}, ...], "User": [...]}.
// Числа сохраняются как json.Number; документ без Id — ошибка.
// Возвращает число загруженных документов.
func (s *Store) Load(r io.Reader) (int, error) {
	const op = "storage.memory.Load"

	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var seed map[string][]models.Document
	if err := dec.Decode(&seed); err != nil {
		return 0, fmt.Errorf("%s: decode: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for resource, docs := range seed {
		bucket := s.bucketLocked(resource)
		for i, d := range docs {
			id := d.ID()
			if id == "" {
				return n, fmt.Errorf("%s: %s[%d]: missing id", op, resource, i)
			}
			bucket[id] = d
			n++
		}
	}

	return n, nil
}

func (s *Store) bucketLocked(resource string) map[string]models.Document {
	key := strings.ToLower(resource)
	b, ok := s.data[key]
	if !ok {
		b = make(map[string]models.Document)
		s.data[key] = b
	}

	return b
}

func (s *Store) All(ctx context.Context, resource string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.data[strings.ToLower(resource)]
	out := make([]models.Document, 0, len(b))
	for _, d := range b {
		out = append(out, d.Clone())
	}

	return out, nil
}

func (s *Store) ByID(ctx context.Context, resource, id string) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[strings.ToLower(resource)][id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return d.Clone(), nil
}

func (s *Store) Insert(ctx context.Context, resource string, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := doc.ID()
	if id == "" {
		return fmt.Errorf("storage.memory.Insert: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(resource)
	if _, ok := b[id]; ok {
		return storage.ErrConflict
	}

	b[id] = doc.Clone()
	return nil
}

func (s *Store) Replace(ctx context.Context, resource string, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.data[strings.ToLower(resource)]
	id := doc.ID()
	if _, ok := b[id]; !ok {
		return storage.ErrNotFound
	}

	b[id] = doc.Clone()
	return nil
}

func (s *Store) Delete(ctx context.Context, resource, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.data[strings.ToLower(resource)]
	if _, ok := b[id]; !ok {
		return storage.ErrNotFound
	}

	delete(b, id)
	return nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Repository = (*Store)(nil)
