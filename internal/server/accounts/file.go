package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/okulov/chatter/internal/common"
	"github.com/okulov/chatter/internal/filex"
	"github.com/okulov/chatter/internal/server/models"
)

// FileRepository stores all accounts as a single JSON array on disk. Every
// mutation reads the entire collection, applies the change, and rewrites the
// whole file. The mutex serializes writers within this process; across
// processes the last writer still wins.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates the parent directory if needed and returns a
// repository bound to path. The file itself is created lazily on first write.
func NewFileRepository(path string) (*FileRepository, error) {
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("accounts dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) load() ([]*models.Account, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.Account{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	var list []*models.Account
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}
	return list, nil
}

func (r *FileRepository) save(list []*models.Account) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if strings.EqualFold(a.Username, account.Username) {
			return nil, ErrUsernameTaken
		}
		if strings.EqualFold(a.Email, account.Email) {
			return nil, ErrEmailTaken
		}
	}

	list = append(list, account)
	if err := r.save(list); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *FileRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if strings.EqualFold(a.Username, identifier) || strings.EqualFold(a.Email, identifier) {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *FileRepository) Update(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}

	for i, a := range list {
		if a.ID == account.ID {
			list[i] = account
			return r.save(list)
		}
	}
	return common.ErrorNotFound
}

func (r *FileRepository) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}
