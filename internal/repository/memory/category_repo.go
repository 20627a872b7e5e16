package memory

import (
	"sort"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
)

type categoryRepo struct {
	store *Store
}

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(category *model.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.categories {
		if existing.Name == category.Name {
			return apperr.ErrConflict
		}
	}
	r.store.stamp(&category.BaseModel)
	cp := *category
	r.store.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []model.Category
	for _, c := range r.store.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *c
	return &cp, nil
}
