package repository

import (
	"go-supply-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	ReplacePrivileges(user *model.User, privileges []model.Privilege) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return translateDBError(r.db.Create(user).Error)
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Privileges").First(&user, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Privileges").First(&user, "email = ?", email).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

func (r *userRepo) Update(user *model.User) error {
	return translateDBError(r.db.Save(user).Error)
}

func (r *userRepo) ReplacePrivileges(user *model.User, privileges []model.Privilege) error {
	return translateDBError(r.db.Model(user).Association("Privileges").Replace(privileges))
}
