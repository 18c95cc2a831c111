package repository

import (
	"context"

	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LojaRepository interface {
	Create(ctx context.Context, l *model.Loja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loja, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Loja, error)
	List(ctx context.Context) ([]model.Loja, error)
	Update(ctx context.Context, l *model.Loja) error
}

type lojaRepo struct{ db *gorm.DB }

func NewLojaRepository(db *gorm.DB) LojaRepository { return &lojaRepo{db: db} }

func (r *lojaRepo) Create(ctx context.Context, l *model.Loja) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lojaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Loja, error) {
	var l model.Loja
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lojaRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Loja, error) {
	var l model.Loja
	err := r.db.WithContext(ctx).First(&l, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lojaRepo) List(ctx context.Context) ([]model.Loja, error) {
	var lojas []model.Loja
	err := r.db.WithContext(ctx).Where("ativa = true").Order("codigo ASC").Find(&lojas).Error
	return lojas, err
}

func (r *lojaRepo) Update(ctx context.Context, l *model.Loja) error {
	return r.db.WithContext(ctx).Save(l).Error
}
