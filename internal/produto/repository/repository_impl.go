package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/produto/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, produto *domain.Produto) error {
	return r.db.WithContext(ctx).Save(produto).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Produto, error) {
	var produto domain.Produto
	err := r.db.WithContext(ctx).First(&produto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &produto, nil
}

func (r *repository) FindByCodigo(ctx context.Context, codigo string) (*domain.Produto, error) {
	var produto domain.Produto
	err := r.db.WithContext(ctx).First(&produto, "codigo = ?", codigo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &produto, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Produto, error) {
	tx := r.db.WithContext(ctx).Order("codigo ASC")
	if filter.Ativo != nil {
		tx = tx.Where("ativo = ?", *filter.Ativo)
	}
	if filter.Codigo != "" {
		tx = tx.Where("codigo = ?", filter.Codigo)
	}

	var produtos []*domain.Produto
	if err := tx.Find(&produtos).Error; err != nil {
		return nil, err
	}
	return produtos, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Produto{}, "id = ?", id).Error
}
