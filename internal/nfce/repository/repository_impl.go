package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/nfce/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, nfce *domain.NFCe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(nfce).Error
	})
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.NFCe, error) {
	var nfce domain.NFCe
	err := r.db.WithContext(ctx).
		Preload("Itens", func(tx *gorm.DB) *gorm.DB { return tx.Order("n_item ASC") }).
		First(&nfce, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nfce, nil
}

func (r *repository) FindByChave(ctx context.Context, chave string) (*domain.NFCe, error) {
	var nfce domain.NFCe
	err := r.db.WithContext(ctx).
		Preload("Itens", func(tx *gorm.DB) *gorm.DB { return tx.Order("n_item ASC") }).
		First(&nfce, "chave = ?", chave).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nfce, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.NFCe, error) {
	tx := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.EmpresaID != nil {
		tx = tx.Where("empresa_id = ?", *filter.EmpresaID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.DataInicio != nil {
		tx = tx.Where("created_at >= ?", *filter.DataInicio)
	}
	if filter.DataFim != nil {
		tx = tx.Where("created_at < ?", *filter.DataFim)
	}

	var nfces []*domain.NFCe
	if err := tx.Find(&nfces).Error; err != nil {
		return nil, err
	}
	return nfces, nil
}

func (r *repository) Update(ctx context.Context, nfce *domain.NFCe) error {
	return r.db.WithContext(ctx).
		Omit("Itens").
		Save(nfce).Error
}
