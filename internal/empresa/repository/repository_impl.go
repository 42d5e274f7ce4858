package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/empresa/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, empresa *domain.Empresa) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(empresa).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Empresa, error) {
	var empresa domain.Empresa
	err := r.db.WithContext(ctx).
		Preload("Endereco").
		First(&empresa, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &empresa, nil
}

func (r *repository) FindByCpfCnpj(ctx context.Context, cpfCnpj string) (*domain.Empresa, error) {
	var empresa domain.Empresa
	err := r.db.WithContext(ctx).
		Preload("Endereco").
		First(&empresa, "cpf_cnpj = ?", cpfCnpj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &empresa, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Empresa, error) {
	tx := r.db.WithContext(ctx).Preload("Endereco").Order("created_at DESC")
	if filter.Ativo != nil {
		tx = tx.Where("ativo = ?", *filter.Ativo)
	}

	var empresas []*domain.Empresa
	if err := tx.Find(&empresas).Error; err != nil {
		return nil, err
	}
	return empresas, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("empresa_id = ?", id).Delete(&domain.Endereco{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Empresa{}, "id = ?", id).Error
	})
}
