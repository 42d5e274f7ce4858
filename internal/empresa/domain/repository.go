package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	Ativo *bool
}

type Repository interface {
	Save(ctx context.Context, empresa *Empresa) error
	FindByID(ctx context.Context, id snowflake.ID) (*Empresa, error)
	FindByCpfCnpj(ctx context.Context, cpfCnpj string) (*Empresa, error)
	List(ctx context.Context, filter ListFilter) ([]*Empresa, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
