package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	Ativo  *bool
	Codigo string
}

type Repository interface {
	Save(ctx context.Context, produto *Produto) error
	FindByID(ctx context.Context, id snowflake.ID) (*Produto, error)
	FindByCodigo(ctx context.Context, codigo string) (*Produto, error)
	List(ctx context.Context, filter ListFilter) ([]*Produto, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
