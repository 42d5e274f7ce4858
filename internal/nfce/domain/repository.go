package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	EmpresaID  *snowflake.ID
	Status     string
	DataInicio *time.Time
	DataFim    *time.Time
}

type Repository interface {
	// Save writes the header and its items atomically.
	Save(ctx context.Context, nfce *NFCe) error
	FindByID(ctx context.Context, id snowflake.ID) (*NFCe, error)
	FindByChave(ctx context.Context, chave string) (*NFCe, error)
	List(ctx context.Context, filter ListFilter) ([]*NFCe, error)
	Update(ctx context.Context, nfce *NFCe) error
}
