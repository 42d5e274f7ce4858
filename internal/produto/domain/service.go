package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Codigo           string  `json:"codigo"`
	Descricao        string  `json:"descricao"`
	NCM              string  `json:"ncm"`
	CFOP             string  `json:"cfop"`
	UnidadeComercial string  `json:"unidade_comercial"`
	ValorUnitario    float64 `json:"valor_unitario"`
	EAN              string  `json:"ean"`

	EANTributavel           string  `json:"ean_tributavel"`
	UnidadeTributavel       string  `json:"unidade_tributavel"`
	ValorUnitarioTributavel float64 `json:"valor_unitario_tributavel"`
}

type UpdateRequest struct {
	Descricao        *string  `json:"descricao"`
	NCM              *string  `json:"ncm"`
	CFOP             *string  `json:"cfop"`
	UnidadeComercial *string  `json:"unidade_comercial"`
	ValorUnitario    *float64 `json:"valor_unitario"`
	EAN              *string  `json:"ean"`

	EANTributavel           *string  `json:"ean_tributavel"`
	UnidadeTributavel       *string  `json:"unidade_tributavel"`
	ValorUnitarioTributavel *float64 `json:"valor_unitario_tributavel"`

	Ativo *bool `json:"ativo"`
}

type ListRequest struct {
	Ativo  *bool
	Codigo string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Produto, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Produto, error)
	Get(ctx context.Context, id string) (Produto, error)
	List(ctx context.Context, req ListRequest) ([]Produto, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrCodigoObrigatorio    = errors.New("invalid_codigo")
	ErrDescricaoObrigatoria = errors.New("invalid_descricao")
	ErrNCMInvalido          = errors.New("invalid_ncm")
	ErrCFOPInvalido         = errors.New("invalid_cfop")
	ErrEANInvalido          = errors.New("invalid_ean")
	ErrValorInvalido        = errors.New("invalid_valor_unitario")
	ErrIDInvalido           = errors.New("invalid_id")
	ErrJaCadastrado         = errors.New("produto_ja_cadastrado")
	ErrNaoEncontrado        = errors.New("produto_nao_encontrado")
)
