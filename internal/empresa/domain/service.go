package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
)

type EnderecoRequest struct {
	Cep             string `json:"cep"`
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	Municipio       string `json:"municipio"`
	UF              string `json:"uf"`
}

type CreateRequest struct {
	CpfCnpj            string           `json:"cpf_cnpj"`
	NomeRazaoSocial    string           `json:"nome_razao_social"`
	NomeFantasia       string           `json:"nome_fantasia"`
	InscricaoEstadual  string           `json:"inscricao_estadual"`
	InscricaoMunicipal string           `json:"inscricao_municipal"`
	Email              string           `json:"email"`
	Telefone           string           `json:"telefone"`
	Endereco           *EnderecoRequest `json:"endereco"`
}

type UpdateRequest struct {
	NomeRazaoSocial    *string          `json:"nome_razao_social"`
	NomeFantasia       *string          `json:"nome_fantasia"`
	InscricaoEstadual  *string          `json:"inscricao_estadual"`
	InscricaoMunicipal *string          `json:"inscricao_municipal"`
	Email              *string          `json:"email"`
	Telefone           *string          `json:"telefone"`
	Ativo              *bool            `json:"ativo"`
	Endereco           *EnderecoRequest `json:"endereco"`
}

type ListRequest struct {
	Ativo *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Empresa, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Empresa, error)
	Get(ctx context.Context, id string) (Empresa, error)
	List(ctx context.Context, req ListRequest) ([]Empresa, error)
	Delete(ctx context.Context, id string) error
	ConsultarCNPJ(ctx context.Context, cnpj string) (json.RawMessage, error)
}

// Provider is the slice of the fiscal provider API the merchant flow uses.
type Provider interface {
	ConsultarCNPJ(ctx context.Context, cnpj string) (json.RawMessage, error)
	CadastrarEmpresa(ctx context.Context, payload nuvemfiscal.EmpresaPayload) (json.RawMessage, error)
	AtualizarEmpresa(ctx context.Context, cpfCnpj string, payload nuvemfiscal.EmpresaPayload) (json.RawMessage, error)
	ExcluirEmpresa(ctx context.Context, cpfCnpj string) error
}

var (
	ErrCpfCnpjInvalido    = errors.New("invalid_cpf_cnpj")
	ErrRazaoObrigatoria   = errors.New("invalid_nome_razao_social")
	ErrEnderecoIncompleto = errors.New("invalid_endereco")
	ErrIDInvalido         = errors.New("invalid_id")
	ErrJaCadastrada       = errors.New("empresa_ja_cadastrada")
	ErrNaoEncontrada      = errors.New("empresa_nao_encontrada")
)
