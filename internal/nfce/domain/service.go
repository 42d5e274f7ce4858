package domain

import (
	"context"
	"errors"

	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
)

type ClienteRequest struct {
	Cpf  string `json:"cpf"`
	Nome string `json:"nome"`
}

type PagamentoRequest struct {
	Forma         string  `json:"forma"`
	ValorRecebido float64 `json:"valor_recebido"`
}

type ProdutoRequest struct {
	Codigo        string  `json:"codigo"`
	Descricao     string  `json:"descricao"`
	NCM           string  `json:"ncm"`
	Quantidade    float64 `json:"quantidade"`
	ValorUnitario float64 `json:"valor_unitario"`
}

type EmitirRequest struct {
	EmpresaCnpj string            `json:"empresa_cnpj"`
	Cliente     *ClienteRequest   `json:"cliente"`
	Pagamento   *PagamentoRequest `json:"pagamento"`
	Produtos    []ProdutoRequest  `json:"produtos"`
}

type ListRequest struct {
	EmpresaID  string
	Status     string
	DataInicio string // YYYY-MM-DD
	DataFim    string // YYYY-MM-DD
}

type Service interface {
	Emitir(ctx context.Context, req EmitirRequest) (*nuvemfiscal.DfeResposta, error)
	Get(ctx context.Context, id string) (NFCe, error)
	List(ctx context.Context, req ListRequest) ([]NFCe, error)
	Cancelar(ctx context.Context, id, justificativa string) (*nuvemfiscal.DfeCancelamento, error)
}

// Provider is the slice of the fiscal provider API the issuance flow uses.
type Provider interface {
	EmitirNFCe(ctx context.Context, pedido nuvemfiscal.DfePedidoEmissao) (*nuvemfiscal.DfeResposta, error)
	CancelarNFCe(ctx context.Context, id, justificativa string) (*nuvemfiscal.DfeCancelamento, error)
}

// EmissaoLimiter throttles issuance per merchant tax ID. Implementations
// must return ErrLimiteEmissao when the budget is exhausted.
type EmissaoLimiter interface {
	Allow(ctx context.Context, cnpj string) error
}

var (
	ErrCnpjObrigatorio          = errors.New("empresa_cnpj_obrigatorio")
	ErrSemProdutos              = errors.New("produtos_obrigatorios")
	ErrProdutoInvalido          = errors.New("produto_invalido")
	ErrIDInvalido               = errors.New("invalid_id")
	ErrNaoEncontrada            = errors.New("nfce_nao_encontrada")
	ErrJustificativaObrigatoria = errors.New("justificativa_obrigatoria")
	ErrFiltroInvalido           = errors.New("invalid_filtro")
	ErrLimiteEmissao            = errors.New("limite_emissao_excedido")
)
