package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/config"
	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nfce/builder"
	"github.com/junior875/nfcePt2/internal/nfce/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"github.com/junior875/nfcePt2/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	EmpresaRepo empresadomain.Repository
	Provider    domain.Provider
	Builder     *builder.Builder
	Limiter     domain.EmissaoLimiter `optional:"true"`
	Metrics     *metrics.HTTPMetrics  `optional:"true"`
}

// Service orchestrates issuance: validate, resolve the merchant, build the
// document, submit it and mirror the accepted result locally.
type Service struct {
	cfg         config.Config
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	empresaRepo empresadomain.Repository
	provider    domain.Provider
	builder     *builder.Builder
	limiter     domain.EmissaoLimiter
	metrics     *metrics.HTTPMetrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:         p.Cfg,
		log:         p.Log.Named("nfce.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		empresaRepo: p.EmpresaRepo,
		provider:    p.Provider,
		builder:     p.Builder,
		limiter:     p.Limiter,
		metrics:     p.Metrics,
	}
}

func (s *Service) Emitir(ctx context.Context, req domain.EmitirRequest) (*nuvemfiscal.DfeResposta, error) {
	if err := validarEmissao(req); err != nil {
		return nil, err
	}

	cnpj := somenteDigitos(req.EmpresaCnpj)
	empresa, err := s.empresaRepo.FindByCpfCnpj(ctx, cnpj)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, fmt.Errorf("%w: empresa com CNPJ %s não encontrada no sistema, cadastre a empresa antes de emitir notas fiscais",
			empresadomain.ErrNaoEncontrada, req.EmpresaCnpj)
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, cnpj); err != nil {
			return nil, err
		}
	}

	itens := make([]nuvemfiscal.Det, 0, len(req.Produtos))
	for _, produto := range req.Produtos {
		det, err := s.builder.NovoItem(builder.ItemInput{
			Codigo:        produto.Codigo,
			Descricao:     produto.Descricao,
			NCM:           produto.NCM,
			Quantidade:    produto.Quantidade,
			ValorUnitario: produto.ValorUnitario,
		})
		if err != nil {
			return nil, err
		}
		itens = append(itens, det)
	}

	var cpf, nome string
	if req.Cliente != nil {
		cpf, nome = req.Cliente.Cpf, req.Cliente.Nome
	}
	dest := s.builder.NovoDestinatario(cpf, nome)

	var valorTotal float64
	for _, det := range itens {
		valorTotal += det.Prod.VProd
	}

	forma := "dinheiro"
	var valorRecebido float64
	if req.Pagamento != nil {
		if strings.TrimSpace(req.Pagamento.Forma) != "" {
			forma = req.Pagamento.Forma
		}
		valorRecebido = req.Pagamento.ValorRecebido
	}
	pag := s.builder.NovoPagamento(valorTotal, forma, valorRecebido)

	pedido, err := s.builder.NovoPedido(*empresa, itens, dest, pag, s.cfg.AmbienteEmissao)
	if err != nil {
		return nil, err
	}

	resposta, err := s.provider.EmitirNFCe(ctx, pedido)
	if err != nil {
		s.metrics.RecordEmissao("erro")
		return nil, err
	}
	if resposta == nil || resposta.ID == "" {
		s.metrics.RecordEmissao("erro")
		return nil, &nuvemfiscal.APIError{
			StatusCode: 502,
			Mensagem:   "falha na emissão da NFC-e, resposta vazia do provedor",
		}
	}
	s.metrics.RecordEmissao(resultadoEmissao(resposta.Status))

	// The provider already accepted the document; a local write failure
	// must not turn the issuance into a caller-visible error.
	if err := s.persistir(ctx, resposta, empresa.ID, pedido); err != nil {
		s.log.Error("falha ao gravar espelho local da NFC-e",
			zap.String("nuvem_fiscal_id", resposta.ID),
			zap.String("chave", resposta.Chave),
			zap.Error(err),
		)
	}

	return resposta, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.NFCe, error) {
	nfce, err := s.findByID(ctx, id)
	if err != nil {
		return domain.NFCe{}, err
	}
	return *nfce, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.NFCe, error) {
	filter := domain.ListFilter{Status: strings.TrimSpace(req.Status)}

	if value := strings.TrimSpace(req.EmpresaID); value != "" {
		id, err := snowflake.ParseString(value)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: empresa_id", domain.ErrFiltroInvalido)
		}
		filter.EmpresaID = &id
	}
	if value := strings.TrimSpace(req.DataInicio); value != "" {
		inicio, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, fmt.Errorf("%w: data_inicio", domain.ErrFiltroInvalido)
		}
		filter.DataInicio = &inicio
	}
	if value := strings.TrimSpace(req.DataFim); value != "" {
		fim, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, fmt.Errorf("%w: data_fim", domain.ErrFiltroInvalido)
		}
		fim = fim.Add(24 * time.Hour) // inclusive end date
		filter.DataFim = &fim
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	nfces := make([]domain.NFCe, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		nfces = append(nfces, *item)
	}
	return nfces, nil
}

func (s *Service) Cancelar(ctx context.Context, id, justificativa string) (*nuvemfiscal.DfeCancelamento, error) {
	justificativa = strings.TrimSpace(justificativa)
	if len(justificativa) < 15 {
		return nil, fmt.Errorf("%w: mínimo de 15 caracteres", domain.ErrJustificativaObrigatoria)
	}

	nfce, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelamento, err := s.provider.CancelarNFCe(ctx, nfce.NuvemFiscalID, justificativa)
	if err != nil {
		return nil, err
	}

	nfce.Status = "cancelado"
	nfce.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, nfce); err != nil {
		s.log.Error("falha ao atualizar status local após cancelamento",
			zap.String("nuvem_fiscal_id", nfce.NuvemFiscalID),
			zap.Error(err),
		)
	}

	return cancelamento, nil
}

// findByID accepts either a local snowflake ID or a 44-digit access key.
func (s *Service) findByID(ctx context.Context, value string) (*domain.NFCe, error) {
	value = strings.TrimSpace(value)

	if len(value) == 44 && somenteDigitos(value) == value {
		nfce, err := s.repo.FindByChave(ctx, value)
		if err != nil {
			return nil, err
		}
		if nfce == nil {
			return nil, domain.ErrNaoEncontrada
		}
		return nfce, nil
	}

	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, domain.ErrIDInvalido
	}

	nfce, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if nfce == nil {
		return nil, domain.ErrNaoEncontrada
	}
	return nfce, nil
}

func (s *Service) persistir(ctx context.Context, resposta *nuvemfiscal.DfeResposta, empresaID snowflake.ID, pedido nuvemfiscal.DfePedidoEmissao) error {
	payloadJSON, err := json.Marshal(pedido)
	if err != nil {
		return err
	}
	respostaJSON, err := json.Marshal(resposta)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	nfce := domain.NFCe{
		ID:               s.genID.Generate(),
		NuvemFiscalID:    resposta.ID,
		EmpresaID:        empresaID,
		Ambiente:         resposta.Ambiente,
		Status:           resposta.Status,
		DataEmissao:      resposta.DataEmissao,
		Serie:            resposta.Serie,
		Numero:           resposta.Numero,
		ValorTotal:       resposta.ValorTotal,
		Chave:            resposta.Chave,
		PayloadEnviado:   datatypes.JSON(payloadJSON),
		RespostaCompleta: datatypes.JSON(respostaJSON),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if resposta.Autorizacao != nil {
		nfce.AutorizacaoID = resposta.Autorizacao.ID
		nfce.AutorizacaoStatus = resposta.Autorizacao.Status
		nfce.AutorizacaoDataEvento = resposta.Autorizacao.DataEvento
		nfce.AutorizacaoNumeroProtocolo = resposta.Autorizacao.NumeroProtocolo
		nfce.AutorizacaoCodigoStatus = resposta.Autorizacao.CodigoStatus
		nfce.AutorizacaoMotivoStatus = resposta.Autorizacao.MotivoStatus
	}

	for _, det := range pedido.InfNFe.Det {
		nfce.Itens = append(nfce.Itens, domain.ItemNFCe{
			ID:            s.genID.Generate(),
			NFCeID:        nfce.ID,
			NItem:         det.NItem,
			Codigo:        det.Prod.CProd,
			Descricao:     det.Prod.XProd,
			NCM:           det.Prod.NCM,
			CFOP:          det.Prod.CFOP,
			Unidade:       det.Prod.UCom,
			Quantidade:    det.Prod.QCom,
			ValorUnitario: det.Prod.VUnCom,
			ValorTotal:    det.Prod.VProd,
			ICMSCsosn:     det.Imposto.ICMS.ICMSSN102.CSOSN,
			PISCst:        det.Imposto.PIS.PISAliq.CST,
			PISValor:      det.Imposto.PIS.PISAliq.VPIS,
			COFINSCst:     det.Imposto.COFINS.COFINSAliq.CST,
			COFINSValor:   det.Imposto.COFINS.COFINSAliq.VCOFINS,
		})
	}

	return s.repo.Save(ctx, &nfce)
}

// validarEmissao is fail-fast: the first missing field ends validation.
func validarEmissao(req domain.EmitirRequest) error {
	if strings.TrimSpace(req.EmpresaCnpj) == "" {
		return fmt.Errorf("%w: CNPJ da empresa é obrigatório", domain.ErrCnpjObrigatorio)
	}
	if len(req.Produtos) == 0 {
		return fmt.Errorf("%w: pelo menos um produto é obrigatório", domain.ErrSemProdutos)
	}
	for i, produto := range req.Produtos {
		switch {
		case strings.TrimSpace(produto.Codigo) == "":
			return fmt.Errorf("%w: código do produto %d é obrigatório", domain.ErrProdutoInvalido, i+1)
		case strings.TrimSpace(produto.Descricao) == "":
			return fmt.Errorf("%w: descrição do produto %d é obrigatória", domain.ErrProdutoInvalido, i+1)
		case strings.TrimSpace(produto.NCM) == "":
			return fmt.Errorf("%w: NCM do produto %d é obrigatório", domain.ErrProdutoInvalido, i+1)
		case produto.Quantidade == 0:
			return fmt.Errorf("%w: quantidade do produto %d é obrigatória", domain.ErrProdutoInvalido, i+1)
		case produto.ValorUnitario == 0:
			return fmt.Errorf("%w: valor unitário do produto %d é obrigatório", domain.ErrProdutoInvalido, i+1)
		}
	}
	return nil
}

func resultadoEmissao(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "autorizado", "autorizada":
		return "autorizada"
	case "rejeitado", "rejeitada", "denegado":
		return "rejeitada"
	default:
		return "pendente"
	}
}

func somenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
