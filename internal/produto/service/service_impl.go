package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/produto/domain"
	"github.com/junior875/nfcePt2/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("produto.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Produto, error) {
	codigo := strings.TrimSpace(req.Codigo)
	if codigo == "" || len(codigo) > 60 {
		return domain.Produto{}, domain.ErrCodigoObrigatorio
	}

	descricao := strings.TrimSpace(req.Descricao)
	if descricao == "" || len(descricao) > 120 {
		return domain.Produto{}, domain.ErrDescricaoObrigatoria
	}

	ncm := strings.TrimSpace(req.NCM)
	if !soDigitos(ncm) || len(ncm) != 8 {
		return domain.Produto{}, domain.ErrNCMInvalido
	}

	cfop := strings.TrimSpace(req.CFOP)
	if !soDigitos(cfop) || len(cfop) != 4 {
		return domain.Produto{}, domain.ErrCFOPInvalido
	}

	ean := strings.TrimSpace(req.EAN)
	if !eanValido(ean) {
		return domain.Produto{}, domain.ErrEANInvalido
	}

	if req.ValorUnitario < 0 {
		return domain.Produto{}, domain.ErrValorInvalido
	}

	unidade := strings.ToUpper(strings.TrimSpace(req.UnidadeComercial))
	if unidade == "" {
		unidade = "UN"
	}

	eanTrib := strings.TrimSpace(req.EANTributavel)
	if !eanValido(eanTrib) {
		return domain.Produto{}, domain.ErrEANInvalido
	}
	if req.ValorUnitarioTributavel < 0 {
		return domain.Produto{}, domain.ErrValorInvalido
	}

	existing, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return domain.Produto{}, err
	}
	if existing != nil {
		return domain.Produto{}, domain.ErrJaCadastrado
	}

	now := time.Now().UTC()
	produto := domain.Produto{
		ID:               s.genID.Generate(),
		Codigo:           codigo,
		Descricao:        descricao,
		NCM:              ncm,
		CFOP:             cfop,
		UnidadeComercial: unidade,
		ValorUnitario:    req.ValorUnitario,
		EAN:              ean,

		EANTributavel:           eanTrib,
		UnidadeTributavel:       strings.ToUpper(strings.TrimSpace(req.UnidadeTributavel)),
		ValorUnitarioTributavel: req.ValorUnitarioTributavel,

		Ativo:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, &produto); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Produto{}, domain.ErrJaCadastrado
		}
		return domain.Produto{}, err
	}

	return produto, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Produto, error) {
	produto, err := s.findByID(ctx, id)
	if err != nil {
		return domain.Produto{}, err
	}

	if req.Descricao != nil {
		descricao := strings.TrimSpace(*req.Descricao)
		if descricao == "" || len(descricao) > 120 {
			return domain.Produto{}, domain.ErrDescricaoObrigatoria
		}
		produto.Descricao = descricao
	}
	if req.NCM != nil {
		ncm := strings.TrimSpace(*req.NCM)
		if !soDigitos(ncm) || len(ncm) != 8 {
			return domain.Produto{}, domain.ErrNCMInvalido
		}
		produto.NCM = ncm
	}
	if req.CFOP != nil {
		cfop := strings.TrimSpace(*req.CFOP)
		if !soDigitos(cfop) || len(cfop) != 4 {
			return domain.Produto{}, domain.ErrCFOPInvalido
		}
		produto.CFOP = cfop
	}
	if req.UnidadeComercial != nil {
		unidade := strings.ToUpper(strings.TrimSpace(*req.UnidadeComercial))
		if unidade == "" {
			unidade = "UN"
		}
		produto.UnidadeComercial = unidade
	}
	if req.ValorUnitario != nil {
		if *req.ValorUnitario < 0 {
			return domain.Produto{}, domain.ErrValorInvalido
		}
		produto.ValorUnitario = *req.ValorUnitario
	}
	if req.EAN != nil {
		ean := strings.TrimSpace(*req.EAN)
		if !eanValido(ean) {
			return domain.Produto{}, domain.ErrEANInvalido
		}
		produto.EAN = ean
	}
	if req.EANTributavel != nil {
		eanTrib := strings.TrimSpace(*req.EANTributavel)
		if !eanValido(eanTrib) {
			return domain.Produto{}, domain.ErrEANInvalido
		}
		produto.EANTributavel = eanTrib
	}
	if req.UnidadeTributavel != nil {
		produto.UnidadeTributavel = strings.ToUpper(strings.TrimSpace(*req.UnidadeTributavel))
	}
	if req.ValorUnitarioTributavel != nil {
		if *req.ValorUnitarioTributavel < 0 {
			return domain.Produto{}, domain.ErrValorInvalido
		}
		produto.ValorUnitarioTributavel = *req.ValorUnitarioTributavel
	}
	if req.Ativo != nil {
		produto.Ativo = *req.Ativo
	}
	produto.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, produto); err != nil {
		return domain.Produto{}, err
	}

	return *produto, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Produto, error) {
	produto, err := s.findByID(ctx, id)
	if err != nil {
		return domain.Produto{}, err
	}
	return *produto, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Produto, error) {
	items, err := s.repo.List(ctx, domain.ListFilter{
		Ativo:  req.Ativo,
		Codigo: strings.TrimSpace(req.Codigo),
	})
	if err != nil {
		return nil, err
	}

	produtos := make([]domain.Produto, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		produtos = append(produtos, *item)
	}
	return produtos, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	produto, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, produto.ID)
}

func (s *Service) findByID(ctx context.Context, value string) (*domain.Produto, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return nil, domain.ErrIDInvalido
	}

	produto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if produto == nil {
		return nil, domain.ErrNaoEncontrado
	}
	return produto, nil
}

func soDigitos(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GTIN-8, UPC-A, EAN-13 and GTIN-14 lengths; empty means no barcode.
func eanValido(ean string) bool {
	if ean == "" {
		return true
	}
	if !soDigitos(ean) {
		return false
	}
	switch len(ean) {
	case 8, 12, 13, 14:
		return true
	}
	return false
}
