package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"github.com/junior875/nfcePt2/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Provider domain.Provider
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	provider domain.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("empresa.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		provider: p.Provider,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Empresa, error) {
	cpfCnpj := somenteDigitos(req.CpfCnpj)
	if len(cpfCnpj) != 11 && len(cpfCnpj) != 14 {
		return domain.Empresa{}, domain.ErrCpfCnpjInvalido
	}

	razao := strings.TrimSpace(req.NomeRazaoSocial)
	if razao == "" {
		return domain.Empresa{}, domain.ErrRazaoObrigatoria
	}

	endereco, err := s.buildEndereco(req.Endereco)
	if err != nil {
		return domain.Empresa{}, err
	}

	existing, err := s.repo.FindByCpfCnpj(ctx, cpfCnpj)
	if err != nil {
		return domain.Empresa{}, err
	}
	if existing != nil {
		return domain.Empresa{}, domain.ErrJaCadastrada
	}

	now := time.Now().UTC()
	empresa := domain.Empresa{
		ID:                 s.genID.Generate(),
		CpfCnpj:            cpfCnpj,
		NomeRazaoSocial:    razao,
		NomeFantasia:       strings.TrimSpace(req.NomeFantasia),
		InscricaoEstadual:  strings.TrimSpace(req.InscricaoEstadual),
		InscricaoMunicipal: strings.TrimSpace(req.InscricaoMunicipal),
		Email:              strings.TrimSpace(req.Email),
		Telefone:           somenteDigitos(req.Telefone),
		Ativo:              true,
		Endereco:           endereco,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	empresa.Endereco.ID = s.genID.Generate()
	empresa.Endereco.EmpresaID = empresa.ID

	if _, err := s.provider.CadastrarEmpresa(ctx, toPayload(empresa)); err != nil {
		return domain.Empresa{}, err
	}

	if err := s.repo.Save(ctx, &empresa); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Empresa{}, domain.ErrJaCadastrada
		}
		return domain.Empresa{}, err
	}

	return empresa, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Empresa, error) {
	empresa, err := s.findByID(ctx, id)
	if err != nil {
		return domain.Empresa{}, err
	}

	if req.NomeRazaoSocial != nil {
		razao := strings.TrimSpace(*req.NomeRazaoSocial)
		if razao == "" {
			return domain.Empresa{}, domain.ErrRazaoObrigatoria
		}
		empresa.NomeRazaoSocial = razao
	}
	if req.NomeFantasia != nil {
		empresa.NomeFantasia = strings.TrimSpace(*req.NomeFantasia)
	}
	if req.InscricaoEstadual != nil {
		empresa.InscricaoEstadual = strings.TrimSpace(*req.InscricaoEstadual)
	}
	if req.InscricaoMunicipal != nil {
		empresa.InscricaoMunicipal = strings.TrimSpace(*req.InscricaoMunicipal)
	}
	if req.Email != nil {
		empresa.Email = strings.TrimSpace(*req.Email)
	}
	if req.Telefone != nil {
		empresa.Telefone = somenteDigitos(*req.Telefone)
	}
	if req.Ativo != nil {
		empresa.Ativo = *req.Ativo
	}
	if req.Endereco != nil {
		endereco, err := s.buildEndereco(req.Endereco)
		if err != nil {
			return domain.Empresa{}, err
		}
		endereco.EmpresaID = empresa.ID
		if empresa.Endereco != nil {
			endereco.ID = empresa.Endereco.ID
		} else {
			endereco.ID = s.genID.Generate()
		}
		empresa.Endereco = endereco
	}
	empresa.UpdatedAt = time.Now().UTC()

	if _, err := s.provider.AtualizarEmpresa(ctx, empresa.CpfCnpj, toPayload(*empresa)); err != nil {
		return domain.Empresa{}, err
	}

	if err := s.repo.Save(ctx, empresa); err != nil {
		return domain.Empresa{}, err
	}

	return *empresa, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Empresa, error) {
	empresa, err := s.findByID(ctx, id)
	if err != nil {
		return domain.Empresa{}, err
	}
	return *empresa, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Empresa, error) {
	items, err := s.repo.List(ctx, domain.ListFilter{Ativo: req.Ativo})
	if err != nil {
		return nil, err
	}

	empresas := make([]domain.Empresa, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		empresas = append(empresas, *item)
	}
	return empresas, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	empresa, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.provider.ExcluirEmpresa(ctx, empresa.CpfCnpj); err != nil {
		return err
	}

	return s.repo.Delete(ctx, empresa.ID)
}

func (s *Service) ConsultarCNPJ(ctx context.Context, cnpj string) (json.RawMessage, error) {
	digits := somenteDigitos(cnpj)
	if len(digits) != 14 {
		return nil, domain.ErrCpfCnpjInvalido
	}
	return s.provider.ConsultarCNPJ(ctx, digits)
}

func (s *Service) findByID(ctx context.Context, value string) (*domain.Empresa, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return nil, domain.ErrIDInvalido
	}

	empresa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, domain.ErrNaoEncontrada
	}
	return empresa, nil
}

func (s *Service) buildEndereco(req *domain.EnderecoRequest) (*domain.Endereco, error) {
	if req == nil {
		return nil, domain.ErrEnderecoIncompleto
	}

	endereco := &domain.Endereco{
		Cep:             somenteDigitos(req.Cep),
		Logradouro:      strings.TrimSpace(req.Logradouro),
		Numero:          strings.TrimSpace(req.Numero),
		Complemento:     strings.TrimSpace(req.Complemento),
		Bairro:          strings.TrimSpace(req.Bairro),
		CodigoMunicipio: somenteDigitos(req.CodigoMunicipio),
		Municipio:       strings.TrimSpace(req.Municipio),
		UF:              strings.ToUpper(strings.TrimSpace(req.UF)),
	}

	if endereco.Logradouro == "" || endereco.Numero == "" || endereco.Bairro == "" ||
		endereco.Municipio == "" || len(endereco.UF) != 2 || len(endereco.CodigoMunicipio) != 7 {
		return nil, domain.ErrEnderecoIncompleto
	}
	return endereco, nil
}

func toPayload(empresa domain.Empresa) nuvemfiscal.EmpresaPayload {
	payload := nuvemfiscal.EmpresaPayload{
		CpfCnpj:            empresa.CpfCnpj,
		NomeRazaoSocial:    empresa.NomeRazaoSocial,
		NomeFantasia:       empresa.NomeFantasia,
		InscricaoEstadual:  empresa.InscricaoEstadual,
		InscricaoMunicipal: empresa.InscricaoMunicipal,
		Email:              empresa.Email,
		Fone:               empresa.Telefone,
	}
	if empresa.Endereco != nil {
		payload.Endereco = nuvemfiscal.EnderecoPayload{
			CEP:             empresa.Endereco.Cep,
			Logradouro:      empresa.Endereco.Logradouro,
			Numero:          empresa.Endereco.Numero,
			Complemento:     empresa.Endereco.Complemento,
			Bairro:          empresa.Endereco.Bairro,
			CodigoMunicipio: empresa.Endereco.CodigoMunicipio,
			CidadeNome:      empresa.Endereco.Municipio,
			UF:              empresa.Endereco.UF,
		}
	}
	return payload
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
