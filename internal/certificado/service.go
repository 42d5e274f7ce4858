package certificado

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrCertificadoObrigatorio = errors.New("certificado_obrigatorio")
	ErrCertificadoInvalido    = errors.New("certificado_invalido")
	ErrSenhaObrigatoria       = errors.New("senha_obrigatoria")
)

type EnviarRequest struct {
	Certificado string `json:"certificado"` // base64-encoded PKCS#12
	Senha       string `json:"senha"`
}

type Service interface {
	Enviar(ctx context.Context, cpfCnpj string, req EnviarRequest) (*nuvemfiscal.CertificadoInfo, error)
	Consultar(ctx context.Context, cpfCnpj string) (*nuvemfiscal.CertificadoInfo, error)
	Excluir(ctx context.Context, cpfCnpj string) error
}

// Provider is the slice of the fiscal provider API the certificate flow
// uses. Certificate bytes are never stored locally, only forwarded.
type Provider interface {
	EnviarCertificado(ctx context.Context, cpfCnpj, certificadoBase64, senha string) (*nuvemfiscal.CertificadoInfo, error)
	ConsultarCertificado(ctx context.Context, cpfCnpj string) (*nuvemfiscal.CertificadoInfo, error)
	ExcluirCertificado(ctx context.Context, cpfCnpj string) error
}

type Params struct {
	fx.In

	Log         *zap.Logger
	EmpresaRepo empresadomain.Repository
	Provider    Provider
}

type service struct {
	log         *zap.Logger
	empresaRepo empresadomain.Repository
	provider    Provider
}

func New(p Params) Service {
	return &service{
		log:         p.Log.Named("certificado.service"),
		empresaRepo: p.EmpresaRepo,
		provider:    p.Provider,
	}
}

func (s *service) Enviar(ctx context.Context, cpfCnpj string, req EnviarRequest) (*nuvemfiscal.CertificadoInfo, error) {
	empresa, err := s.resolverEmpresa(ctx, cpfCnpj)
	if err != nil {
		return nil, err
	}

	certificado := strings.TrimSpace(req.Certificado)
	if certificado == "" {
		return nil, ErrCertificadoObrigatorio
	}
	if _, err := base64.StdEncoding.DecodeString(certificado); err != nil {
		return nil, ErrCertificadoInvalido
	}
	if strings.TrimSpace(req.Senha) == "" {
		return nil, ErrSenhaObrigatoria
	}

	info, err := s.provider.EnviarCertificado(ctx, empresa.CpfCnpj, certificado, req.Senha)
	if err != nil {
		return nil, err
	}

	s.log.Info("certificado enviado ao provedor",
		zap.String("cpf_cnpj", empresa.CpfCnpj),
		zap.String("valido_ate", info.NotValidAfter),
	)
	return info, nil
}

func (s *service) Consultar(ctx context.Context, cpfCnpj string) (*nuvemfiscal.CertificadoInfo, error) {
	empresa, err := s.resolverEmpresa(ctx, cpfCnpj)
	if err != nil {
		return nil, err
	}
	return s.provider.ConsultarCertificado(ctx, empresa.CpfCnpj)
}

func (s *service) Excluir(ctx context.Context, cpfCnpj string) error {
	empresa, err := s.resolverEmpresa(ctx, cpfCnpj)
	if err != nil {
		return err
	}
	return s.provider.ExcluirCertificado(ctx, empresa.CpfCnpj)
}

// resolverEmpresa requires the merchant to be registered locally before
// any certificate operation reaches the provider.
func (s *service) resolverEmpresa(ctx context.Context, cpfCnpj string) (*empresadomain.Empresa, error) {
	digits := somenteDigitos(cpfCnpj)
	if len(digits) != 11 && len(digits) != 14 {
		return nil, empresadomain.ErrCpfCnpjInvalido
	}

	empresa, err := s.empresaRepo.FindByCpfCnpj(ctx, digits)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, empresadomain.ErrNaoEncontrada
	}
	return empresa, nil
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
