package danfe

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service renders the DANFE NFC-e, the consumer-facing auxiliary document
// for an authorized invoice. It is a local convenience rendering; the XML
// held by the provider remains the fiscal document.
type Service interface {
	Gerar(ctx context.Context, id string) ([]byte, error)
}

type Params struct {
	fx.In

	Log         *zap.Logger
	NFCe        nfcedomain.Service
	EmpresaRepo empresadomain.Repository
}

type service struct {
	log         *zap.Logger
	nfce        nfcedomain.Service
	empresaRepo empresadomain.Repository
}

func New(p Params) Service {
	return &service{
		log:         p.Log.Named("danfe.service"),
		nfce:        p.NFCe,
		empresaRepo: p.EmpresaRepo,
	}
}

func (s *service) Gerar(ctx context.Context, id string) ([]byte, error) {
	nfce, err := s.nfce.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	empresa, err := s.empresaRepo.FindByID(ctx, nfce.EmpresaID)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, empresadomain.ErrNaoEncontrada
	}

	return render(*empresa, nfce)
}

func render(empresa empresadomain.Empresa, nfce nfcedomain.NFCe) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	m.AddRow(8,
		text.NewCol(12, empresa.NomeRazaoSocial, props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(10, col.New(12).Add(
		text.New("CNPJ: "+formatarCnpj(empresa.CpfCnpj), props.Text{Size: 8, Align: align.Center}),
		text.New(linhaEndereco(empresa.Endereco), props.Text{Size: 8, Top: 4, Align: align.Center}),
	))
	m.AddRow(8,
		text.NewCol(12, "DANFE NFC-e - Documento Auxiliar da Nota Fiscal de Consumidor Eletrônica", props.Text{
			Size:  8,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(6,
		text.NewCol(6, "Código  Descrição", props.Text{Size: 7, Style: fontstyle.Bold}),
		text.NewCol(2, "Qtde", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Vl. Unit.", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Vl. Total", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range nfce.Itens {
		m.AddRow(5,
			text.NewCol(6, fmt.Sprintf("%s  %s", item.Codigo, item.Descricao), props.Text{Size: 7}),
			text.NewCol(2, formatarQtde(item.Quantidade), props.Text{Size: 7, Align: align.Right}),
			text.NewCol(2, formatarValor(item.ValorUnitario), props.Text{Size: 7, Align: align.Right}),
			text.NewCol(2, formatarValor(item.ValorTotal), props.Text{Size: 7, Align: align.Right}),
		)
	}

	m.AddRow(8,
		text.NewCol(8, fmt.Sprintf("Qtde. total de itens: %d", len(nfce.Itens)), props.Text{Size: 8, Top: 2}),
		text.NewCol(4, "VALOR TOTAL R$ "+formatarValor(nfce.ValorTotal), props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   2,
		}),
	)

	m.AddRow(10, col.New(12).Add(
		text.New("Consulte pela chave de acesso em www.nfce.fazenda.gov.br", props.Text{Size: 7, Align: align.Center}),
		text.New(formatarChave(nfce.Chave), props.Text{Size: 7, Top: 4, Align: align.Center}),
	))

	if nfce.Chave != "" {
		m.AddRow(35, code.NewQrCol(12, nfce.Chave, props.Rect{
			Center:  true,
			Percent: 90,
		}))
	}

	if nfce.AutorizacaoNumeroProtocolo != "" {
		m.AddRow(6,
			text.NewCol(12, fmt.Sprintf("Protocolo de autorização: %s  %s",
				nfce.AutorizacaoNumeroProtocolo, nfce.AutorizacaoDataEvento), props.Text{
				Size:  7,
				Align: align.Center,
			}),
		)
	}
	if strings.EqualFold(nfce.Ambiente, "homologacao") {
		m.AddRow(6,
			text.NewCol(12, "EMITIDA EM AMBIENTE DE HOMOLOGAÇÃO - SEM VALOR FISCAL", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func linhaEndereco(endereco *empresadomain.Endereco) string {
	if endereco == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s - %s, %s/%s",
		endereco.Logradouro, endereco.Numero, endereco.Bairro, endereco.Municipio, endereco.UF)
}

func formatarValor(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

func formatarQtde(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	return strings.Replace(s, ".", ",", 1)
}

// formatarChave groups the 44 digits in blocks of four for readability.
func formatarChave(chave string) string {
	if len(chave) != 44 {
		return chave
	}
	var b strings.Builder
	for i := 0; i < 44; i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(chave[i : i+4])
	}
	return b.String()
}

func formatarCnpj(cnpj string) string {
	if len(cnpj) != 14 {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", cnpj[0:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:14])
}
