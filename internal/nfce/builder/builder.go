package builder

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
)

// Fixed Simples Nacional rates applied to every line item.
const (
	aliquotaPIS    = 0.0165
	aliquotaCOFINS = 0.076
)

const (
	semGTIN          = "SEM GTIN"
	consumidorFinal  = "Consumidor Final"
	naturezaOperacao = "Venda de Mercadoria"
)

var (
	ErrQuantidadeInvalida = errors.New("invalid_quantidade")
	ErrValorInvalido      = errors.New("invalid_valor_unitario")
	ErrNCMInvalido        = errors.New("invalid_ncm")
	ErrCFOPInvalido       = errors.New("invalid_cfop")
	ErrSemEndereco        = errors.New("empresa_sem_endereco")
	ErrSemItens           = errors.New("pedido_sem_itens")
)

// Payment method names accepted on the wire, mapped to SEFAZ tPag codes.
// Unknown methods fall back to cash.
var formasPagamento = map[string]string{
	"dinheiro": "01",
	"cheque":   "02",
	"credito":  "03",
	"debito":   "04",
	"pix":      "17",
}

type ItemInput struct {
	Codigo        string
	Descricao     string
	NCM           string
	CFOP          string // defaults to 5102, in-state sale
	Unidade       string // defaults to UN
	Quantidade    float64
	ValorUnitario float64
	EAN           string
}

// Builder assembles provider-ready NFC-e documents. It performs no I/O;
// clock and number generation are injectable for deterministic tests.
type Builder struct {
	now   func() time.Time
	serie int
	cNF   func() int
	nNF   func() int
}

func New() *Builder {
	return &Builder{
		now:   func() time.Time { return time.Now().UTC() },
		serie: 1,
		cNF:   func() int { return rand.IntN(90000000) + 10000000 },
		nNF:   func() int { return rand.IntN(999999) + 1 },
	}
}

// NovoItem builds one det entry with line total and Simples Nacional
// PIS/COFINS values. ICMS is always ICMSSN102 (CSOSN 102, no ICMS due).
func (b *Builder) NovoItem(in ItemInput) (nuvemfiscal.Det, error) {
	if in.Quantidade <= 0 {
		return nuvemfiscal.Det{}, fmt.Errorf("%w: %v", ErrQuantidadeInvalida, in.Quantidade)
	}
	if in.ValorUnitario < 0 {
		return nuvemfiscal.Det{}, fmt.Errorf("%w: %v", ErrValorInvalido, in.ValorUnitario)
	}

	ncm := strings.TrimSpace(in.NCM)
	if !digitosExatos(ncm, 8) {
		return nuvemfiscal.Det{}, fmt.Errorf("%w: %q", ErrNCMInvalido, in.NCM)
	}

	cfop := strings.TrimSpace(in.CFOP)
	if cfop == "" {
		cfop = "5102"
	}
	if !digitosExatos(cfop, 4) {
		return nuvemfiscal.Det{}, fmt.Errorf("%w: %q", ErrCFOPInvalido, in.CFOP)
	}

	unidade := strings.TrimSpace(in.Unidade)
	if unidade == "" {
		unidade = "UN"
	}

	ean := strings.TrimSpace(in.EAN)
	if ean == "" {
		ean = semGTIN
	}

	vProd := round2(in.Quantidade * in.ValorUnitario)
	vPIS := round2(vProd * aliquotaPIS)
	vCOFINS := round2(vProd * aliquotaCOFINS)

	return nuvemfiscal.Det{
		Prod: nuvemfiscal.Prod{
			CProd:    in.Codigo,
			XProd:    in.Descricao,
			NCM:      ncm,
			CFOP:     cfop,
			UCom:     unidade,
			QCom:     in.Quantidade,
			VUnCom:   in.ValorUnitario,
			VProd:    vProd,
			UTrib:    unidade,
			QTrib:    in.Quantidade,
			VUnTrib:  in.ValorUnitario,
			IndTot:   1,
			CEAN:     ean,
			CEANTrib: ean,
		},
		Imposto: nuvemfiscal.Imposto{
			ICMS: nuvemfiscal.ICMS{
				ICMSSN102: nuvemfiscal.ICMSSN102{Orig: 0, CSOSN: "102"},
			},
			PIS: nuvemfiscal.PIS{
				PISAliq: nuvemfiscal.PISAliq{CST: "01", VBC: vProd, PPIS: 1.65, VPIS: vPIS},
			},
			COFINS: nuvemfiscal.COFINS{
				COFINSAliq: nuvemfiscal.COFINSAliq{CST: "01", VBC: vProd, PCOFINS: 7.60, VCOFINS: vCOFINS},
			},
		},
	}, nil
}

// NovoDestinatario builds the dest block. A CPF that is not exactly 11
// digits after stripping, or that fails check-digit validation, is
// silently dropped so an optional field never blocks an issuance.
func (b *Builder) NovoDestinatario(cpf, nome string) *nuvemfiscal.Dest {
	dest := &nuvemfiscal.Dest{
		XNome:     strings.TrimSpace(nome),
		IndIEDest: 9, // non-taxpayer
	}
	if dest.XNome == "" {
		dest.XNome = consumidorFinal
	}

	digits := somenteDigitos(cpf)
	if CPFValido(digits) {
		dest.CPF = digits
	}
	return dest
}

// NovoPagamento maps the payment method to its tPag code and computes
// change. Change only applies to cash with an overpayment.
func (b *Builder) NovoPagamento(valorTotal float64, forma string, valorRecebido float64) nuvemfiscal.Pag {
	metodo := strings.ToLower(strings.TrimSpace(forma))
	codigo, ok := formasPagamento[metodo]
	if !ok {
		codigo = "01"
	}

	valorPago := valorTotal
	troco := 0.0
	if metodo == "dinheiro" && valorRecebido > valorTotal {
		troco = round2(valorRecebido - valorTotal)
		valorPago = valorRecebido
	}

	return nuvemfiscal.Pag{
		DetPag: []nuvemfiscal.DetPag{
			{IndPag: 0, TPag: codigo, VPag: valorPago},
		},
		VTroco: troco,
	}
}

// NovoPedido assembles the full submission payload. Totals are exact sums
// of the item values, never recomputed from quantities.
func (b *Builder) NovoPedido(empresa empresadomain.Empresa, itens []nuvemfiscal.Det, dest *nuvemfiscal.Dest, pag nuvemfiscal.Pag, ambiente string) (nuvemfiscal.DfePedidoEmissao, error) {
	if len(itens) == 0 {
		return nuvemfiscal.DfePedidoEmissao{}, ErrSemItens
	}
	if empresa.Endereco == nil {
		return nuvemfiscal.DfePedidoEmissao{}, ErrSemEndereco
	}

	var vProd, vPIS, vCOFINS float64
	for i := range itens {
		itens[i].NItem = i + 1
		vProd += itens[i].Prod.VProd
		vPIS += itens[i].Imposto.PIS.PISAliq.VPIS
		vCOFINS += itens[i].Imposto.COFINS.COFINSAliq.VCOFINS
	}

	emissao := b.now()
	numero := b.nNF()
	cNF := b.cNF()
	chave, cdv, err := GerarChave(empresa.Endereco.UF, emissao, empresa.CpfCnpj, b.serie, numero, 1, cNF)
	if err != nil {
		return nuvemfiscal.DfePedidoEmissao{}, err
	}
	cUF, _ := CodigoUF(empresa.Endereco.UF)

	tpAmb := 1
	if ambiente != "producao" {
		tpAmb = 2
	}

	return nuvemfiscal.DfePedidoEmissao{
		Ambiente: ambiente,
		InfNFe: nuvemfiscal.InfNFe{
			Versao: "4.00",
			ID:     "NFe" + chave,
			Ide: nuvemfiscal.Ide{
				CUF:      cUF,
				CNF:      fmt.Sprintf("%08d", cNF),
				NatOp:    naturezaOperacao,
				Mod:      65,
				Serie:    b.serie,
				NNF:      numero,
				DhEmi:    emissao.Format(time.RFC3339),
				TpNF:     1, // outbound
				IDDest:   1, // in-state operation
				CMunFG:   empresa.Endereco.CodigoMunicipio,
				TpImp:    4, // DANFE NFC-e layout
				TpEmis:   1, // normal emission
				CDV:      cdv,
				TpAmb:    tpAmb,
				FinNFe:   1,
				IndFinal: 1,
				IndPres:  1, // in-person sale
				ProcEmi:  0,
				VerProc:  "1.0",
			},
			Emit: nuvemfiscal.Emit{
				CNPJ:  empresa.CpfCnpj,
				XNome: empresa.NomeRazaoSocial,
				EnderEmit: nuvemfiscal.EnderEmit{
					XLgr:    empresa.Endereco.Logradouro,
					Nro:     empresa.Endereco.Numero,
					XBairro: empresa.Endereco.Bairro,
					CMun:    empresa.Endereco.CodigoMunicipio,
					XMun:    empresa.Endereco.Municipio,
					UF:      empresa.Endereco.UF,
					CEP:     somenteDigitos(empresa.Endereco.Cep),
					CPais:   "1058",
					XPais:   "Brasil",
				},
				IE:  somenteDigitos(empresa.InscricaoEstadual),
				CRT: 1, // Simples Nacional
			},
			Dest: dest,
			Det:  itens,
			Total: nuvemfiscal.Total{
				ICMSTot: nuvemfiscal.ICMSTot{
					VProd:   vProd,
					VPIS:    vPIS,
					VCOFINS: vCOFINS,
					VNF:     vProd,
				},
			},
			Transp: nuvemfiscal.Transp{ModFrete: 9}, // no freight
			Pag:    pag,
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func digitosExatos(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
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
