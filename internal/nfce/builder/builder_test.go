package builder

import (
	"testing"
	"time"

	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeterministicBuilder() *Builder {
	b := New()
	b.now = func() time.Time { return time.Date(2025, 2, 10, 15, 30, 0, 0, time.UTC) }
	b.cNF = func() int { return 98765432 }
	b.nNF = func() int { return 1002 }
	return b
}

func empresaTeste() empresadomain.Empresa {
	return empresadomain.Empresa{
		CpfCnpj:           "48144666000140",
		NomeRazaoSocial:   "Mercearia do Bairro LTDA",
		InscricaoEstadual: "123.456.789",
		Endereco: &empresadomain.Endereco{
			Cep:             "38740-000",
			Logradouro:      "Rua Principal",
			Numero:          "100",
			Bairro:          "Centro",
			CodigoMunicipio: "3106200",
			Municipio:       "Buritis",
			UF:              "MG",
		},
	}
}

func TestNovoItemCalculaImpostos(t *testing.T) {
	b := New()

	det, err := b.NovoItem(ItemInput{
		Codigo:        "001",
		Descricao:     "Coca-Cola 350ml",
		NCM:           "22021000",
		Quantidade:    2,
		ValorUnitario: 5.00,
	})
	require.NoError(t, err)

	assert.Equal(t, 10.00, det.Prod.VProd)
	assert.Equal(t, 0.17, det.Imposto.PIS.PISAliq.VPIS)
	assert.Equal(t, 0.76, det.Imposto.COFINS.COFINSAliq.VCOFINS)
	assert.Equal(t, 10.00, det.Imposto.PIS.PISAliq.VBC)
	assert.Equal(t, "102", det.Imposto.ICMS.ICMSSN102.CSOSN)
	assert.Equal(t, "01", det.Imposto.PIS.PISAliq.CST)
	assert.Equal(t, "01", det.Imposto.COFINS.COFINSAliq.CST)

	// defaults
	assert.Equal(t, "5102", det.Prod.CFOP)
	assert.Equal(t, "UN", det.Prod.UCom)
	assert.Equal(t, "SEM GTIN", det.Prod.CEAN)
	assert.Equal(t, "SEM GTIN", det.Prod.CEANTrib)
}

func TestNovoItemArredondaTotais(t *testing.T) {
	b := New()

	det, err := b.NovoItem(ItemInput{
		Codigo:        "002",
		Descricao:     "Queijo fatiado",
		NCM:           "04061010",
		Quantidade:    0.333,
		ValorUnitario: 59.90,
	})
	require.NoError(t, err)

	// 0.333 * 59.90 = 19.9467 -> 19.95
	assert.Equal(t, 19.95, det.Prod.VProd)
	assert.Equal(t, 0.33, det.Imposto.PIS.PISAliq.VPIS)    // 19.95 * 0.0165
	assert.Equal(t, 1.52, det.Imposto.COFINS.COFINSAliq.VCOFINS) // 19.95 * 0.076
}

func TestNovoItemValidacao(t *testing.T) {
	b := New()

	valido := ItemInput{Codigo: "001", Descricao: "x", NCM: "22021000", Quantidade: 1, ValorUnitario: 1}

	in := valido
	in.Quantidade = 0
	_, err := b.NovoItem(in)
	assert.ErrorIs(t, err, ErrQuantidadeInvalida)

	in = valido
	in.ValorUnitario = -1
	_, err = b.NovoItem(in)
	assert.ErrorIs(t, err, ErrValorInvalido)

	in = valido
	in.NCM = "2202"
	_, err = b.NovoItem(in)
	assert.ErrorIs(t, err, ErrNCMInvalido)

	in = valido
	in.CFOP = "510"
	_, err = b.NovoItem(in)
	assert.ErrorIs(t, err, ErrCFOPInvalido)
}

func TestNovoDestinatario(t *testing.T) {
	b := New()

	dest := b.NovoDestinatario("529.982.247-25", "Maria")
	assert.Equal(t, "52998224725", dest.CPF)
	assert.Equal(t, "Maria", dest.XNome)
	assert.Equal(t, 9, dest.IndIEDest)

	// wrong length: silently omitted, never an error
	dest = b.NovoDestinatario("1234", "")
	assert.Empty(t, dest.CPF)
	assert.Equal(t, "Consumidor Final", dest.XNome)

	// right length, bad check digits: also omitted
	dest = b.NovoDestinatario("12345678900", "")
	assert.Empty(t, dest.CPF)

	dest = b.NovoDestinatario("", "")
	assert.Empty(t, dest.CPF)
}

func TestNovoPagamento(t *testing.T) {
	b := New()

	pag := b.NovoPagamento(7.00, "dinheiro", 10.00)
	require.Len(t, pag.DetPag, 1)
	assert.Equal(t, "01", pag.DetPag[0].TPag)
	assert.Equal(t, 10.00, pag.DetPag[0].VPag)
	assert.Equal(t, 3.00, pag.VTroco)

	// tendered below total: paid = total, no change
	pag = b.NovoPagamento(7.00, "dinheiro", 5.00)
	assert.Equal(t, 7.00, pag.DetPag[0].VPag)
	assert.Equal(t, 0.00, pag.VTroco)

	// non-cash never produces change, even with overpayment
	pag = b.NovoPagamento(7.00, "pix", 10.00)
	assert.Equal(t, "17", pag.DetPag[0].TPag)
	assert.Equal(t, 7.00, pag.DetPag[0].VPag)
	assert.Equal(t, 0.00, pag.VTroco)

	// unknown method falls back to cash code
	pag = b.NovoPagamento(7.00, "boleto", 0)
	assert.Equal(t, "01", pag.DetPag[0].TPag)

	assert.Equal(t, "02", b.NovoPagamento(1, "cheque", 0).DetPag[0].TPag)
	assert.Equal(t, "03", b.NovoPagamento(1, "CREDITO", 0).DetPag[0].TPag)
	assert.Equal(t, "04", b.NovoPagamento(1, "debito", 0).DetPag[0].TPag)
}

func TestNovoPedido(t *testing.T) {
	b := newDeterministicBuilder()
	empresa := empresaTeste()

	item1, err := b.NovoItem(ItemInput{Codigo: "001", Descricao: "Coca-Cola 350ml", NCM: "22021000", Quantidade: 2, ValorUnitario: 5.00})
	require.NoError(t, err)
	item2, err := b.NovoItem(ItemInput{Codigo: "002", Descricao: "Cerveja 600ml", NCM: "22030000", Quantidade: 1, ValorUnitario: 12.00})
	require.NoError(t, err)

	dest := b.NovoDestinatario("", "")
	pag := b.NovoPagamento(22.00, "dinheiro", 50.00)

	pedido, err := b.NovoPedido(empresa, []nuvemfiscal.Det{item1, item2}, dest, pag, "homologacao")
	require.NoError(t, err)

	inf := pedido.InfNFe
	assert.Equal(t, "4.00", inf.Versao)
	assert.Equal(t, "homologacao", pedido.Ambiente)
	assert.Equal(t, 2, inf.Ide.TpAmb)

	// 1-based item numbering in input order
	require.Len(t, inf.Det, 2)
	assert.Equal(t, 1, inf.Det[0].NItem)
	assert.Equal(t, 2, inf.Det[1].NItem)

	// totals are exact sums of the item values
	assert.Equal(t, 22.00, inf.Total.ICMSTot.VProd)
	assert.Equal(t, 22.00, inf.Total.ICMSTot.VNF)
	assert.Equal(t, item1.Imposto.PIS.PISAliq.VPIS+item2.Imposto.PIS.PISAliq.VPIS, inf.Total.ICMSTot.VPIS)
	assert.Equal(t, item1.Imposto.COFINS.COFINSAliq.VCOFINS+item2.Imposto.COFINS.COFINSAliq.VCOFINS, inf.Total.ICMSTot.VCOFINS)
	assert.Zero(t, inf.Total.ICMSTot.VICMS)
	assert.Zero(t, inf.Total.ICMSTot.VBC)

	// issuer block comes from the merchant record
	assert.Equal(t, "48144666000140", inf.Emit.CNPJ)
	assert.Equal(t, "123456789", inf.Emit.IE)
	assert.Equal(t, 1, inf.Emit.CRT)
	assert.Equal(t, "38740000", inf.Emit.EnderEmit.CEP)
	assert.Equal(t, "3106200", inf.Emit.EnderEmit.CMun)
	assert.Equal(t, "1058", inf.Emit.EnderEmit.CPais)

	// access key is deterministic given the injected clock and numbers
	require.Len(t, inf.ID, 47)
	chave := inf.ID[3:]
	assert.Equal(t, "NFe", inf.ID[:3])
	assert.Equal(t, "31", chave[0:2])
	assert.Equal(t, "2502", chave[2:6])
	assert.Equal(t, "48144666000140", chave[6:20])
	assert.Equal(t, "65", chave[20:22])
	assert.Equal(t, digitoVerificador(chave[:43]), inf.Ide.CDV)

	assert.Equal(t, 31, inf.Ide.CUF)
	assert.Equal(t, "98765432", inf.Ide.CNF)
	assert.Equal(t, 1002, inf.Ide.NNF)
	assert.Equal(t, 65, inf.Ide.Mod)
	assert.Equal(t, "3106200", inf.Ide.CMunFG)
	assert.Equal(t, 9, inf.Transp.ModFrete)
	assert.Equal(t, pag, inf.Pag)
}

func TestNovoPedidoSemEndereco(t *testing.T) {
	b := New()
	empresa := empresaTeste()
	empresa.Endereco = nil

	item, err := b.NovoItem(ItemInput{Codigo: "001", Descricao: "x", NCM: "22021000", Quantidade: 1, ValorUnitario: 1})
	require.NoError(t, err)

	_, err = b.NovoPedido(empresa, []nuvemfiscal.Det{item}, b.NovoDestinatario("", ""), b.NovoPagamento(1, "dinheiro", 0), "producao")
	assert.ErrorIs(t, err, ErrSemEndereco)
}

func TestNovoPedidoSemItens(t *testing.T) {
	b := New()

	_, err := b.NovoPedido(empresaTeste(), nil, nil, nuvemfiscal.Pag{}, "producao")
	assert.ErrorIs(t, err, ErrSemItens)
}
