package builder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarChaveLayout(t *testing.T) {
	emissao := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	chave, cdv, err := GerarChave("MG", emissao, "48144666000140", 1, 1002, 1, 98765432)
	require.NoError(t, err)

	require.Len(t, chave, 44)
	assert.Equal(t, "31", chave[0:2], "cUF")
	assert.Equal(t, "2502", chave[2:6], "AAMM")
	assert.Equal(t, "48144666000140", chave[6:20], "CNPJ")
	assert.Equal(t, "65", chave[20:22], "modelo NFC-e")
	assert.Equal(t, "001", chave[22:25], "serie")
	assert.Equal(t, "000001002", chave[25:34], "numero")
	assert.Equal(t, "1", chave[34:35], "tpEmis")
	assert.Equal(t, "98765432", chave[35:43], "cNF")
	assert.Equal(t, byte('0')+byte(cdv), chave[43], "cDV")
}

func TestGerarChaveDigitoVerificador(t *testing.T) {
	// Known-good key: the algorithm must reproduce the final digit from
	// the first 43.
	chaveConhecida := "31250248144666000140650010000010021987654329"
	assert.Equal(t, 9, digitoVerificador(chaveConhecida[:43]))

	emissao := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	chave, cdv, err := GerarChave("SP", emissao, "11222333000181", 1, 42, 1, 12345678)
	require.NoError(t, err)
	assert.Equal(t, digitoVerificador(chave[:43]), cdv)
}

func TestGerarChaveRejeitaEntradaInvalida(t *testing.T) {
	emissao := time.Now().UTC()

	_, _, err := GerarChave("XX", emissao, "48144666000140", 1, 1, 1, 12345678)
	assert.ErrorIs(t, err, ErrUFInvalida)

	_, _, err = GerarChave("MG", emissao, "123", 1, 1, 1, 12345678)
	assert.Error(t, err)
}

func TestCodigoUF(t *testing.T) {
	for uf, want := range map[string]int{"mg": 31, "SP": 35, " rj ": 33, "DF": 53} {
		got, err := CodigoUF(uf)
		require.NoError(t, err, uf)
		assert.Equal(t, want, got, uf)
	}

	_, err := CodigoUF("ZZ")
	assert.ErrorIs(t, err, ErrUFInvalida)
}

func TestCPFValido(t *testing.T) {
	valid := []string{"12345678909", "52998224725"}
	for _, cpf := range valid {
		assert.True(t, CPFValido(cpf), cpf)
	}

	invalid := []string{
		"",
		"123",
		"12345678900",  // wrong check digit
		"11111111111",  // repeated digits
		"00000000000",  // repeated digits
		"1234567890a",  // non-numeric
		"123456789090", // too long
	}
	for _, cpf := range invalid {
		assert.False(t, CPFValido(cpf), cpf)
	}
}
