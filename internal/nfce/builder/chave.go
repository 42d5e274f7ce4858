package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// IBGE numeric codes for each state, used as the cUF field of the access key.
var codigosUF = map[string]int{
	"RO": 11, "AC": 12, "AM": 13, "RR": 14, "PA": 15, "AP": 16, "TO": 17,
	"MA": 21, "PI": 22, "CE": 23, "RN": 24, "PB": 25, "PE": 26, "AL": 27, "SE": 28, "BA": 29,
	"MG": 31, "ES": 32, "RJ": 33, "SP": 35,
	"PR": 41, "SC": 42, "RS": 43,
	"MS": 50, "MT": 51, "GO": 52, "DF": 53,
}

var ErrUFInvalida = errors.New("invalid_uf")

// CodigoUF resolves a two-letter state code to its IBGE number.
func CodigoUF(uf string) (int, error) {
	codigo, ok := codigosUF[strings.ToUpper(strings.TrimSpace(uf))]
	if !ok {
		return 0, ErrUFInvalida
	}
	return codigo, nil
}

// GerarChave assembles the 44-digit NFC-e access key:
// cUF(2) AAMM(4) CNPJ(14) mod(2) serie(3) nNF(9) tpEmis(1) cNF(8) cDV(1).
// The last digit is the mod-11 check digit over the preceding 43.
func GerarChave(uf string, emissao time.Time, cnpj string, serie, numero, tpEmis, cNF int) (string, int, error) {
	cUF, err := CodigoUF(uf)
	if err != nil {
		return "", 0, err
	}
	if len(cnpj) != 14 {
		return "", 0, fmt.Errorf("invalid_cnpj: %q", cnpj)
	}

	base := fmt.Sprintf("%02d%s%s%02d%03d%09d%d%08d",
		cUF,
		emissao.Format("0601"),
		cnpj,
		65, // NFC-e model
		serie,
		numero,
		tpEmis,
		cNF,
	)
	dv := digitoVerificador(base)
	return base + fmt.Sprintf("%d", dv), dv, nil
}

// digitoVerificador computes the SEFAZ mod-11 check digit: weights 2..9
// cycling from the rightmost digit; remainders 0 and 1 map to digit 0.
func digitoVerificador(digits string) int {
	peso := 2
	soma := 0
	for i := len(digits) - 1; i >= 0; i-- {
		soma += int(digits[i]-'0') * peso
		peso++
		if peso > 9 {
			peso = 2
		}
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

// CPFValido reports whether a digits-only CPF has valid check digits.
// Repeated-digit sequences like 00000000000 are rejected.
func CPFValido(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	repetido := true
	for i := 1; i < 11; i++ {
		if cpf[i] < '0' || cpf[i] > '9' {
			return false
		}
		if cpf[i] != cpf[0] {
			repetido = false
		}
	}
	if cpf[0] < '0' || cpf[0] > '9' || repetido {
		return false
	}

	for _, n := range []int{9, 10} {
		soma := 0
		for i := 0; i < n; i++ {
			soma += int(cpf[i]-'0') * (n + 1 - i)
		}
		dv := (soma * 10) % 11
		if dv == 10 {
			dv = 0
		}
		if dv != int(cpf[n]-'0') {
			return false
		}
	}
	return true
}
