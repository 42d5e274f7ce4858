package nuvemfiscal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/junior875/nfcePt2/internal/config"
)

type fixture struct {
	client *Client
	auth   *httptest.Server
	api    *httptest.Server

	authCalls int
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	f := &fixture{}
	f.auth = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.authCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))
	t.Cleanup(f.auth.Close)

	f.api = httptest.NewServer(handler)
	t.Cleanup(f.api.Close)

	cfg := config.NuvemFiscalConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthBaseURL:  f.auth.URL,
		APIBaseURL:   f.api.URL,
		Scopes:       "empresa cnpj nfe",
	}
	f.client = NewClient(cfg, NewTokenSource(cfg, f.auth.Client()), zap.NewNop())
	return f
}

func TestEmitirNFCeSendsBearerAndDecodes(t *testing.T) {
	var gotAuth, gotPath string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var pedido DfePedidoEmissao
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pedido))
		require.Equal(t, "homologacao", pedido.Ambiente)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"nfe_abc","status":"autorizado","chave":"31250248144666000140650010000010021987654329"}`))
	})

	resp, err := f.client.EmitirNFCe(context.Background(), DfePedidoEmissao{Ambiente: "homologacao"})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, "/nfce", gotPath)
	require.Equal(t, "nfe_abc", resp.ID)
	require.Equal(t, "autorizado", resp.Status)
}

func TestClientRetriesOnceAfter401(t *testing.T) {
	var apiCalls int
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if apiCalls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"nfe_abc","status":"autorizado"}`))
	})

	resp, err := f.client.EmitirNFCe(context.Background(), DfePedidoEmissao{})
	require.NoError(t, err)
	require.Equal(t, "nfe_abc", resp.ID)
	require.Equal(t, 2, apiCalls)
	require.Equal(t, 2, f.authCalls, "401 must invalidate the token and re-authenticate")
}

func TestClientParsesStructuredError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"NfeValidacao","message":"Rejeicao: CNPJ do emitente invalido"}}`))
	})

	_, err := f.client.EmitirNFCe(context.Background(), DfePedidoEmissao{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "Rejeicao: CNPJ do emitente invalido", apiErr.Mensagem)
}

func TestClientParsesMensagemError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"mensagem":"empresa nao cadastrada"}`))
	})

	err := f.client.ExcluirEmpresa(context.Background(), "11222333000181")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "empresa nao cadastrada", apiErr.Mensagem)
}

func TestConsultarCNPJStripsFormatting(t *testing.T) {
	var gotPath string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"razao_social":"LOJA EXEMPLO LTDA"}`))
	})

	raw, err := f.client.ConsultarCNPJ(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	require.Equal(t, "/cnpj/11222333000181", gotPath)
	require.JSONEq(t, `{"razao_social":"LOJA EXEMPLO LTDA"}`, string(raw))
}

func TestCancelarNFCeSendsJustificativa(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/nfce/nfe_abc/cancelamento", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "cliente desistiu da compra efetuada", body["justificativa"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt_1","status":"registrado","codigo_status":135}`))
	})

	resp, err := f.client.CancelarNFCe(context.Background(), "nfe_abc", "cliente desistiu da compra efetuada")
	require.NoError(t, err)
	require.Equal(t, "registrado", resp.Status)
	require.Equal(t, 135, resp.CodigoStatus)
}
