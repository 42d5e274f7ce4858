package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/junior875/nfcePt2/internal/config"
	"go.uber.org/zap"
)

// APIError carries a structured provider failure.
type APIError struct {
	StatusCode int
	Mensagem   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nuvem fiscal: status %d: %s", e.StatusCode, e.Mensagem)
}

// Client wraps the Nuvem Fiscal REST API with bearer-token authentication.
// Every call retries exactly once after refreshing the token on a 401.
type Client struct {
	cfg    config.NuvemFiscalConfig
	http   *http.Client
	tokens *TokenSource
	log    *zap.Logger
}

func NewClient(cfg config.NuvemFiscalConfig, tokens *TokenSource, log *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		log:    log.Named("nuvemfiscal.client"),
	}
}

// ConsultarCNPJ looks up public registration data for a tax ID.
func (c *Client) ConsultarCNPJ(ctx context.Context, cnpj string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/cnpj/"+somenteDigitos(cnpj), nil, &out)
	return out, err
}

// CadastrarEmpresa registers a merchant with the provider.
func (c *Client) CadastrarEmpresa(ctx context.Context, empresa EmpresaPayload) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/empresas", empresa, &out)
	return out, err
}

// AtualizarEmpresa updates a merchant registered with the provider.
func (c *Client) AtualizarEmpresa(ctx context.Context, cpfCnpj string, empresa EmpresaPayload) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPut, "/empresas/"+somenteDigitos(cpfCnpj), empresa, &out)
	return out, err
}

// ConsultarEmpresa fetches a merchant registered with the provider.
func (c *Client) ConsultarEmpresa(ctx context.Context, cpfCnpj string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/empresas/"+somenteDigitos(cpfCnpj), nil, &out)
	return out, err
}

// ExcluirEmpresa removes a merchant from the provider.
func (c *Client) ExcluirEmpresa(ctx context.Context, cpfCnpj string) error {
	return c.do(ctx, http.MethodDelete, "/empresas/"+somenteDigitos(cpfCnpj), nil, nil)
}

// EmitirNFCe submits an NFC-e document for authorization.
func (c *Client) EmitirNFCe(ctx context.Context, pedido DfePedidoEmissao) (*DfeResposta, error) {
	var out DfeResposta
	if err := c.do(ctx, http.MethodPost, "/nfce", pedido, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelarNFCe requests cancellation of an authorized NFC-e.
func (c *Client) CancelarNFCe(ctx context.Context, id, justificativa string) (*DfeCancelamento, error) {
	body := map[string]string{"justificativa": justificativa}
	var out DfeCancelamento
	if err := c.do(ctx, http.MethodPost, "/nfce/"+id+"/cancelamento", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnviarCertificado uploads a base64-encoded digital certificate.
func (c *Client) EnviarCertificado(ctx context.Context, cpfCnpj, certificadoBase64, senha string) (*CertificadoInfo, error) {
	body := map[string]string{
		"certificado": certificadoBase64,
		"password":    senha,
	}
	var out CertificadoInfo
	if err := c.do(ctx, http.MethodPut, "/empresas/"+somenteDigitos(cpfCnpj)+"/certificado", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConsultarCertificado fetches the certificate metadata held by the provider.
func (c *Client) ConsultarCertificado(ctx context.Context, cpfCnpj string) (*CertificadoInfo, error) {
	var out CertificadoInfo
	if err := c.do(ctx, http.MethodGet, "/empresas/"+somenteDigitos(cpfCnpj)+"/certificado", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExcluirCertificado removes the certificate held by the provider.
func (c *Client) ExcluirCertificado(ctx context.Context, cpfCnpj string) error {
	return c.do(ctx, http.MethodDelete, "/empresas/"+somenteDigitos(cpfCnpj)+"/certificado", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out ...any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = encoded
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		c.tokens.Invalidate()
		resp, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Mensagem: parseErrorMessage(data)}
		c.log.Error("provider request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("mensagem", apiErr.Mensagem),
		)
		return apiErr
	}

	if len(out) > 0 && out[0] != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out[0]); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method,
		strings.TrimRight(c.cfg.APIBaseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

type providerError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Mensagem string `json:"mensagem"`
}

func parseErrorMessage(data []byte) string {
	var parsed providerError
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Mensagem != "" {
			return parsed.Mensagem
		}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = "resposta vazia do provedor"
	}
	return msg
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
