package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/junior875/nfcePt2/internal/certificado"
	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
)

type fakeNFCeService struct {
	emitirResp *nuvemfiscal.DfeResposta
	emitirErr  error
	emitirReq  nfcedomain.EmitirRequest

	getResp nfcedomain.NFCe
	getErr  error

	cancelResp *nuvemfiscal.DfeCancelamento
	cancelErr  error
}

func (f *fakeNFCeService) Emitir(ctx context.Context, req nfcedomain.EmitirRequest) (*nuvemfiscal.DfeResposta, error) {
	_ = ctx
	f.emitirReq = req
	return f.emitirResp, f.emitirErr
}

func (f *fakeNFCeService) Get(ctx context.Context, id string) (nfcedomain.NFCe, error) {
	_ = ctx
	_ = id
	return f.getResp, f.getErr
}

func (f *fakeNFCeService) List(ctx context.Context, req nfcedomain.ListRequest) ([]nfcedomain.NFCe, error) {
	_ = ctx
	_ = req
	return []nfcedomain.NFCe{f.getResp}, nil
}

func (f *fakeNFCeService) Cancelar(ctx context.Context, id, justificativa string) (*nuvemfiscal.DfeCancelamento, error) {
	_ = ctx
	_ = id
	_ = justificativa
	return f.cancelResp, f.cancelErr
}

type fakeEmpresaService struct {
	createResp empresadomain.Empresa
	createErr  error
}

func (f *fakeEmpresaService) Create(ctx context.Context, req empresadomain.CreateRequest) (empresadomain.Empresa, error) {
	_ = ctx
	_ = req
	return f.createResp, f.createErr
}

func (f *fakeEmpresaService) Update(ctx context.Context, id string, req empresadomain.UpdateRequest) (empresadomain.Empresa, error) {
	_ = ctx
	_ = id
	_ = req
	return f.createResp, f.createErr
}

func (f *fakeEmpresaService) Get(ctx context.Context, id string) (empresadomain.Empresa, error) {
	_ = ctx
	_ = id
	return f.createResp, f.createErr
}

func (f *fakeEmpresaService) List(ctx context.Context, req empresadomain.ListRequest) ([]empresadomain.Empresa, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakeEmpresaService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return f.createErr
}

func (f *fakeEmpresaService) ConsultarCNPJ(ctx context.Context, cnpj string) (json.RawMessage, error) {
	_ = ctx
	_ = cnpj
	return json.RawMessage(`{"razao_social":"LOJA EXEMPLO LTDA"}`), nil
}

type fakeDanfeService struct {
	pdf []byte
	err error
}

func (f *fakeDanfeService) Gerar(ctx context.Context, id string) ([]byte, error) {
	_ = ctx
	_ = id
	return f.pdf, f.err
}

type fakeCertificadoService struct {
	enviarReq  certificado.EnviarRequest
	enviarCnpj string
}

func (f *fakeCertificadoService) Enviar(ctx context.Context, cpfCnpj string, req certificado.EnviarRequest) (*nuvemfiscal.CertificadoInfo, error) {
	_ = ctx
	f.enviarCnpj = cpfCnpj
	f.enviarReq = req
	return &nuvemfiscal.CertificadoInfo{CpfCnpj: cpfCnpj}, nil
}

func (f *fakeCertificadoService) Consultar(ctx context.Context, cpfCnpj string) (*nuvemfiscal.CertificadoInfo, error) {
	_ = ctx
	return &nuvemfiscal.CertificadoInfo{CpfCnpj: cpfCnpj}, nil
}

func (f *fakeCertificadoService) Excluir(ctx context.Context, cpfCnpj string) error {
	_ = ctx
	_ = cpfCnpj
	return nil
}

func newTestServer(nfceSvc *fakeNFCeService, empresaSvc *fakeEmpresaService, danfeSvc *fakeDanfeService) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:         router,
		nfceSvc:        nfceSvc,
		empresaSvc:     empresaSvc,
		danfeSvc:       danfeSvc,
		certificadoSvc: &fakeCertificadoService{},
	}
	srv.registerAPIRoutes()
	return srv, router
}

func TestEmitirNFCeRelaysProviderResponse(t *testing.T) {
	nfceSvc := &fakeNFCeService{
		emitirResp: &nuvemfiscal.DfeResposta{
			ID:         "nfe_123",
			Status:     "autorizado",
			ValorTotal: 10.5,
			Chave:      strings.Repeat("1", 44),
		},
	}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	body := `{"empresa_cnpj":"11222333000181","produtos":[{"codigo":"P1","descricao":"Coxinha","ncm":"21069090","quantidade":1,"valor_unitario":10.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if nfceSvc.emitirReq.EmpresaCnpj != "11222333000181" {
		t.Fatalf("expected cnpj to reach the service, got %q", nfceSvc.emitirReq.EmpresaCnpj)
	}

	var out nuvemfiscal.DfeResposta
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if out.ID != "nfe_123" || out.Status != "autorizado" {
		t.Fatalf("unexpected relayed response: %+v", out)
	}
}

func TestEmitirNFCeValidationErrorReturns400(t *testing.T) {
	nfceSvc := &fakeNFCeService{
		emitirErr: fmt.Errorf("%w: lista de produtos não pode ser vazia", nfcedomain.ErrSemProdutos),
	}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader(`{"empresa_cnpj":"11222333000181"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if out["status"] != "erro" {
		t.Fatalf("expected status field erro, got %q", out["status"])
	}
	if !strings.Contains(out["erro"], "produtos") {
		t.Fatalf("expected message about produtos, got %q", out["erro"])
	}
}

func TestEmitirNFCeEmpresaDesconhecidaReturns404(t *testing.T) {
	nfceSvc := &fakeNFCeService{
		emitirErr: fmt.Errorf("%w: empresa com CNPJ 11222333000181 não encontrada no sistema", empresadomain.ErrNaoEncontrada),
	}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	body := `{"empresa_cnpj":"11222333000181","produtos":[{"codigo":"P1","descricao":"Coxinha","ncm":"21069090","quantidade":1,"valor_unitario":10.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestEmitirNFCeLimiteExcedidoReturns429(t *testing.T) {
	nfceSvc := &fakeNFCeService{emitirErr: nfcedomain.ErrLimiteEmissao}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	body := `{"empresa_cnpj":"11222333000181","produtos":[{"codigo":"P1","descricao":"Coxinha","ncm":"21069090","quantidade":1,"valor_unitario":10.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.Code)
	}
}

func TestEmitirNFCeProviderErrorKeepsStatus(t *testing.T) {
	nfceSvc := &fakeNFCeService{
		emitirErr: &nuvemfiscal.APIError{StatusCode: http.StatusUnprocessableEntity, Mensagem: "rejeitada pela SEFAZ"},
	}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	body := `{"empresa_cnpj":"11222333000181","produtos":[{"codigo":"P1","descricao":"Coxinha","ncm":"21069090","quantidade":1,"valor_unitario":10.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}

	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if out["erro"] != "rejeitada pela SEFAZ" {
		t.Fatalf("expected provider message, got %q", out["erro"])
	}
}

func TestEmitirNFCeMalformedJSONReturns400(t *testing.T) {
	_, router := newTestServer(&fakeNFCeService{}, &fakeEmpresaService{}, &fakeDanfeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/nfce/emitir", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetNFCeNaoEncontradaReturns404(t *testing.T) {
	nfceSvc := &fakeNFCeService{getErr: nfcedomain.ErrNaoEncontrada}
	_, router := newTestServer(nfceSvc, &fakeEmpresaService{}, &fakeDanfeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/nfce/999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestGerarDanfeReturnsPDF(t *testing.T) {
	danfeSvc := &fakeDanfeService{pdf: []byte("%PDF-1.7 fake")}
	_, router := newTestServer(&fakeNFCeService{}, &fakeEmpresaService{}, danfeSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/nfce/123/danfe", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatal("expected PDF payload")
	}
}

func TestCreateEmpresaReturns201(t *testing.T) {
	empresaSvc := &fakeEmpresaService{
		createResp: empresadomain.Empresa{CpfCnpj: "11222333000181", NomeRazaoSocial: "LOJA EXEMPLO LTDA"},
	}
	_, router := newTestServer(&fakeNFCeService{}, empresaSvc, &fakeDanfeService{})

	body := `{"cpf_cnpj":"11222333000181","nome_razao_social":"LOJA EXEMPLO LTDA"}`
	req := httptest.NewRequest(http.MethodPost, "/api/empresa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateEmpresaDuplicadaReturns409(t *testing.T) {
	empresaSvc := &fakeEmpresaService{createErr: empresadomain.ErrJaCadastrada}
	_, router := newTestServer(&fakeNFCeService{}, empresaSvc, &fakeDanfeService{})

	body := `{"cpf_cnpj":"11222333000181","nome_razao_social":"LOJA EXEMPLO LTDA"}`
	req := httptest.NewRequest(http.MethodPost, "/api/empresa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestEnviarCertificadoMultipart(t *testing.T) {
	srv, router := newTestServer(&fakeNFCeService{}, &fakeEmpresaService{}, &fakeDanfeService{})
	certSvc := srv.certificadoSvc.(*fakeCertificadoService)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("certificado", "loja.pfx")
	if err != nil {
		t.Fatal(err)
	}
	pfx := []byte{0x30, 0x82, 0x01, 0x02}
	if _, err := part.Write(pfx); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteField("senha", "segredo"); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/certificado/11222333000181", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if certSvc.enviarCnpj != "11222333000181" {
		t.Fatalf("expected cnpj from path, got %q", certSvc.enviarCnpj)
	}
	if certSvc.enviarReq.Senha != "segredo" {
		t.Fatalf("expected senha to reach the service, got %q", certSvc.enviarReq.Senha)
	}
	if certSvc.enviarReq.Certificado != base64.StdEncoding.EncodeToString(pfx) {
		t.Fatal("expected file bytes to arrive base64-encoded")
	}
}

func TestErroDesconhecidoReturns500SemDetalhes(t *testing.T) {
	empresaSvc := &fakeEmpresaService{createErr: errors.New("driver: bad connection")}
	_, router := newTestServer(&fakeNFCeService{}, empresaSvc, &fakeDanfeService{})

	body := `{"cpf_cnpj":"11222333000181","nome_razao_social":"LOJA EXEMPLO LTDA"}`
	req := httptest.NewRequest(http.MethodPost, "/api/empresa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "driver") {
		t.Fatal("internal details must not leak into the response")
	}
}
