package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junior875/nfcePt2/internal/certificado"
	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/nfce/builder"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	produtodomain "github.com/junior875/nfcePt2/internal/produto/domain"
)

// errorResponse is the wire shape for every failure. The "erro" field
// carries a human-readable message in Portuguese.
type errorResponse struct {
	Erro   string `json:"erro"`
	Status string `json:"status"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware converts errors attached to the gin context into
// a JSON response. Handlers call AbortWithError and return; the mapping to
// an HTTP status lives here.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{
			Erro:   "erro interno do servidor",
			Status: "erro",
		}
	}

	var apiErr *nuvemfiscal.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, errorResponse{Erro: apiErr.Mensagem, Status: "erro"}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorResponse{Erro: errorMessage(err), Status: "erro"}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{Erro: errorMessage(err), Status: "erro"}
	case isConflictError(err):
		return http.StatusConflict, errorResponse{Erro: errorMessage(err), Status: "erro"}
	case errors.Is(err, nfcedomain.ErrLimiteEmissao):
		return http.StatusTooManyRequests, errorResponse{
			Erro:   "limite de emissão excedido, tente novamente em instantes",
			Status: "erro",
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Erro:   "erro interno do servidor",
			Status: "erro",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, empresadomain.ErrCpfCnpjInvalido),
		errors.Is(err, empresadomain.ErrRazaoObrigatoria),
		errors.Is(err, empresadomain.ErrEnderecoIncompleto),
		errors.Is(err, empresadomain.ErrIDInvalido),
		errors.Is(err, produtodomain.ErrCodigoObrigatorio),
		errors.Is(err, produtodomain.ErrDescricaoObrigatoria),
		errors.Is(err, produtodomain.ErrNCMInvalido),
		errors.Is(err, produtodomain.ErrCFOPInvalido),
		errors.Is(err, produtodomain.ErrEANInvalido),
		errors.Is(err, produtodomain.ErrValorInvalido),
		errors.Is(err, produtodomain.ErrIDInvalido),
		errors.Is(err, nfcedomain.ErrCnpjObrigatorio),
		errors.Is(err, nfcedomain.ErrSemProdutos),
		errors.Is(err, nfcedomain.ErrProdutoInvalido),
		errors.Is(err, nfcedomain.ErrIDInvalido),
		errors.Is(err, nfcedomain.ErrJustificativaObrigatoria),
		errors.Is(err, nfcedomain.ErrFiltroInvalido),
		errors.Is(err, certificado.ErrCertificadoObrigatorio),
		errors.Is(err, certificado.ErrCertificadoInvalido),
		errors.Is(err, certificado.ErrSenhaObrigatoria),
		errors.Is(err, builder.ErrQuantidadeInvalida),
		errors.Is(err, builder.ErrValorInvalido),
		errors.Is(err, builder.ErrNCMInvalido),
		errors.Is(err, builder.ErrCFOPInvalido),
		errors.Is(err, builder.ErrSemEndereco),
		errors.Is(err, builder.ErrSemItens),
		errors.Is(err, builder.ErrUFInvalida):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, empresadomain.ErrNaoEncontrada),
		errors.Is(err, produtodomain.ErrNaoEncontrado),
		errors.Is(err, nfcedomain.ErrNaoEncontrada),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	return errors.Is(err, empresadomain.ErrJaCadastrada) ||
		errors.Is(err, produtodomain.ErrJaCadastrado)
}

// errorMessage prefers the wrapped, human-readable message produced by the
// services; sentinel codes alone read poorly in API responses.
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "requisição inválida"
	}
	return msg
}

// classifyErrorForLog feeds the request logger with a coarse error type
// and a stable code, without touching the response body.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	var apiErr *nuvemfiscal.APIError
	if errors.As(err, &apiErr) {
		return "provider", strconv.Itoa(apiErr.StatusCode)
	}

	switch {
	case isValidationError(err):
		return "validation", sentinelCode(err)
	case isNotFoundError(err):
		return "not_found", sentinelCode(err)
	case isConflictError(err):
		return "conflict", sentinelCode(err)
	case errors.Is(err, nfcedomain.ErrLimiteEmissao):
		return "rate_limit", nfcedomain.ErrLimiteEmissao.Error()
	default:
		return "internal", "internal_error"
	}
}

// sentinelCode walks the wrap chain so the log carries the sentinel code,
// not the decorated message.
func sentinelCode(err error) string {
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		err = unwrapped
	}
	return err.Error()
}
