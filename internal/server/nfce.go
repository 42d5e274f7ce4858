package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
)

// EmitirNFCe runs the whole issuance flow and relays the provider
// response. The caller receives exactly what the authorizer returned.
func (s *Server) EmitirNFCe(c *gin.Context) {
	var req nfcedomain.EmitirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.nfceSvc.Emitir(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListNFCe(c *gin.Context) {
	var query struct {
		EmpresaID  string `form:"empresa_id"`
		Status     string `form:"status"`
		DataInicio string `form:"data_inicio"`
		DataFim    string `form:"data_fim"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.nfceSvc.List(c.Request.Context(), nfcedomain.ListRequest{
		EmpresaID:  strings.TrimSpace(query.EmpresaID),
		Status:     strings.TrimSpace(query.Status),
		DataInicio: strings.TrimSpace(query.DataInicio),
		DataFim:    strings.TrimSpace(query.DataFim),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetNFCe accepts either the local snowflake ID or the 44-digit access key.
func (s *Server) GetNFCe(c *gin.Context) {
	resp, err := s.nfceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelarNFCe(c *gin.Context) {
	var req struct {
		Justificativa string `json:"justificativa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.nfceSvc.Cancelar(c.Request.Context(), c.Param("id"), req.Justificativa)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GerarDanfe(c *gin.Context) {
	pdf, err := s.danfeSvc.Gerar(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="danfe.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
