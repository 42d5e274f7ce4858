package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
)

func (s *Server) CreateEmpresa(c *gin.Context) {
	var req empresadomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.empresaSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListEmpresas(c *gin.Context) {
	var query struct {
		Ativo *bool `form:"ativo"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.empresaSvc.List(c.Request.Context(), empresadomain.ListRequest{
		Ativo: query.Ativo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEmpresa(c *gin.Context) {
	resp, err := s.empresaSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateEmpresa(c *gin.Context) {
	var req empresadomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.empresaSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteEmpresa(c *gin.Context) {
	if err := s.empresaSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ConsultarCNPJ proxies the public registry lookup offered by the fiscal
// provider. The payload is relayed as-is.
func (s *Server) ConsultarCNPJ(c *gin.Context) {
	cnpj := strings.TrimSpace(c.Param("cnpj"))

	resp, err := s.empresaSvc.ConsultarCNPJ(c.Request.Context(), cnpj)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", resp)
}
