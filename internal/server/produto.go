package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	produtodomain "github.com/junior875/nfcePt2/internal/produto/domain"
)

func (s *Server) CreateProduto(c *gin.Context) {
	var req produtodomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.produtoSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProdutos(c *gin.Context) {
	var query struct {
		Ativo  *bool  `form:"ativo"`
		Codigo string `form:"codigo"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.produtoSvc.List(c.Request.Context(), produtodomain.ListRequest{
		Ativo:  query.Ativo,
		Codigo: strings.TrimSpace(query.Codigo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduto(c *gin.Context) {
	resp, err := s.produtoSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduto(c *gin.Context) {
	var req produtodomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.produtoSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduto(c *gin.Context) {
	if err := s.produtoSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
