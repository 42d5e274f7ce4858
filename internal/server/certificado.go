package server

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/junior875/nfcePt2/internal/certificado"
)

// EnviarCertificado accepts the PKCS#12 file either as a multipart upload
// (fields "certificado" and "senha") or as a JSON body with the file
// already base64-encoded.
func (s *Server) EnviarCertificado(c *gin.Context) {
	req, err := bindCertificado(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.certificadoSvc.Enviar(c.Request.Context(), c.Param("cnpj"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConsultarCertificado(c *gin.Context) {
	resp, err := s.certificadoSvc.Consultar(c.Request.Context(), c.Param("cnpj"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExcluirCertificado(c *gin.Context) {
	if err := s.certificadoSvc.Excluir(c.Request.Context(), c.Param("cnpj")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindCertificado(c *gin.Context) (certificado.EnviarRequest, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("certificado")
		if err != nil {
			return certificado.EnviarRequest{}, err
		}
		file, err := header.Open()
		if err != nil {
			return certificado.EnviarRequest{}, err
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			return certificado.EnviarRequest{}, err
		}
		return certificado.EnviarRequest{
			Certificado: base64.StdEncoding.EncodeToString(raw),
			Senha:       c.PostForm("senha"),
		}, nil
	}

	var req certificado.EnviarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return certificado.EnviarRequest{}, err
	}
	return req, nil
}
