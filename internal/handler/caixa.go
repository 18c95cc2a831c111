package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/apierror"
	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/middleware"
	"github.com/madecodebrazil/masioticas-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// parseLoja extracts and validates the :loja path param. Writes the 400
// response itself; the caller returns on !ok.
func parseLoja(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("loja"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de loja inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// parseDia extracts the :dia path param (2006-01-02) normalized to the
// canonical session-key form.
func parseDia(c *gin.Context) (time.Time, bool) {
	dia, err := time.Parse("2006-01-02", c.Param("dia"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Dia inválido: use o formato AAAA-MM-DD"))
		return time.Time{}, false
	}
	return service.NormalizarDia(dia), true
}

// Abrir godoc
// @Summary Abre a sessão de caixa do dia para a loja
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param loja path string true "ID da loja"
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.SessaoCaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/{loja}/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), lojaID, usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarMovimento godoc
// @Summary Registra um movimento na sessão aberta
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param loja path string true "ID da loja"
// @Param dia path string true "Dia de negócio (AAAA-MM-DD)"
// @Param body body dto.MovimentoRequest true "Movimento"
// @Success 201 {object} dto.MovimentoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/{loja}/{dia}/movimento [post]
func (h *CaixaHandler) RegistrarMovimento(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	dia, ok := parseDia(c)
	if !ok {
		return
	}
	var req dto.MovimentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMovimento(c.Request.Context(), lojaID, dia, usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha a sessão com o saldo fisicamente contado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param loja path string true "ID da loja"
// @Param dia path string true "Dia de negócio (AAAA-MM-DD)"
// @Param body body dto.FecharCaixaRequest true "Contagem de fechamento"
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/{loja}/{dia}/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	dia, ok := parseDia(c)
	if !ok {
		return
	}
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Fechar(c.Request.Context(), lojaID, dia, usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo godoc
// @Summary Saldo corrente de caixa da loja
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param loja path string true "ID da loja"
// @Success 200 {object} dto.SaldoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/{loja}/saldo [get]
func (h *CaixaHandler) Saldo(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	resp, err := h.svc.Saldo(c.Request.Context(), lojaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SessaoAberta returns the currently open session for the store, if any.
func (h *CaixaHandler) SessaoAberta(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	resp, err := h.svc.SessaoAberta(c.Request.Context(), lojaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Relatorio godoc
// @Summary Relatório da sessão com extrato de movimentos
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param loja path string true "ID da loja"
// @Param dia path string true "Dia de negócio (AAAA-MM-DD)"
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixa/{loja}/{dia} [get]
func (h *CaixaHandler) Relatorio(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	dia, ok := parseDia(c)
	if !ok {
		return
	}
	resp, err := h.svc.Relatorio(c.Request.Context(), lojaID, dia)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioPDF streams the closing report as a PDF attachment.
func (h *CaixaHandler) RelatorioPDF(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}
	dia, ok := parseDia(c)
	if !ok {
		return
	}
	path, err := h.svc.RelatorioPDF(c.Request.Context(), lojaID, dia)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, "relatorio_caixa_"+c.Param("dia")+".pdf")
}

// Historico returns a paginated list of sessions in a date range.
func (h *CaixaHandler) Historico(c *gin.Context) {
	lojaID, ok := parseLoja(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	de := time.Time{}
	ate := time.Now().UTC()
	if v := c.Query("de"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Parâmetro 'de' inválido: use AAAA-MM-DD"))
			return
		}
		de = service.NormalizarDia(parsed)
	}
	if v := c.Query("ate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Parâmetro 'ate' inválido: use AAAA-MM-DD"))
			return
		}
		ate = service.NormalizarDia(parsed)
	}

	sessoes, total, err := h.svc.Historico(c.Request.Context(), lojaID, de, ate, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessoes, "total": total, "page": page, "limit": limit})
}
