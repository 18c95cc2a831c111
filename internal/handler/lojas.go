package handler

import (
	"net/http"

	"github.com/madecodebrazil/masioticas-sub005/internal/apierror"
	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LojasHandler struct{ svc service.LojaService }

func NewLojasHandler(svc service.LojaService) *LojasHandler { return &LojasHandler{svc: svc} }

// Criar godoc
// @Summary Cadastra uma nova loja
// @Tags lojas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarLojaRequest true "Dados da loja"
// @Success 201 {object} dto.LojaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/lojas [post]
func (h *LojasHandler) Criar(c *gin.Context) {
	var req dto.CriarLojaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LojasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar lojas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LojasHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
