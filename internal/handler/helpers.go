package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/madecodebrazil/masioticas-sub005/internal/apierror"
	"github.com/madecodebrazil/masioticas-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusFor maps service sentinels onto HTTP status codes. Unclassified
// errors surface as 500 via the fallthrough.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrCaixaJaAberto),
		errors.Is(err, service.ErrCaixaDiaEncerrado),
		errors.Is(err, service.ErrCaixaFechado):
		return http.StatusConflict
	case errors.Is(err, service.ErrSemCaixaAberto),
		errors.Is(err, service.ErrSessaoNaoEncontrada),
		errors.Is(err, service.ErrLojaNaoEncontrada):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValorInvalido):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrResultadoIncerto):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrRepositorioIndisponivel):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the standard error envelope for a service failure.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), apierror.New(err.Error()))
}
