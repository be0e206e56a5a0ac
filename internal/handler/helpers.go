package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/apierror"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
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
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// uuidParam parses a path parameter, answering 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido: "+name))
		return uuid.Nil, false
	}
	return id, true
}

// statusByKind maps domain error kinds to HTTP statuses.
var statusByKind = map[service.Kind]int{
	service.KindNotFound:          http.StatusNotFound,
	service.KindInvalidState:      http.StatusConflict,
	service.KindInvalidInput:      http.StatusUnprocessableEntity,
	service.KindInsufficientStock: http.StatusConflict,
	service.KindConflict:          http.StatusConflict,
}

// respondError writes the response for a service error. Domain errors carry
// their code; anything else is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var derr *service.Error
	if errors.As(err, &derr) {
		if status, ok := statusByKind[derr.Kind]; ok {
			c.JSON(status, apierror.WithCode(derr.Code, derr.Msg))
			return
		}
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Msg("internal error")
	c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
}
