package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError writes a business error verbatim; anything else becomes a 500
// carrying the fallback code.
func FromError(c *gin.Context, err error, fallbackCode string) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusFor(err), be.Code, messageFor(be.Code))
		return
	}
	Internal(c, fallbackCode, "Erro interno.")
}

var messages = map[string]string{
	"slot_no_longer_available":   "Horário não está mais disponível.",
	"identity_resolution_failed": "Não foi possível identificar o cliente.",
	"invalid_transition":         "Transição de status inválida.",
	"already_terminal":           "Agendamento já finalizado ou cancelado.",
	"appointment_not_found":      "Agendamento não encontrado.",
	"tenant_not_found":           "Estabelecimento não encontrado.",
	"service_not_found":          "Serviço não encontrado.",
	"catalog_item_not_found":     "Item não encontrado.",
	"professional_not_found":     "Profissional não encontrado.",
	"invalid_date_or_time":       "Data ou hora inválida.",
	"request_in_progress":        "Requisição em andamento.",
	"client_name_required":       "Nome do cliente é obrigatório.",
	"client_phone_required":      "Telefone do cliente é obrigatório.",
	"invalid_operating_hours":    "Horário de funcionamento inválido.",
	"invalid_origin":             "Origem inválida.",
	"invalid_price":              "Preço inválido.",
	"invalid_quantity":           "Quantidade inválida.",
	"invalid_status":             "Status inválido.",
	"line_items_required":        "Informe ao menos um item.",
	"email_already_exists":       "E-mail já cadastrado.",
	"slug_already_exists":        "Endereço já em uso.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "Dados inválidos."
}
