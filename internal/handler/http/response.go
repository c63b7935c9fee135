package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/willjrcristo/pdv-assinatura/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// --- FUNÇÕES AUXILIARES ---

func respondWithError(w http.ResponseWriter, code int, message string) {
	if code >= http.StatusInternalServerError {
		slog.Error("API Error", "code", code, "message", message)
	} else {
		slog.Warn("API Error", "code", code, "message", message)
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// decodeAndValidate lê o JSON do corpo e aplica as tags `validate`.
// Em caso de erro já responde 400 e devolve false.
func decodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return payload, false
	}
	if err := validate.Struct(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return payload, false
	}
	return payload, true
}

// respondWithServiceError traduz os erros de negócio para status HTTP.
// fallback é a mensagem dos erros inesperados, que não vaza o erro interno.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrOperadorNaoEncontrado),
		errors.Is(err, service.ErrPagamentoNaoEncontrado),
		errors.Is(err, service.ErrProdutoNaoEncontrado),
		errors.Is(err, service.ErrProvedorDesconhecido):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDadosInvalidos),
		errors.Is(err, service.ErrMetodoInvalido),
		errors.Is(err, service.ErrWebhookInvalido):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailEmUso),
		errors.Is(err, service.ErrSKUEmUso),
		errors.Is(err, service.ErrEstoqueInsuficiente):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrOperadorSuspenso):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValorNaoReconhecido):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrGatewayIndisponivel):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error(fallback, "error", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
