package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
	"github.com/willjrcristo/pdv-assinatura/internal/service"
)

// PagamentoHandler atende o polling do cliente ("já pagou?").
type PagamentoHandler struct {
	assinaturas AssinaturaService
}

func NewPagamentoHandler(a AssinaturaService) *PagamentoHandler {
	return &PagamentoHandler{assinaturas: a}
}

func (h *PagamentoHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}/status", h.CheckPayment) // GET /pagamentos/{id}/status
	return r
}

// @Summary      Verifica um pagamento pendente
// @Description  Antes de 4 minutos responde "aguardando"; até 10 minutos consulta o gateway e concilia; depois disso cancela
// @Tags         assinaturas
// @Produce      json
// @Param        id   path      string  true  "ID do pagamento"
// @Success      200  {object}  service.Desfecho
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /pagamentos/{id}/status [get]
func (h *PagamentoHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	d, err := h.assinaturas.CheckPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao verificar pagamento")
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

// WebhookHandler recebe as notificações dos gateways. O provedor vem da URL.
type WebhookHandler struct {
	assinaturas AssinaturaService
}

func NewWebhookHandler(a AssinaturaService) *WebhookHandler {
	return &WebhookHandler{assinaturas: a}
}

// Routes recebe o limitador de taxa para aplicá-lo só aqui.
func (h *WebhookHandler) Routes(limiter func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter)
	}
	r.Post("/{provedor}", h.HandleWebhook) // POST /webhooks/mercadopago, /webhooks/stripe
	return r
}

// @Summary      Webhook do gateway de pagamento
// @Description  Verifica a assinatura da notificação e concilia o pagamento citado. Erros de negócio respondem 200 para o provedor não reenviar
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        provedor  path      string  true  "mercadopago ou stripe"
// @Success      200       {object}  service.Desfecho
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      413       {object}  map[string]string
// @Failure      503       {object}  map[string]string
// @Router       /webhooks/{provedor} [post]
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536) // Limite de 64KB
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Corpo do webhook acima de 64KB")
			return
		}
		slog.Error("Erro ao ler o corpo do webhook", "error", err)
		respondWithError(w, http.StatusBadRequest, "Erro ao ler corpo da requisição")
		return
	}

	provedor := chi.URLParam(r, "provedor")
	d, err := h.assinaturas.HandleWebhook(r.Context(), provedor, gateway.Webhook{
		Body:    payload,
		Headers: r.Header,
		Query:   r.URL.Query(),
	})
	if err != nil {
		if !definitivo(err) {
			respondWithServiceError(w, err, "Erro interno ao processar webhook")
			return
		}
		// reenviar não muda o resultado: registra e confirma o recebimento
		slog.Warn("Webhook recebido mas não conciliado", "provedor", provedor, "error", err)
		respondWithJSON(w, http.StatusOK, map[string]string{"resultado": "erro", "error": err.Error()})
		return
	}

	// 200 OK para o provedor saber que recebemos o evento.
	respondWithJSON(w, http.StatusOK, d)
}

// definitivo indica os erros que um novo envio do mesmo webhook repetiria.
func definitivo(err error) bool {
	return errors.Is(err, service.ErrOperadorNaoEncontrado) ||
		errors.Is(err, service.ErrPagamentoNaoEncontrado) ||
		errors.Is(err, service.ErrValorNaoReconhecido)
}
