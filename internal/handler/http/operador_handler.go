package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
	"github.com/willjrcristo/pdv-assinatura/internal/service"
)

// Para facilitar os testes, o handler depende destas interfaces e não das
// implementações concretas dos serviços.
type OperadorService interface {
	CreateOperador(ctx context.Context, nome, email string) (*domain.Operador, error)
	GetOperador(ctx context.Context, id string) (*domain.Operador, error)
	GetAllOperadores(ctx context.Context) ([]domain.Operador, error)
	UpdateOperador(ctx context.Context, id, nome, email string) (*domain.Operador, error)
	Suspend(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
	CheckAccess(ctx context.Context, id string) (*domain.Acesso, error)
	ListPagamentos(ctx context.Context, id string) ([]domain.Pagamento, error)
}

// AssinaturaService é a parte da conciliação exposta na API.
type AssinaturaService interface {
	ProcessPayment(ctx context.Context, provedor, externalID string, origem domain.Origem) (*service.Desfecho, error)
	CheckPayment(ctx context.Context, pagamentoID string) (*service.Desfecho, error)
	SweepPending(ctx context.Context) (*service.Varredura, error)
	CreateCheckout(ctx context.Context, operadorID string, metodo domain.MetodoPagamento) (*service.CheckoutCriado, error)
	HandleWebhook(ctx context.Context, provedor string, w gateway.Webhook) (*service.Desfecho, error)
}

type operadorRequest struct {
	Nome  string `json:"nome" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
}

type checkoutRequest struct {
	Metodo domain.MetodoPagamento `json:"metodo" validate:"required,oneof=pix card"`
}

// OperadorHandler gerencia as rotas de /operadores.
type OperadorHandler struct {
	service     OperadorService
	assinaturas AssinaturaService
}

func NewOperadorHandler(s OperadorService, a AssinaturaService) *OperadorHandler {
	return &OperadorHandler{service: s, assinaturas: a}
}

func (h *OperadorHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateOperador)               // POST /operadores
	r.Get("/", h.GetAllOperadores)              // GET /operadores
	r.Get("/{id}", h.GetOperador)               // GET /operadores/{id}
	r.Put("/{id}", h.UpdateOperador)            // PUT /operadores/{id}
	r.Get("/{id}/acesso", h.CheckAccess)        // GET /operadores/{id}/acesso
	r.Get("/{id}/pagamentos", h.ListPagamentos) // GET /operadores/{id}/pagamentos
	r.Post("/{id}/checkout", h.CreateCheckout)  // POST /operadores/{id}/checkout

	return r
}

// @Summary      Cadastra um operador
// @Description  O operador nasce aguardando o primeiro pagamento da assinatura
// @Tags         operadores
// @Accept       json
// @Produce      json
// @Param        operador  body      operadorRequest  true  "Nome e e-mail"
// @Success      201       {object}  domain.Operador
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /operadores [post]
func (h *OperadorHandler) CreateOperador(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[operadorRequest](w, r)
	if !ok {
		return
	}

	op, err := h.service.CreateOperador(r.Context(), req.Nome, req.Email)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao criar operador")
		return
	}
	respondWithJSON(w, http.StatusCreated, op)
}

// @Summary      Lista os operadores
// @Tags         operadores
// @Produce      json
// @Success      200  {array}   domain.Operador
// @Failure      500  {object}  map[string]string
// @Router       /operadores [get]
func (h *OperadorHandler) GetAllOperadores(w http.ResponseWriter, r *http.Request) {
	ops, err := h.service.GetAllOperadores(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Erro ao buscar operadores")
		return
	}
	respondWithJSON(w, http.StatusOK, ops)
}

// @Summary      Busca um operador por ID
// @Tags         operadores
// @Produce      json
// @Param        id   path      string  true  "ID do operador"
// @Success      200  {object}  domain.Operador
// @Failure      404  {object}  map[string]string
// @Router       /operadores/{id} [get]
func (h *OperadorHandler) GetOperador(w http.ResponseWriter, r *http.Request) {
	op, err := h.service.GetOperador(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao buscar operador")
		return
	}
	respondWithJSON(w, http.StatusOK, op)
}

// @Summary      Atualiza nome e e-mail do operador
// @Tags         operadores
// @Accept       json
// @Produce      json
// @Param        id        path      string           true  "ID do operador"
// @Param        operador  body      operadorRequest  true  "Nome e e-mail"
// @Success      200       {object}  domain.Operador
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /operadores/{id} [put]
func (h *OperadorHandler) UpdateOperador(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[operadorRequest](w, r)
	if !ok {
		return
	}

	op, err := h.service.UpdateOperador(r.Context(), chi.URLParam(r, "id"), req.Nome, req.Email)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao atualizar operador")
		return
	}
	respondWithJSON(w, http.StatusOK, op)
}

// @Summary      Consulta o portão de assinatura
// @Description  Informa se o operador pode usar o PDV agora e o motivo
// @Tags         operadores
// @Produce      json
// @Param        id   path      string  true  "ID do operador"
// @Success      200  {object}  domain.Acesso
// @Failure      404  {object}  map[string]string
// @Router       /operadores/{id}/acesso [get]
func (h *OperadorHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	acesso, err := h.service.CheckAccess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao consultar acesso")
		return
	}
	respondWithJSON(w, http.StatusOK, acesso)
}

// @Summary      Lista as tentativas de pagamento do operador
// @Tags         operadores
// @Produce      json
// @Param        id   path      string  true  "ID do operador"
// @Success      200  {array}   domain.Pagamento
// @Failure      404  {object}  map[string]string
// @Router       /operadores/{id}/pagamentos [get]
func (h *OperadorHandler) ListPagamentos(w http.ResponseWriter, r *http.Request) {
	pagamentos, err := h.service.ListPagamentos(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao listar pagamentos")
		return
	}
	respondWithJSON(w, http.StatusOK, pagamentos)
}

// @Summary      Inicia o pagamento da assinatura
// @Description  Cria a cobrança no gateway do método (PIX ou cartão) e registra a tentativa pendente
// @Tags         assinaturas
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "ID do operador"
// @Param        metodo   body      checkoutRequest  true  "Método de pagamento"
// @Success      201      {object}  service.CheckoutCriado
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /operadores/{id}/checkout [post]
func (h *OperadorHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[checkoutRequest](w, r)
	if !ok {
		return
	}

	co, err := h.assinaturas.CreateCheckout(r.Context(), chi.URLParam(r, "id"), req.Metodo)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao criar checkout")
		return
	}
	respondWithJSON(w, http.StatusCreated, co)
}
