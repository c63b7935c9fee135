package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

type PDVService interface {
	CreateProduto(ctx context.Context, p domain.Produto) (*domain.Produto, error)
	GetProduto(ctx context.Context, id int64) (*domain.Produto, error)
	GetAllProdutos(ctx context.Context) ([]domain.Produto, error)
	UpdateProduto(ctx context.Context, id int64, p domain.Produto) (*domain.Produto, error)
	DeleteProduto(ctx context.Context, id int64) error
	RegisterSale(ctx context.Context, operadorID string, itens []domain.ItemVenda) (*domain.Venda, error)
	ListSales(ctx context.Context, operadorID string) ([]domain.Venda, error)
}

type produtoRequest struct {
	Nome          string `json:"nome" validate:"required,max=200"`
	SKU           string `json:"sku" validate:"required,max=64"`
	PrecoCentavos int64  `json:"preco_centavos" validate:"gt=0"`
	Estoque       int    `json:"estoque" validate:"gte=0"`
}

func (p produtoRequest) produto() domain.Produto {
	return domain.Produto{Nome: p.Nome, SKU: p.SKU, PrecoCentavos: p.PrecoCentavos, Estoque: p.Estoque}
}

type vendaRequest struct {
	Itens []itemRequest `json:"itens" validate:"required,min=1,dive"`
}

type itemRequest struct {
	ProdutoID  int64 `json:"produto_id" validate:"gt=0"`
	Quantidade int   `json:"quantidade" validate:"gt=0"`
}

// PDVHandler gerencia as rotas do caixa. Fica atrás do RequireAssinatura.
type PDVHandler struct {
	service PDVService
}

func NewPDVHandler(s PDVService) *PDVHandler {
	return &PDVHandler{service: s}
}

// Routes recebe o portão de assinatura, aplicado a todas as rotas do PDV.
func (h *PDVHandler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if gate != nil {
		r.Use(gate)
	}

	r.Post("/produtos", h.CreateProduto)
	r.Get("/produtos", h.GetAllProdutos)
	r.Get("/produtos/{id}", h.GetProduto)
	r.Put("/produtos/{id}", h.UpdateProduto)
	r.Delete("/produtos/{id}", h.DeleteProduto)
	r.Post("/vendas", h.RegisterSale)
	r.Get("/vendas", h.ListSales)

	return r
}

func produtoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return id, true
}

// @Summary      Cadastra um produto
// @Tags         pdv
// @Accept       json
// @Produce      json
// @Param        X-Operador-ID  header    string          true  "ID do operador"
// @Param        produto        body      produtoRequest  true  "Dados do produto"
// @Success      201            {object}  domain.Produto
// @Failure      400            {object}  map[string]string
// @Failure      402            {object}  map[string]any
// @Failure      409            {object}  map[string]string
// @Router       /pdv/produtos [post]
func (h *PDVHandler) CreateProduto(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[produtoRequest](w, r)
	if !ok {
		return
	}

	p, err := h.service.CreateProduto(r.Context(), req.produto())
	if err != nil {
		respondWithServiceError(w, err, "Erro ao criar produto")
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

// @Summary      Lista os produtos
// @Tags         pdv
// @Produce      json
// @Param        X-Operador-ID  header    string  true  "ID do operador"
// @Success      200            {array}   domain.Produto
// @Failure      402            {object}  map[string]any
// @Router       /pdv/produtos [get]
func (h *PDVHandler) GetAllProdutos(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.service.GetAllProdutos(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Erro ao buscar produtos")
		return
	}
	respondWithJSON(w, http.StatusOK, produtos)
}

// @Summary      Busca um produto por ID
// @Tags         pdv
// @Produce      json
// @Param        X-Operador-ID  header    string  true  "ID do operador"
// @Param        id             path      int     true  "ID do produto"
// @Success      200            {object}  domain.Produto
// @Failure      404            {object}  map[string]string
// @Router       /pdv/produtos/{id} [get]
func (h *PDVHandler) GetProduto(w http.ResponseWriter, r *http.Request) {
	id, ok := produtoID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProduto(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao buscar produto")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// @Summary      Atualiza um produto
// @Tags         pdv
// @Accept       json
// @Produce      json
// @Param        X-Operador-ID  header    string          true  "ID do operador"
// @Param        id             path      int             true  "ID do produto"
// @Param        produto        body      produtoRequest  true  "Dados do produto"
// @Success      200            {object}  domain.Produto
// @Failure      400            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Router       /pdv/produtos/{id} [put]
func (h *PDVHandler) UpdateProduto(w http.ResponseWriter, r *http.Request) {
	id, ok := produtoID(w, r)
	if !ok {
		return
	}
	req, ok := decodeAndValidate[produtoRequest](w, r)
	if !ok {
		return
	}

	p, err := h.service.UpdateProduto(r.Context(), id, req.produto())
	if err != nil {
		respondWithServiceError(w, err, "Erro ao atualizar produto")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// @Summary      Remove um produto
// @Tags         pdv
// @Param        X-Operador-ID  header    string  true  "ID do operador"
// @Param        id             path      int     true  "ID do produto"
// @Success      204            {string}  string "No Content"
// @Failure      404            {object}  map[string]string
// @Router       /pdv/produtos/{id} [delete]
func (h *PDVHandler) DeleteProduto(w http.ResponseWriter, r *http.Request) {
	id, ok := produtoID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduto(r.Context(), id); err != nil {
		respondWithServiceError(w, err, "Erro ao remover produto")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Registra uma venda
// @Description  Baixa o estoque e grava o cupom com o preço atual de cada produto
// @Tags         pdv
// @Accept       json
// @Produce      json
// @Param        X-Operador-ID  header    string        true  "ID do operador"
// @Param        venda          body      vendaRequest  true  "Itens da venda"
// @Success      201            {object}  domain.Venda
// @Failure      400            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Failure      409            {object}  map[string]string
// @Router       /pdv/vendas [post]
func (h *PDVHandler) RegisterSale(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[vendaRequest](w, r)
	if !ok {
		return
	}

	itens := make([]domain.ItemVenda, 0, len(req.Itens))
	for _, it := range req.Itens {
		itens = append(itens, domain.ItemVenda{ProdutoID: it.ProdutoID, Quantidade: it.Quantidade})
	}

	v, err := h.service.RegisterSale(r.Context(), operadorDaRequisicao(r), itens)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao registrar venda")
		return
	}
	respondWithJSON(w, http.StatusCreated, v)
}

// @Summary      Lista as vendas do operador
// @Tags         pdv
// @Produce      json
// @Param        X-Operador-ID  header    string  true  "ID do operador"
// @Success      200            {array}   domain.Venda
// @Router       /pdv/vendas [get]
func (h *PDVHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	vendas, err := h.service.ListSales(r.Context(), operadorDaRequisicao(r))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao listar vendas")
		return
	}
	respondWithJSON(w, http.StatusOK, vendas)
}

// operadorDaRequisicao prefere o operador liberado pelo portão; sem portão, usa o cabeçalho.
func operadorDaRequisicao(r *http.Request) string {
	if id := OperadorFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(HeaderOperador)
}
