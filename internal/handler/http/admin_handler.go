package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
)

type ReceitaService interface {
	List(ctx context.Context, de, ate time.Time, operadorID string) ([]domain.LancamentoReceita, error)
	Export(ctx context.Context, w io.Writer, de, ate time.Time, operadorID string) error
}

type reprocessarRequest struct {
	Provedor          string `json:"provedor"`
	ExternalPaymentID string `json:"external_payment_id" validate:"required"`
}

// AdminHandler reúne as ações de manutenção que antes eram scripts avulsos.
type AdminHandler struct {
	assinaturas AssinaturaService
	operadores  OperadorService
	receitas    ReceitaService
}

func NewAdminHandler(a AssinaturaService, o OperadorService, r ReceitaService) *AdminHandler {
	return &AdminHandler{assinaturas: a, operadores: o, receitas: r}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/pagamentos/reprocessar", h.Reprocess)
	r.Post("/pagamentos/varrer", h.Sweep)
	r.Post("/operadores/{id}/suspender", h.Suspend)
	r.Post("/operadores/{id}/reativar", h.Reactivate)
	r.Get("/receitas", h.ListReceitas)
	r.Get("/receitas.xlsx", h.ExportReceitas)

	return r
}

// @Summary      Reprocessa um pagamento
// @Description  Concilia manualmente um pagamento pelo id no gateway. Pagamentos já pagos não são reprocessados
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        pagamento  body      reprocessarRequest  true  "Provedor (padrão mercadopago) e id no gateway"
// @Success      200        {object}  service.Desfecho
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Failure      503        {object}  map[string]string
// @Router       /admin/pagamentos/reprocessar [post]
func (h *AdminHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[reprocessarRequest](w, r)
	if !ok {
		return
	}
	if req.Provedor == "" {
		req.Provedor = gateway.ProvedorMercadoPago
	}

	d, err := h.assinaturas.ProcessPayment(r.Context(), req.Provedor, req.ExternalPaymentID, domain.OrigemAdmin)
	if err != nil {
		respondWithServiceError(w, err, "Erro ao reprocessar pagamento")
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

// @Summary      Varre os pagamentos pendentes
// @Description  Concilia os aprovados e cancela os que passaram da janela
// @Tags         admin
// @Produce      json
// @Success      200  {object}  service.Varredura
// @Router       /admin/pagamentos/varrer [post]
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	v, err := h.assinaturas.SweepPending(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Erro ao varrer pendentes")
		return
	}
	respondWithJSON(w, http.StatusOK, v)
}

// @Summary      Suspende um operador
// @Tags         admin
// @Param        id   path      string  true  "ID do operador"
// @Success      204  {string}  string "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /admin/operadores/{id}/suspender [post]
func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	if err := h.operadores.Suspend(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err, "Erro ao suspender operador")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Reativa um operador suspenso
// @Tags         admin
// @Param        id   path      string  true  "ID do operador"
// @Success      204  {string}  string "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /admin/operadores/{id}/reativar [post]
func (h *AdminHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.operadores.Reactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err, "Erro ao reativar operador")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Lista o livro de receitas
// @Tags         admin
// @Produce      json
// @Param        de        query     string  false  "Início (YYYY-MM-DD)"
// @Param        ate       query     string  false  "Fim exclusivo (YYYY-MM-DD)"
// @Param        operador  query     string  false  "ID do operador"
// @Success      200       {array}   domain.LancamentoReceita
// @Failure      400       {object}  map[string]string
// @Router       /admin/receitas [get]
func (h *AdminHandler) ListReceitas(w http.ResponseWriter, r *http.Request) {
	de, ate, err := periodo(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.receitas.List(r.Context(), de, ate, r.URL.Query().Get("operador"))
	if err != nil {
		respondWithServiceError(w, err, "Erro ao listar receitas")
		return
	}
	respondWithJSON(w, http.StatusOK, l)
}

// @Summary      Exporta o livro de receitas em XLSX
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        de        query     string  false  "Início (YYYY-MM-DD)"
// @Param        ate       query     string  false  "Fim exclusivo (YYYY-MM-DD)"
// @Param        operador  query     string  false  "ID do operador"
// @Success      200       {file}    file
// @Failure      400       {object}  map[string]string
// @Router       /admin/receitas.xlsx [get]
func (h *AdminHandler) ExportReceitas(w http.ResponseWriter, r *http.Request) {
	de, ate, err := periodo(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// monta em memória: um erro no meio ainda pode virar 500
	var buf bytes.Buffer
	if err := h.receitas.Export(r.Context(), &buf, de, ate, r.URL.Query().Get("operador")); err != nil {
		respondWithServiceError(w, err, "Erro ao exportar receitas")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receitas.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// periodo lê ?de= e ?ate= no formato YYYY-MM-DD, em UTC.
func periodo(r *http.Request) (time.Time, time.Time, error) {
	var de, ate time.Time
	q := r.URL.Query()
	if s := q.Get("de"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return de, ate, fmt.Errorf("parâmetro 'de' inválido: %q", s)
		}
		de = t
	}
	if s := q.Get("ate"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return de, ate, fmt.Errorf("parâmetro 'ate' inválido: %q", s)
		}
		ate = t
	}
	return de, ate, nil
}
