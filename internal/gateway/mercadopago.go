package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// ProvedorMercadoPago é o nome usado no registro e na coluna pagamentos.provedor.
const ProvedorMercadoPago = "mercadopago"

// MercadoPagoConfig configura o cliente REST do Mercado Pago.
type MercadoPagoConfig struct {
	BaseURL       string
	AccessToken   string
	WebhookSecret string
	Timeout       time.Duration
	MaxRetries    uint64
	// Intervalo inicial entre tentativas; cresce exponencialmente.
	RetryInterval time.Duration
}

// MercadoPago implementa Gateway e WebhookParser sobre a API REST v1.
type MercadoPago struct {
	cfg    MercadoPagoConfig
	client *http.Client
}

func NewMercadoPago(cfg MercadoPagoConfig) *MercadoPago {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &MercadoPago{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// mpPayment é o recorte da resposta de /v1/payments que nos interessa.
type mpPayment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	TransactionAmount float64     `json:"transaction_amount"`
	ExternalReference string      `json:"external_reference"`
	PaymentMethodID   string      `json:"payment_method_id"`
	PaymentTypeID     string      `json:"payment_type_id"`

	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
			TicketURL    string `json:"ticket_url"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (p mpPayment) toPagamento() *Pagamento {
	return &Pagamento{
		ExternalID:     p.ID.String(),
		Status:         mpStatus(p.Status),
		ValorCentavos:  int64(math.Round(p.TransactionAmount * 100)),
		PayerReference: p.ExternalReference,
		Metodo:         mpMetodo(p.PaymentMethodID, p.PaymentTypeID),
	}
}

func mpStatus(s string) Status {
	switch s {
	case "approved":
		return StatusAprovado
	case "rejected":
		return StatusRecusado
	case "cancelled", "refunded", "charged_back":
		return StatusCancelado
	default: // pending, in_process, authorized, in_mediation
		return StatusPendente
	}
}

func mpMetodo(methodID, typeID string) domain.MetodoPagamento {
	switch {
	case methodID == "pix":
		return domain.MetodoPix
	case typeID == "credit_card" || typeID == "debit_card":
		return domain.MetodoCartao
	default:
		return ""
	}
}

func (m *MercadoPago) GetPayment(ctx context.Context, externalID string) (*Pagamento, error) {
	var p mpPayment
	if err := m.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(externalID), nil, "", &p); err != nil {
		return nil, err
	}
	return p.toPagamento(), nil
}

// CreateCharge cria uma cobrança PIX. O id do operador vai em external_reference
// e volta em toda consulta do pagamento.
func (m *MercadoPago) CreateCharge(ctx context.Context, c Cobranca) (*Checkout, error) {
	if c.Metodo != "" && c.Metodo != domain.MetodoPix {
		return nil, fmt.Errorf("mercado pago: método %q não suportado", c.Metodo)
	}

	body := map[string]any{
		"transaction_amount": float64(c.ValorCentavos) / 100,
		"description":        c.Descricao,
		"payment_method_id":  "pix",
		"external_reference": c.OperadorID,
		"payer":              map[string]string{"email": c.PayerEmail},
	}

	var p mpPayment
	if err := m.do(ctx, http.MethodPost, "/v1/payments", body, c.IdempotencyKey, &p); err != nil {
		return nil, err
	}

	td := p.PointOfInteraction.TransactionData
	return &Checkout{
		ExternalID:   p.ID.String(),
		Status:       mpStatus(p.Status),
		QRCode:       td.QRCode,
		QRCodeBase64: td.QRCodeBase64,
		TicketURL:    td.TicketURL,
	}, nil
}

// do executa a chamada com retry exponencial. 4xx não é repetido.
func (m *MercadoPago) do(ctx context.Context, method, path string, in any, idempotencyKey string, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	// permanente marca erros que não valem nova tentativa (4xx, resposta ilegível).
	permanente := false
	falhar := func(err error) error {
		permanente = true
		return backoff.Permanent(err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, m.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return falhar(err)
		}
		req.Header.Set("Authorization", "Bearer "+m.cfg.AccessToken)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set("X-Idempotency-Key", idempotencyKey)
		}

		resp, err := m.client.Do(req)
		if err != nil {
			slog.Warn("Falha de rede ao chamar o Mercado Pago", "path", path, "error", err)
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return falhar(ErrPagamentoInexistente)
		case resp.StatusCode >= 500:
			slog.Warn("Mercado Pago respondeu com erro", "path", path, "status", resp.StatusCode)
			return fmt.Errorf("mercado pago: status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return falhar(fmt.Errorf("mercado pago: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return falhar(fmt.Errorf("mercado pago: resposta inválida: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.cfg.RetryInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, m.cfg.MaxRetries), ctx)

	err := backoff.Retry(operation, policy)
	switch {
	case err == nil:
		return nil
	case permanente:
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %v", ErrIndisponivel, err)
	}
}

// mpNotificacao cobre o corpo do webhook de pagamentos.
type mpNotificacao struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// ParseWebhook aceita o corpo JSON ou os parâmetros de query (data.id, type).
// Com segredo configurado, exige o cabeçalho x-signature válido.
func (m *MercadoPago) ParseWebhook(w Webhook) (string, bool, error) {
	var n mpNotificacao
	if len(bytes.TrimSpace(w.Body)) > 0 {
		if err := json.Unmarshal(w.Body, &n); err != nil {
			return "", false, fmt.Errorf("%w: corpo inválido", ErrAssinaturaInvalida)
		}
	}

	tipo := n.Type
	if tipo == "" {
		tipo = firstNonEmpty(w.Query.Get("type"), w.Query.Get("topic"))
	}
	id := rawID(n.Data.ID)
	if id == "" {
		id = firstNonEmpty(w.Query.Get("data.id"), w.Query.Get("id"))
	}

	if m.cfg.WebhookSecret != "" {
		if err := m.verificarAssinatura(w.Headers, id); err != nil {
			return "", false, err
		}
	}

	if tipo != "payment" || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func (m *MercadoPago) verificarAssinatura(h http.Header, dataID string) error {
	var ts, v1 string
	for _, parte := range strings.Split(h.Get("x-signature"), ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(parte), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return ErrAssinaturaInvalida
	}

	esperado := AssinarMercadoPago(m.cfg.WebhookSecret, dataID, h.Get("x-request-id"), ts)
	if !hmac.Equal([]byte(esperado), []byte(strings.ToLower(v1))) {
		return ErrAssinaturaInvalida
	}
	return nil
}

// AssinarMercadoPago calcula o v1 do cabeçalho x-signature.
func AssinarMercadoPago(secret, dataID, requestID, ts string) string {
	manifest := "id:" + strings.ToLower(dataID) + ";request-id:" + requestID + ";ts:" + ts + ";"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
