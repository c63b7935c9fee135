// Package gateway fala com os provedores de pagamento (Mercado Pago para PIX,
// Stripe para cartão) e traduz as respostas para um formato único.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Status é a visão normalizada do estado do pagamento no provedor.
type Status string

const (
	StatusAprovado  Status = "approved"
	StatusPendente  Status = "pending"
	StatusRecusado  Status = "rejected"
	StatusCancelado Status = "cancelled"
)

var (
	// ErrPagamentoInexistente: o provedor não conhece o id consultado.
	ErrPagamentoInexistente = errors.New("pagamento não existe no provedor")
	// ErrAssinaturaInvalida: o webhook não passou na verificação de assinatura.
	ErrAssinaturaInvalida = errors.New("assinatura do webhook inválida")
	// ErrIndisponivel: falha de rede ou 5xx depois de esgotar as tentativas.
	ErrIndisponivel = errors.New("provedor de pagamento indisponível")
)

// Pagamento é o que o provedor informa sobre um pagamento.
type Pagamento struct {
	ExternalID    string
	Status        Status
	ValorCentavos int64
	// PayerReference carrega o id do operador gravado no checkout.
	PayerReference string
	Metodo         domain.MetodoPagamento
}

// Cobranca é o pedido de criação de um pagamento no provedor.
type Cobranca struct {
	OperadorID     string
	PayerEmail     string
	Metodo         domain.MetodoPagamento
	ValorCentavos  int64
	Descricao      string
	IdempotencyKey string
}

// Checkout é o que o front-end precisa para concluir o pagamento.
type Checkout struct {
	ExternalID string `json:"external_id"`
	Status     Status `json:"status"`
	// PIX copia e cola e a imagem do QR code.
	QRCode       string `json:"qr_code,omitempty"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
	// Cartão: segredo do PaymentIntent para o Stripe.js.
	ClientSecret string `json:"client_secret,omitempty"`
}

// Webhook é a requisição recebida do provedor, sem interpretação.
type Webhook struct {
	Body    []byte
	Headers http.Header
	Query   url.Values
}

// Gateway é a fonte de verdade sobre pagamentos.
type Gateway interface {
	GetPayment(ctx context.Context, externalID string) (*Pagamento, error)
	CreateCharge(ctx context.Context, c Cobranca) (*Checkout, error)
}

// WebhookParser verifica a notificação e extrai o id do pagamento.
// relevante=false significa que o evento não é sobre pagamento e deve ser ignorado.
type WebhookParser interface {
	ParseWebhook(w Webhook) (externalID string, relevante bool, err error)
}
