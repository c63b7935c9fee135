package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

const ProvedorStripe = "stripe"

// chave de metadata onde o checkout grava o operador.
const metadataOperador = "operador_id"

// StripeConfig configura o cliente da Stripe.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
	// BaseURL troca o endpoint da API (usado nos testes).
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int64
}

// Stripe implementa Gateway e WebhookParser com PaymentIntents.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(cfg StripeConfig) *Stripe {
	var backends *stripe.Backends
	if cfg.BaseURL != "" || cfg.HTTPClient != nil {
		bc := &stripe.BackendConfig{
			HTTPClient:        cfg.HTTPClient,
			MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelWarn},
		}
		if cfg.BaseURL != "" {
			bc.URL = stripe.String(cfg.BaseURL)
		}
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, bc),
			Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, bc),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, bc),
		}
	}

	api := &client.API{}
	api.Init(cfg.APIKey, backends)
	return &Stripe{api: api, webhookSecret: cfg.WebhookSecret}
}

func (s *Stripe) GetPayment(ctx context.Context, externalID string) (*Pagamento, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(externalID, params)
	if err != nil {
		return nil, stripeErro(err)
	}
	return &Pagamento{
		ExternalID:     pi.ID,
		Status:         stripeStatus(pi.Status),
		ValorCentavos:  pi.Amount,
		PayerReference: pi.Metadata[metadataOperador],
		Metodo:         domain.MetodoCartao,
	}, nil
}

// CreateCharge cria um PaymentIntent em BRL. O front-end confirma com o client secret.
func (s *Stripe) CreateCharge(ctx context.Context, c Cobranca) (*Checkout, error) {
	if c.Metodo != "" && c.Metodo != domain.MetodoCartao {
		return nil, fmt.Errorf("stripe: método %q não suportado", c.Metodo)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(c.ValorCentavos),
		Currency:           stripe.String(string(stripe.CurrencyBRL)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String(c.Descricao),
	}
	if c.PayerEmail != "" {
		params.ReceiptEmail = stripe.String(c.PayerEmail)
	}
	params.Context = ctx
	params.AddMetadata(metadataOperador, c.OperadorID)
	if c.IdempotencyKey != "" {
		params.SetIdempotencyKey(c.IdempotencyKey)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		slog.Error("Falha ao criar PaymentIntent na Stripe", "operador_id", c.OperadorID, "error", err)
		return nil, stripeErro(err)
	}
	return &Checkout{
		ExternalID:   pi.ID,
		Status:       stripeStatus(pi.Status),
		ClientSecret: pi.ClientSecret,
	}, nil
}

// ParseWebhook verifica o cabeçalho Stripe-Signature. Só eventos de PaymentIntent
// são relevantes; o estado real é sempre relido com GetPayment.
func (s *Stripe) ParseWebhook(w Webhook) (string, bool, error) {
	event, err := webhook.ConstructEventWithOptions(w.Body, w.Headers.Get("Stripe-Signature"), s.webhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                webhook.DefaultTolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		slog.Warn("Erro ao verificar a assinatura do webhook da Stripe", "error", err)
		return "", false, ErrAssinaturaInvalida
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return "", false, fmt.Errorf("%w: payload inválido", ErrAssinaturaInvalida)
		}
		return pi.ID, pi.ID != "", nil
	default:
		slog.Info("Webhook da Stripe recebido, mas não tratado", "event_type", event.Type)
		return "", false, nil
	}
}

func stripeStatus(s stripe.PaymentIntentStatus) Status {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusAprovado
	case stripe.PaymentIntentStatusCanceled:
		return StatusCancelado
	default:
		return StatusPendente
	}
}

func stripeErro(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch {
		case se.HTTPStatusCode == http.StatusNotFound:
			return ErrPagamentoInexistente
		case se.HTTPStatusCode >= 500 || se.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrIndisponivel, err)
		default:
			return fmt.Errorf("stripe: %w", err)
		}
	}
	return fmt.Errorf("%w: %v", ErrIndisponivel, err)
}
