package domain

import "time"

// StatusPagamento é o estado de uma tentativa de pagamento.
// Nasce pendente e vai para exatamente um estado final.
type StatusPagamento string

const (
	StatusPendente  StatusPagamento = "pendente"
	StatusPago      StatusPagamento = "pago"
	StatusCancelado StatusPagamento = "cancelado"
)

// Terminal informa se o status não admite mais transições.
func (s StatusPagamento) Terminal() bool {
	return s == StatusPago || s == StatusCancelado
}

// Pagamento registra uma tentativa de checkout de assinatura.
type Pagamento struct {
	ID         string `json:"id" db:"id"`
	OperadorID string `json:"operador_id" db:"operador_id"`

	// Gateway que processa o pagamento (ex: "mercadopago", "stripe").
	Provedor string `json:"provedor" db:"provedor"`

	// ID do pagamento no gateway. Chave de deduplicação junto com Provedor.
	ExternalPaymentID string `json:"external_payment_id,omitempty" db:"external_payment_id"`

	ValorCentavos int64           `json:"valor_centavos" db:"valor_centavos"`
	Metodo        MetodoPagamento `json:"metodo,omitempty" db:"metodo"`

	// Dias comprados, derivados do valor pela tabela de preços.
	Dias int `json:"dias" db:"dias"`

	Status    StatusPagamento `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	PaidAt    *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
}
