package domain

import "time"

// MetodoPagamento é a forma usada na compra da assinatura.
type MetodoPagamento string

const (
	MetodoPix    MetodoPagamento = "pix"
	MetodoCartao MetodoPagamento = "card"
)

// Valid informa se o método é um dos aceitos pelo checkout.
func (m MetodoPagamento) Valid() bool {
	return m == MetodoPix || m == MetodoCartao
}

// Operador é o assinante do PDV. Só usa o sistema enquanto a assinatura estiver em dia.
type Operador struct {
	ID    string `json:"id" db:"id"`
	Nome  string `json:"nome" db:"nome"`
	Email string `json:"email" db:"email"`

	// --- CAMPOS DA ASSINATURA ---

	Active          bool `json:"active" db:"active"`
	Suspended       bool `json:"suspended" db:"suspended"`
	AwaitingPayment bool `json:"awaiting_payment" db:"awaiting_payment"`

	// Vazio enquanto o operador nunca pagou.
	PaymentMethod MetodoPagamento `json:"payment_method,omitempty" db:"payment_method"`

	// Quantidade de dias comprada no último pagamento.
	SubscriptionDays int `json:"subscription_days" db:"subscription_days"`

	LastPaymentAt *time.Time `json:"last_payment_at,omitempty" db:"last_payment_at"`

	// Momento em que a assinatura vence. Nil significa que nenhum pagamento foi concluído.
	NextDueAt *time.Time `json:"next_due_at,omitempty" db:"next_due_at"`

	// Controle de concorrência otimista: incrementado a cada renovação gravada.
	Versao int64 `json:"-" db:"versao"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Acesso é a resposta do portão de assinatura para um operador.
type Acesso struct {
	OperadorID string     `json:"operador_id"`
	Liberado   bool       `json:"liberado"`
	Motivo     string     `json:"motivo"`
	NextDueAt  *time.Time `json:"next_due_at,omitempty"`
}

// Motivos devolvidos em Acesso.Motivo.
const (
	MotivoAtivo               = "ativo"
	MotivoSuspenso            = "suspenso"
	MotivoAguardandoPagamento = "aguardando_pagamento"
	MotivoExpirado            = "expirado"
)
