package domain

import "time"

// Origem identifica o ponto de entrada que disparou uma conciliação.
type Origem string

const (
	OrigemWebhook   Origem = "webhook"
	OrigemPolling   Origem = "polling"
	OrigemAdmin     Origem = "admin"
	OrigemVarredura Origem = "varredura"
)

// LancamentoReceita é uma linha do livro de receitas. Só é inserida, nunca alterada.
type LancamentoReceita struct {
	ID            string          `json:"id" db:"id"`
	OperadorID    string          `json:"operador_id" db:"operador_id"`
	PagamentoID   string          `json:"pagamento_id" db:"pagamento_id"`
	Metodo        MetodoPagamento `json:"metodo" db:"metodo"`
	ValorCentavos int64           `json:"valor_centavos" db:"valor_centavos"`
	Origem        Origem          `json:"origem" db:"origem"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
