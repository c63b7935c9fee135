package domain

import "time"

type Produto struct {
	ID            int64     `json:"id" db:"id"`
	Nome          string    `json:"nome" db:"nome"`
	SKU           string    `json:"sku" db:"sku"`
	PrecoCentavos int64     `json:"preco_centavos" db:"preco_centavos"`
	Estoque       int       `json:"estoque" db:"estoque"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Venda é um cupom fechado no caixa.
type Venda struct {
	ID            int64       `json:"id" db:"id"`
	OperadorID    string      `json:"operador_id" db:"operador_id"`
	TotalCentavos int64       `json:"total_centavos" db:"total_centavos"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	Itens         []ItemVenda `json:"itens" db:"-"`
}

// ItemVenda guarda o preço do produto no momento da venda.
type ItemVenda struct {
	VendaID               int64 `json:"-" db:"venda_id"`
	ProdutoID             int64 `json:"produto_id" db:"produto_id"`
	Quantidade            int   `json:"quantidade" db:"quantidade"`
	PrecoUnitarioCentavos int64 `json:"preco_unitario_centavos" db:"preco_unitario_centavos"`
}
