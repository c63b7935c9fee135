// Package assinatura concentra as regras de renovação da assinatura do PDV.
// Nada aqui faz I/O: quem chama busca os registros, decide e persiste o resultado.
package assinatura

import (
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Tier é uma faixa da tabela de preços. Valores são aceitos com tolerância,
// dentro de [MinCentavos, MaxCentavos].
type Tier struct {
	Nome          string
	PrecoCentavos int64
	MinCentavos   int64
	MaxCentavos   int64
	Dias          int
	Metodo        domain.MetodoPagamento
}

func (t Tier) contem(centavos int64) bool {
	return centavos >= t.MinCentavos && centavos <= t.MaxCentavos
}

// distancia é quantos centavos faltam para o valor cair dentro da faixa.
func (t Tier) distancia(centavos int64) int64 {
	switch {
	case centavos < t.MinCentavos:
		return t.MinCentavos - centavos
	case centavos > t.MaxCentavos:
		return centavos - t.MaxCentavos
	default:
		return 0
	}
}

// Bandas define a idade de um pagamento pendente a partir da qual ele pode ser
// conciliado manualmente (Pendente) e a partir da qual é cancelado (Cancelar).
type Bandas struct {
	Pendente time.Duration
	Cancelar time.Duration
}

// PoliticaValor decide o que fazer com um valor que não cai em nenhuma faixa.
type PoliticaValor string

const (
	PoliticaMaisProximo PoliticaValor = "nearest"
	PoliticaRejeitar    PoliticaValor = "reject"
)

// Regras é a configuração injetada nas funções deste pacote.
type Regras struct {
	Tiers         []Tier
	Bandas        Bandas
	PoliticaValor PoliticaValor
}

// DefaultRegras devolve a tabela de preços em produção: PIX de 60 dias e cartão de 180 dias.
func DefaultRegras() Regras {
	return Regras{
		Tiers: []Tier{
			{Nome: "pix", PrecoCentavos: 5990, MinCentavos: 5900, MaxCentavos: 6000, Dias: 60, Metodo: domain.MetodoPix},
			{Nome: "card", PrecoCentavos: 14970, MinCentavos: 14900, MaxCentavos: 15000, Dias: 180, Metodo: domain.MetodoCartao},
		},
		Bandas: Bandas{
			Pendente: 4 * time.Minute,
			Cancelar: 10 * time.Minute,
		},
		PoliticaValor: PoliticaMaisProximo,
	}
}

// TierFor devolve a faixa do valor informado. Quando o valor não cai em nenhuma
// faixa, devolve a faixa mais próxima e exato=false.
func (r Regras) TierFor(centavos int64) (tier Tier, exato bool) {
	if len(r.Tiers) == 0 {
		return Tier{}, false
	}
	melhor := r.Tiers[0]
	for _, t := range r.Tiers {
		if t.contem(centavos) {
			return t, true
		}
		if t.distancia(centavos) < melhor.distancia(centavos) {
			melhor = t
		}
	}
	return melhor, false
}

// TierForMetodo devolve a faixa vendida no checkout para o método.
func (r Regras) TierForMetodo(m domain.MetodoPagamento) (Tier, bool) {
	for _, t := range r.Tiers {
		if t.Metodo == m {
			return t, true
		}
	}
	return Tier{}, false
}
