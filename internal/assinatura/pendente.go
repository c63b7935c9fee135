package assinatura

import (
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Situacao é a decisão sobre um pagamento pendente conforme a idade dele.
type Situacao string

const (
	// O gateway ainda pode estar processando; não vale consultar.
	SituacaoAguardar Situacao = "aguardar"
	// Pode ser conciliado se o gateway confirmar a aprovação.
	SituacaoElegivel Situacao = "elegivel"
	// Passou da janela; cancela e nunca mais concilia.
	SituacaoCancelar Situacao = "cancelar"
)

// Classify aplica as bandas de tempo a um pagamento pendente.
// A banda elegível inclui as duas bordas.
func Classify(pg domain.Pagamento, now time.Time, b Bandas) Situacao {
	idade := now.Sub(pg.CreatedAt)
	switch {
	case idade < b.Pendente:
		return SituacaoAguardar
	case idade <= b.Cancelar:
		return SituacaoElegivel
	default:
		return SituacaoCancelar
	}
}

// Cancel devolve a cópia cancelada do pagamento.
func Cancel(pg domain.Pagamento, now time.Time) domain.Pagamento {
	pg.Status = domain.StatusCancelado
	pg.UpdatedAt = now
	return pg
}
