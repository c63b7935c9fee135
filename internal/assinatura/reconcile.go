package assinatura

import (
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Resultado é o que Reconcile pede para o chamador persistir.
type Resultado struct {
	Operador   domain.Operador
	Pagamento  domain.Pagamento
	Lancamento domain.LancamentoReceita
	Tier       Tier

	// ForaDaTabela indica que o valor não caiu em nenhuma faixa e a mais próxima foi usada.
	ForaDaTabela bool
}

// Reconcile transforma um pagamento já aprovado pelo gateway em cobertura de assinatura.
//
// Se o operador ainda tem assinatura vigente, os dias comprados são somados ao
// vencimento atual; se não tem (nunca pagou ou já venceu), a contagem começa em now.
// Os valores recebidos não são alterados.
func Reconcile(op domain.Operador, pg domain.Pagamento, now time.Time, regras Regras) Resultado {
	tier, exato := regras.TierFor(pg.ValorCentavos)

	base := now
	if op.NextDueAt != nil && op.NextDueAt.After(now) {
		base = *op.NextDueAt
	}
	vencimento := base.AddDate(0, 0, tier.Dias)

	metodo := pg.Metodo
	if metodo == "" {
		metodo = tier.Metodo
	}

	ultimoPagamento := now
	novoOp := op
	novoOp.Active = true
	novoOp.Suspended = false
	novoOp.AwaitingPayment = false
	novoOp.PaymentMethod = metodo
	novoOp.LastPaymentAt = &ultimoPagamento
	novoOp.SubscriptionDays = tier.Dias
	novoOp.NextDueAt = &vencimento
	novoOp.UpdatedAt = now

	pagoEm := now
	novoPg := pg
	novoPg.Status = domain.StatusPago
	novoPg.PaidAt = &pagoEm
	novoPg.Dias = tier.Dias
	novoPg.Metodo = metodo
	novoPg.UpdatedAt = now

	return Resultado{
		Operador:  novoOp,
		Pagamento: novoPg,
		Lancamento: domain.LancamentoReceita{
			OperadorID:    op.ID,
			PagamentoID:   pg.ID,
			Metodo:        metodo,
			ValorCentavos: pg.ValorCentavos,
			CreatedAt:     now,
		},
		Tier:         tier,
		ForaDaTabela: !exato,
	}
}

// Access calcula se o operador pode usar o PDV em now.
func Access(op domain.Operador, now time.Time) domain.Acesso {
	a := domain.Acesso{OperadorID: op.ID, NextDueAt: op.NextDueAt}
	switch {
	case op.Suspended:
		a.Motivo = domain.MotivoSuspenso
	case op.NextDueAt == nil:
		a.Motivo = domain.MotivoAguardandoPagamento
	case op.NextDueAt.After(now):
		a.Liberado = true
		a.Motivo = domain.MotivoAtivo
	default:
		a.Motivo = domain.MotivoExpirado
	}
	return a
}

// Usable é o atalho de Access para quem só precisa do sim/não.
func Usable(op domain.Operador, now time.Time) bool {
	return Access(op, now).Liberado
}
