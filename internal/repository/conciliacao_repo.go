package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Liquidacao é o resultado de uma conciliação pronto para ser gravado.
type Liquidacao struct {
	// Pagamento já com status pago.
	Pagamento domain.Pagamento
	// Operador renovado. Versao deve ser a lida antes da conciliação.
	Operador domain.Operador
	// NovoPagamento indica que não havia tentativa registrada: o pagamento é inserido em vez de atualizado.
	NovoPagamento bool
}

// ConciliacaoRepository grava pagamento e operador na mesma transação.
type ConciliacaoRepository interface {
	Settle(ctx context.Context, l Liquidacao) error
}

type sqlConciliacaoRepository struct {
	db *sqlx.DB
}

func NewConciliacaoRepository(db *sqlx.DB) ConciliacaoRepository {
	return &sqlConciliacaoRepository{db: db}
}

// Settle marca o pagamento como pago e renova o operador.
//
// Erros que significam "alguém chegou antes":
//   - ErrPagamentoJaFinalizado: o pagamento deixou de estar pendente;
//   - ErrPagamentoDuplicado: o pagamento novo já foi inserido por outra requisição;
//   - ErrOperadorAlterado: o operador mudou depois da leitura (a conciliação deve ser refeita).
//
// Em qualquer erro nada é gravado.
func (r *sqlConciliacaoRepository) Settle(ctx context.Context, l Liquidacao) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	if l.NovoPagamento {
		if err := insertPagamento(ctx, tx, l.Pagamento); err != nil {
			return err
		}
	} else if err := marcarPago(ctx, tx, l.Pagamento); err != nil {
		return err
	}

	if err := renovarOperador(ctx, tx, l.Operador); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar transação: %w", err)
	}
	return nil
}

func marcarPago(ctx context.Context, tx *sqlx.Tx, pg domain.Pagamento) error {
	query := tx.Rebind(`UPDATE pagamentos
		SET status = ?, external_payment_id = ?, valor_centavos = ?, metodo = ?, dias = ?, paid_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`)

	res, err := tx.ExecContext(ctx, query,
		domain.StatusPago, nullString(pg.ExternalPaymentID), pg.ValorCentavos, pg.Metodo, pg.Dias, pg.PaidAt, pg.UpdatedAt,
		pg.ID, domain.StatusPendente)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPagamentoDuplicado
		}
		return fmt.Errorf("erro ao marcar pagamento como pago: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPagamentoJaFinalizado
	}
	return nil
}

func renovarOperador(ctx context.Context, tx *sqlx.Tx, op domain.Operador) error {
	query := tx.Rebind(`UPDATE operadores
		SET active = ?, suspended = ?, awaiting_payment = ?, payment_method = ?, subscription_days = ?,
			last_payment_at = ?, next_due_at = ?, updated_at = ?, versao = versao + 1
		WHERE id = ? AND versao = ?`)

	res, err := tx.ExecContext(ctx, query,
		op.Active, op.Suspended, op.AwaitingPayment, op.PaymentMethod, op.SubscriptionDays,
		op.LastPaymentAt, op.NextDueAt, op.UpdatedAt,
		op.ID, op.Versao)
	if err != nil {
		return fmt.Errorf("erro ao renovar operador: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOperadorAlterado
	}
	return nil
}
