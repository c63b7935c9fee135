package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// PagamentoRepository guarda as tentativas de pagamento da assinatura.
type PagamentoRepository interface {
	Create(ctx context.Context, pg domain.Pagamento) error
	GetByID(ctx context.Context, id string) (*domain.Pagamento, error)
	GetByExternalID(ctx context.Context, provedor, externalID string) (*domain.Pagamento, error)
	ListPending(ctx context.Context) ([]domain.Pagamento, error)
	ListByOperador(ctx context.Context, operadorID string) ([]domain.Pagamento, error)
	Cancel(ctx context.Context, id string, now time.Time) error
}

const pagamentoColunas = `id, operador_id, provedor, COALESCE(external_payment_id, '') AS external_payment_id,
	valor_centavos, metodo, dias, status, created_at, updated_at, paid_at`

type sqlPagamentoRepository struct {
	db *sqlx.DB
}

func NewPagamentoRepository(db *sqlx.DB) PagamentoRepository {
	return &sqlPagamentoRepository{db: db}
}

// Create grava uma tentativa. O índice único em (provedor, external_payment_id)
// transforma uma segunda gravação do mesmo pagamento em ErrPagamentoDuplicado.
func (r *sqlPagamentoRepository) Create(ctx context.Context, pg domain.Pagamento) error {
	return insertPagamento(ctx, r.db, pg)
}

func (r *sqlPagamentoRepository) GetByID(ctx context.Context, id string) (*domain.Pagamento, error) {
	return r.get(ctx, `SELECT `+pagamentoColunas+` FROM pagamentos WHERE id = ?`, id)
}

func (r *sqlPagamentoRepository) GetByExternalID(ctx context.Context, provedor, externalID string) (*domain.Pagamento, error) {
	return r.get(ctx, `SELECT `+pagamentoColunas+` FROM pagamentos
		WHERE provedor = ? AND external_payment_id = ?`, provedor, externalID)
}

func (r *sqlPagamentoRepository) ListPending(ctx context.Context) ([]domain.Pagamento, error) {
	var pagamentos []domain.Pagamento
	query := r.db.Rebind(`SELECT ` + pagamentoColunas + ` FROM pagamentos WHERE status = ? ORDER BY created_at`)
	if err := r.db.SelectContext(ctx, &pagamentos, query, domain.StatusPendente); err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos pendentes: %w", err)
	}
	return pagamentos, nil
}

func (r *sqlPagamentoRepository) ListByOperador(ctx context.Context, operadorID string) ([]domain.Pagamento, error) {
	var pagamentos []domain.Pagamento
	query := r.db.Rebind(`SELECT ` + pagamentoColunas + ` FROM pagamentos WHERE operador_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &pagamentos, query, operadorID); err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos do operador: %w", err)
	}
	return pagamentos, nil
}

// Cancel só vale para pagamento pendente. Se outra rotina já finalizou o
// pagamento, devolve ErrPagamentoJaFinalizado e nada muda.
func (r *sqlPagamentoRepository) Cancel(ctx context.Context, id string, now time.Time) error {
	query := r.db.Rebind(`UPDATE pagamentos SET status = ?, updated_at = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, query, domain.StatusCancelado, now, id, domain.StatusPendente)
	if err != nil {
		return fmt.Errorf("erro ao cancelar pagamento: %w", err)
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

func (r *sqlPagamentoRepository) get(ctx context.Context, query string, args ...any) (*domain.Pagamento, error) {
	var pg domain.Pagamento
	if err := r.db.GetContext(ctx, &pg, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar pagamento: %w", err)
	}
	return &pg, nil
}

func insertPagamento(ctx context.Context, e sqlx.ExtContext, pg domain.Pagamento) error {
	query := e.Rebind(`INSERT INTO pagamentos (id, operador_id, provedor, external_payment_id,
		valor_centavos, metodo, dias, status, created_at, updated_at, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := e.ExecContext(ctx, query,
		pg.ID, pg.OperadorID, pg.Provedor, nullString(pg.ExternalPaymentID),
		pg.ValorCentavos, pg.Metodo, pg.Dias, pg.Status, pg.CreatedAt, pg.UpdatedAt, pg.PaidAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPagamentoDuplicado
		}
		return fmt.Errorf("erro ao inserir pagamento: %w", err)
	}
	return nil
}
