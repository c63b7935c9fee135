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

// OperadorRepository define as operações de persistência dos operadores.
// Usar uma interface nos permite trocar o banco (SQLite ou Postgres) sem mexer no serviço.
type OperadorRepository interface {
	Create(ctx context.Context, op domain.Operador) error
	GetAll(ctx context.Context) ([]domain.Operador, error)
	GetByID(ctx context.Context, id string) (*domain.Operador, error)
	Update(ctx context.Context, op domain.Operador) error
	SetSuspended(ctx context.Context, id string, suspended bool, now time.Time) error
}

const operadorColunas = `id, nome, email, active, suspended, awaiting_payment, payment_method,
	subscription_days, last_payment_at, next_due_at, versao, created_at, updated_at`

type sqlOperadorRepository struct {
	db *sqlx.DB
}

// NewOperadorRepository é a "fábrica" do repositório de operadores.
func NewOperadorRepository(db *sqlx.DB) OperadorRepository {
	return &sqlOperadorRepository{db: db}
}

// --- MÉTODOS DA IMPLEMENTAÇÃO ---

func (r *sqlOperadorRepository) Create(ctx context.Context, op domain.Operador) error {
	query := r.db.Rebind(`INSERT INTO operadores (` + operadorColunas + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		op.ID, op.Nome, op.Email, op.Active, op.Suspended, op.AwaitingPayment, op.PaymentMethod,
		op.SubscriptionDays, op.LastPaymentAt, op.NextDueAt, op.Versao, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailDuplicado
		}
		return fmt.Errorf("erro ao inserir operador: %w", err)
	}
	return nil
}

func (r *sqlOperadorRepository) GetAll(ctx context.Context) ([]domain.Operador, error) {
	var operadores []domain.Operador
	err := r.db.SelectContext(ctx, &operadores, `SELECT `+operadorColunas+` FROM operadores ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar operadores: %w", err)
	}
	return operadores, nil
}

func (r *sqlOperadorRepository) GetByID(ctx context.Context, id string) (*domain.Operador, error) {
	return getOperador(ctx, r.db, id)
}

// Update altera só os dados cadastrais; a assinatura muda apenas pela conciliação.
func (r *sqlOperadorRepository) Update(ctx context.Context, op domain.Operador) error {
	query := r.db.Rebind(`UPDATE operadores SET nome = ?, email = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, op.Nome, op.Email, op.UpdatedAt, op.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailDuplicado
		}
		return fmt.Errorf("erro ao atualizar operador: %w", err)
	}
	return nil
}

func (r *sqlOperadorRepository) SetSuspended(ctx context.Context, id string, suspended bool, now time.Time) error {
	query := r.db.Rebind(`UPDATE operadores SET suspended = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, suspended, now, id)
	if err != nil {
		return fmt.Errorf("erro ao alterar suspensão do operador: %w", err)
	}
	return nil
}

// getOperador serve tanto para o *sqlx.DB quanto para uma *sqlx.Tx.
// Retorna nil, nil se o operador não existir.
func getOperador(ctx context.Context, q sqlx.ExtContext, id string) (*domain.Operador, error) {
	var op domain.Operador
	query := q.Rebind(`SELECT ` + operadorColunas + ` FROM operadores WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &op, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar operador: %w", err)
	}
	return &op, nil
}
