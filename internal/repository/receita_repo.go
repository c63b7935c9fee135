package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// ReceitaRepository é o livro de receitas. Só insere e lê, nunca altera.
type ReceitaRepository interface {
	Append(ctx context.Context, l domain.LancamentoReceita) (string, error)
	List(ctx context.Context, f FiltroReceita) ([]domain.LancamentoReceita, error)
}

// FiltroReceita restringe a listagem. Campos zerados não filtram.
type FiltroReceita struct {
	De         time.Time
	Ate        time.Time
	OperadorID string
}

type sqlReceitaRepository struct {
	db *sqlx.DB
}

func NewReceitaRepository(db *sqlx.DB) ReceitaRepository {
	return &sqlReceitaRepository{db: db}
}

// Append insere o lançamento e devolve o id gerado.
// Cada pagamento entra no livro uma única vez (UNIQUE em pagamento_id).
func (r *sqlReceitaRepository) Append(ctx context.Context, l domain.LancamentoReceita) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := r.db.Rebind(`INSERT INTO receitas (id, operador_id, pagamento_id, metodo, valor_centavos, origem, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, l.ID, l.OperadorID, l.PagamentoID, l.Metodo, l.ValorCentavos, l.Origem, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrLancamentoDuplicado
		}
		return "", fmt.Errorf("erro ao lançar receita: %w", err)
	}
	return l.ID, nil
}

func (r *sqlReceitaRepository) List(ctx context.Context, f FiltroReceita) ([]domain.LancamentoReceita, error) {
	var (
		where []string
		args  []any
	)
	if !f.De.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.De)
	}
	if !f.Ate.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, f.Ate)
	}
	if f.OperadorID != "" {
		where = append(where, "operador_id = ?")
		args = append(args, f.OperadorID)
	}

	query := `SELECT id, operador_id, pagamento_id, metodo, valor_centavos, origem, created_at FROM receitas`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at"

	var lancamentos []domain.LancamentoReceita
	if err := r.db.SelectContext(ctx, &lancamentos, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("erro ao listar receitas: %w", err)
	}
	return lancamentos, nil
}
