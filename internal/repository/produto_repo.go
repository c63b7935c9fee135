package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// ProdutoRepository define a persistência do catálogo do PDV.
type ProdutoRepository interface {
	Create(ctx context.Context, p domain.Produto) (int64, error)
	GetAll(ctx context.Context) ([]domain.Produto, error)
	GetByID(ctx context.Context, id int64) (*domain.Produto, error)
	Update(ctx context.Context, id int64, p domain.Produto) error
	Delete(ctx context.Context, id int64) error
}

type sqlProdutoRepository struct {
	db *sqlx.DB
}

func NewProdutoRepository(db *sqlx.DB) ProdutoRepository {
	return &sqlProdutoRepository{db: db}
}

func (r *sqlProdutoRepository) Create(ctx context.Context, p domain.Produto) (int64, error) {
	query := r.db.Rebind(`INSERT INTO produtos (nome, sku, preco_centavos, estoque, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query, p.Nome, p.SKU, p.PrecoCentavos, p.Estoque, p.CreatedAt, p.UpdatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrSKUDuplicado
		}
		return 0, fmt.Errorf("erro ao inserir produto: %w", err)
	}
	return id, nil
}

func (r *sqlProdutoRepository) GetAll(ctx context.Context) ([]domain.Produto, error) {
	var produtos []domain.Produto
	err := r.db.SelectContext(ctx, &produtos,
		`SELECT id, nome, sku, preco_centavos, estoque, created_at, updated_at FROM produtos ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}
	return produtos, nil
}

func (r *sqlProdutoRepository) GetByID(ctx context.Context, id int64) (*domain.Produto, error) {
	var p domain.Produto
	query := r.db.Rebind(`SELECT id, nome, sku, preco_centavos, estoque, created_at, updated_at FROM produtos WHERE id = ?`)
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar produto: %w", err)
	}
	return &p, nil
}

func (r *sqlProdutoRepository) Update(ctx context.Context, id int64, p domain.Produto) error {
	query := r.db.Rebind(`UPDATE produtos SET nome = ?, sku = ?, preco_centavos = ?, estoque = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, p.Nome, p.SKU, p.PrecoCentavos, p.Estoque, p.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSKUDuplicado
		}
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}
	return nil
}

func (r *sqlProdutoRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM produtos WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("erro ao remover produto: %w", err)
	}
	return nil
}
