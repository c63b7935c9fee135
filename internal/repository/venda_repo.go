package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// VendaRepository registra os cupons fechados no caixa.
type VendaRepository interface {
	Create(ctx context.Context, v domain.Venda) (*domain.Venda, error)
	ListByOperador(ctx context.Context, operadorID string) ([]domain.Venda, error)
}

type sqlVendaRepository struct {
	db *sqlx.DB
}

func NewVendaRepository(db *sqlx.DB) VendaRepository {
	return &sqlVendaRepository{db: db}
}

// Create baixa o estoque, congela o preço de cada item e grava a venda, tudo
// na mesma transação. Itens devem vir com produto e quantidade; o preço vem do banco.
func (r *sqlVendaRepository) Create(ctx context.Context, v domain.Venda) (*domain.Venda, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	v.TotalCentavos = 0
	for i, item := range v.Itens {
		var preco int64
		err := tx.GetContext(ctx, &preco, tx.Rebind(`SELECT preco_centavos FROM produtos WHERE id = ?`), item.ProdutoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: %d", ErrProdutoInexistente, item.ProdutoID)
			}
			return nil, fmt.Errorf("erro ao buscar preço: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			tx.Rebind(`UPDATE produtos SET estoque = estoque - ?, updated_at = ? WHERE id = ? AND estoque >= ?`),
			item.Quantidade, v.CreatedAt, item.ProdutoID, item.Quantidade)
		if err != nil {
			return nil, fmt.Errorf("erro ao baixar estoque: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, fmt.Errorf("%w: produto %d", ErrEstoqueInsuficiente, item.ProdutoID)
		}

		v.Itens[i].PrecoUnitarioCentavos = preco
		v.TotalCentavos += preco * int64(item.Quantidade)
	}

	err = tx.QueryRowxContext(ctx,
		tx.Rebind(`INSERT INTO vendas (operador_id, total_centavos, created_at) VALUES (?, ?, ?) RETURNING id`),
		v.OperadorID, v.TotalCentavos, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir venda: %w", err)
	}

	for i := range v.Itens {
		v.Itens[i].VendaID = v.ID
		_, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO itens_venda (venda_id, produto_id, quantidade, preco_unitario_centavos) VALUES (?, ?, ?, ?)`),
			v.ID, v.Itens[i].ProdutoID, v.Itens[i].Quantidade, v.Itens[i].PrecoUnitarioCentavos)
		if err != nil {
			return nil, fmt.Errorf("erro ao inserir item da venda: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao confirmar venda: %w", err)
	}
	return &v, nil
}

func (r *sqlVendaRepository) ListByOperador(ctx context.Context, operadorID string) ([]domain.Venda, error) {
	var vendas []domain.Venda
	err := r.db.SelectContext(ctx, &vendas,
		r.db.Rebind(`SELECT id, operador_id, total_centavos, created_at FROM vendas WHERE operador_id = ? ORDER BY created_at DESC, id DESC`),
		operadorID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	if len(vendas) == 0 {
		return vendas, nil
	}

	ids := make([]int64, len(vendas))
	indice := make(map[int64]int, len(vendas))
	for i, v := range vendas {
		ids[i] = v.ID
		indice[v.ID] = i
	}

	query, args, err := sqlx.In(`SELECT venda_id, produto_id, quantidade, preco_unitario_centavos
		FROM itens_venda WHERE venda_id IN (?) ORDER BY venda_id, produto_id`, ids)
	if err != nil {
		return nil, err
	}
	var itens []domain.ItemVenda
	if err := r.db.SelectContext(ctx, &itens, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("erro ao listar itens das vendas: %w", err)
	}
	for _, it := range itens {
		i := indice[it.VendaID]
		vendas[i].Itens = append(vendas[i].Itens, it)
	}
	return vendas, nil
}
