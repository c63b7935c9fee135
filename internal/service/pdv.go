package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
)

// PDVService é o caixa: catálogo de produtos e registro de vendas.
// O acesso já foi liberado pelo portão de assinatura antes de chegar aqui.
type PDVService struct {
	produtos repository.ProdutoRepository
	vendas   repository.VendaRepository
	now      func() time.Time
}

func NewPDVService(produtos repository.ProdutoRepository, vendas repository.VendaRepository, now func() time.Time) *PDVService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PDVService{produtos: produtos, vendas: vendas, now: now}
}

func validarProduto(p domain.Produto) error {
	if strings.TrimSpace(p.Nome) == "" || strings.TrimSpace(p.SKU) == "" {
		return ErrDadosInvalidos
	}
	if p.PrecoCentavos <= 0 || p.Estoque < 0 {
		return ErrDadosInvalidos
	}
	return nil
}

func (s *PDVService) CreateProduto(ctx context.Context, p domain.Produto) (*domain.Produto, error) {
	if err := validarProduto(p); err != nil {
		return nil, err
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	id, err := s.produtos.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrSKUDuplicado) {
			return nil, ErrSKUEmUso
		}
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *PDVService) GetProduto(ctx context.Context, id int64) (*domain.Produto, error) {
	p, err := s.produtos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProdutoNaoEncontrado
	}
	return p, nil
}

func (s *PDVService) GetAllProdutos(ctx context.Context) ([]domain.Produto, error) {
	return s.produtos.GetAll(ctx)
}

func (s *PDVService) UpdateProduto(ctx context.Context, id int64, p domain.Produto) (*domain.Produto, error) {
	if err := validarProduto(p); err != nil {
		return nil, err
	}
	atual, err := s.GetProduto(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.CreatedAt = atual.CreatedAt
	p.UpdatedAt = s.now()

	if err := s.produtos.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrSKUDuplicado) {
			return nil, ErrSKUEmUso
		}
		return nil, err
	}
	return &p, nil
}

func (s *PDVService) DeleteProduto(ctx context.Context, id int64) error {
	if _, err := s.GetProduto(ctx, id); err != nil {
		return err
	}
	return s.produtos.Delete(ctx, id)
}

// RegisterSale fecha um cupom. Itens repetidos do mesmo produto são somados.
func (s *PDVService) RegisterSale(ctx context.Context, operadorID string, itens []domain.ItemVenda) (*domain.Venda, error) {
	if operadorID == "" || len(itens) == 0 {
		return nil, ErrDadosInvalidos
	}

	var agrupados []domain.ItemVenda
	posicao := make(map[int64]int)
	for _, it := range itens {
		if it.ProdutoID <= 0 || it.Quantidade <= 0 {
			return nil, ErrDadosInvalidos
		}
		if i, ok := posicao[it.ProdutoID]; ok {
			agrupados[i].Quantidade += it.Quantidade
			continue
		}
		posicao[it.ProdutoID] = len(agrupados)
		agrupados = append(agrupados, domain.ItemVenda{ProdutoID: it.ProdutoID, Quantidade: it.Quantidade})
	}

	v, err := s.vendas.Create(ctx, domain.Venda{
		OperadorID: operadorID,
		CreatedAt:  s.now(),
		Itens:      agrupados,
	})
	switch {
	case errors.Is(err, repository.ErrEstoqueInsuficiente):
		return nil, fmt.Errorf("%w: %v", ErrEstoqueInsuficiente, err)
	case errors.Is(err, repository.ErrProdutoInexistente):
		return nil, fmt.Errorf("%w: %v", ErrProdutoNaoEncontrado, err)
	case err != nil:
		return nil, err
	}
	return v, nil
}

func (s *PDVService) ListSales(ctx context.Context, operadorID string) ([]domain.Venda, error) {
	return s.vendas.ListByOperador(ctx, operadorID)
}
