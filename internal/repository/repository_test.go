package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

var agora = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// newTestDB abre um SQLite em memória já migrado.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func criarOperador(t *testing.T, db *sqlx.DB, id string) domain.Operador {
	t.Helper()
	op := domain.Operador{
		ID: id, Nome: "Operador " + id, Email: id + "@loja.com.br",
		AwaitingPayment: true, CreatedAt: agora, UpdatedAt: agora,
	}
	require.NoError(t, NewOperadorRepository(db).Create(context.Background(), op))
	return op
}

func pendente(id, operadorID, externalID string) domain.Pagamento {
	return domain.Pagamento{
		ID: id, OperadorID: operadorID, Provedor: "mercadopago", ExternalPaymentID: externalID,
		ValorCentavos: 5990, Metodo: domain.MetodoPix, Status: domain.StatusPendente,
		CreatedAt: agora, UpdatedAt: agora,
	}
}

func TestMigrate_Idempotente(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(db))
}

func TestOpen_DriverDesconhecido(t *testing.T) {
	_, err := Open("mysql", "x")
	assert.Error(t, err)
}

func TestOperadorRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso - deve criar e buscar operador", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewOperadorRepository(db)
		criarOperador(t, db, "op-1")

		op, err := repo.GetByID(ctx, "op-1")

		require.NoError(t, err)
		require.NotNil(t, op)
		assert.Equal(t, "op-1@loja.com.br", op.Email)
		assert.True(t, op.AwaitingPayment)
		assert.Nil(t, op.NextDueAt)
		assert.True(t, agora.Equal(op.CreatedAt))
	})

	t.Run("não encontrado - deve retornar nil sem erro", func(t *testing.T) {
		repo := NewOperadorRepository(newTestDB(t))

		op, err := repo.GetByID(ctx, "nao-existe")

		assert.NoError(t, err)
		assert.Nil(t, op)
	})

	t.Run("erro - e-mail repetido", func(t *testing.T) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		outro := domain.Operador{ID: "op-2", Nome: "X", Email: "op-1@loja.com.br", CreatedAt: agora, UpdatedAt: agora}

		err := NewOperadorRepository(db).Create(ctx, outro)

		assert.ErrorIs(t, err, ErrEmailDuplicado)
	})

	t.Run("sucesso - suspender e listar", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewOperadorRepository(db)
		criarOperador(t, db, "op-1")
		criarOperador(t, db, "op-2")

		require.NoError(t, repo.SetSuspended(ctx, "op-2", true, agora))
		todos, err := repo.GetAll(ctx)

		require.NoError(t, err)
		require.Len(t, todos, 2)
		op, _ := repo.GetByID(ctx, "op-2")
		assert.True(t, op.Suspended)
	})
}

func TestPagamentoRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso - busca por id externo", func(t *testing.T) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		repo := NewPagamentoRepository(db)
		require.NoError(t, repo.Create(ctx, pendente("pg-1", "op-1", "X")))

		pg, err := repo.GetByExternalID(ctx, "mercadopago", "X")

		require.NoError(t, err)
		require.NotNil(t, pg)
		assert.Equal(t, "pg-1", pg.ID)
		assert.Equal(t, domain.StatusPendente, pg.Status)

		outro, err := repo.GetByExternalID(ctx, "stripe", "X")
		assert.NoError(t, err)
		assert.Nil(t, outro)
	})

	t.Run("erro - mesmo pagamento gravado duas vezes", func(t *testing.T) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		repo := NewPagamentoRepository(db)
		require.NoError(t, repo.Create(ctx, pendente("pg-1", "op-1", "X")))

		err := repo.Create(ctx, pendente("pg-2", "op-1", "X"))

		assert.ErrorIs(t, err, ErrPagamentoDuplicado)
	})

	t.Run("sucesso - id externo vazio não conflita", func(t *testing.T) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		repo := NewPagamentoRepository(db)

		assert.NoError(t, repo.Create(ctx, pendente("pg-1", "op-1", "")))
		assert.NoError(t, repo.Create(ctx, pendente("pg-2", "op-1", "")))

		pg, err := repo.GetByID(ctx, "pg-1")
		require.NoError(t, err)
		assert.Equal(t, "", pg.ExternalPaymentID)
	})

	t.Run("cancelar só vale uma vez", func(t *testing.T) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		repo := NewPagamentoRepository(db)
		require.NoError(t, repo.Create(ctx, pendente("pg-1", "op-1", "X")))

		require.NoError(t, repo.Cancel(ctx, "pg-1", agora.Add(11*time.Minute)))
		err := repo.Cancel(ctx, "pg-1", agora.Add(12*time.Minute))

		assert.ErrorIs(t, err, ErrPagamentoJaFinalizado)
		pendentes, err := repo.ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pendentes)
	})
}

func TestConciliacaoRepository_Settle(t *testing.T) {
	ctx := context.Background()

	renovado := func(op domain.Operador) domain.Operador {
		vence := agora.AddDate(0, 0, 60)
		op.Active, op.AwaitingPayment = true, false
		op.PaymentMethod, op.SubscriptionDays = domain.MetodoPix, 60
		op.LastPaymentAt, op.NextDueAt = &agora, &vence
		return op
	}
	pago := func(pg domain.Pagamento) domain.Pagamento {
		pg.Status, pg.PaidAt, pg.Dias = domain.StatusPago, &agora, 60
		return pg
	}

	t.Run("sucesso - grava pagamento e operador juntos", func(t *testing.T) {
		db := newTestDB(t)
		op := criarOperador(t, db, "op-1")
		pgRepo := NewPagamentoRepository(db)
		require.NoError(t, pgRepo.Create(ctx, pendente("pg-1", "op-1", "X")))

		err := NewConciliacaoRepository(db).Settle(ctx, Liquidacao{Pagamento: pago(pendente("pg-1", "op-1", "X")), Operador: renovado(op)})

		require.NoError(t, err)
		pg, _ := pgRepo.GetByID(ctx, "pg-1")
		assert.Equal(t, domain.StatusPago, pg.Status)
		assert.Equal(t, 60, pg.Dias)
		salvo, _ := NewOperadorRepository(db).GetByID(ctx, "op-1")
		require.NotNil(t, salvo.NextDueAt)
		assert.True(t, agora.AddDate(0, 0, 60).Equal(*salvo.NextDueAt))
		assert.Equal(t, int64(1), salvo.Versao)
	})

	t.Run("segunda liquidação do mesmo pagamento é recusada", func(t *testing.T) {
		db := newTestDB(t)
		op := criarOperador(t, db, "op-1")
		require.NoError(t, NewPagamentoRepository(db).Create(ctx, pendente("pg-1", "op-1", "X")))
		repo := NewConciliacaoRepository(db)
		l := Liquidacao{Pagamento: pago(pendente("pg-1", "op-1", "X")), Operador: renovado(op)}
		require.NoError(t, repo.Settle(ctx, l))

		l.Operador.Versao = 1
		err := repo.Settle(ctx, l)

		assert.ErrorIs(t, err, ErrPagamentoJaFinalizado)
		salvo, _ := NewOperadorRepository(db).GetByID(ctx, "op-1")
		assert.Equal(t, int64(1), salvo.Versao)
	})

	t.Run("pagamento novo repetido vira duplicado", func(t *testing.T) {
		db := newTestDB(t)
		op := criarOperador(t, db, "op-1")
		repo := NewConciliacaoRepository(db)
		require.NoError(t, repo.Settle(ctx, Liquidacao{Pagamento: pago(pendente("pg-1", "op-1", "X")), Operador: renovado(op), NovoPagamento: true}))

		op.Versao = 1
		err := repo.Settle(ctx, Liquidacao{Pagamento: pago(pendente("pg-2", "op-1", "X")), Operador: renovado(op), NovoPagamento: true})

		assert.ErrorIs(t, err, ErrPagamentoDuplicado)
	})

	t.Run("operador alterado desfaz a transação", func(t *testing.T) {
		db := newTestDB(t)
		op := criarOperador(t, db, "op-1")
		pgRepo := NewPagamentoRepository(db)
		require.NoError(t, pgRepo.Create(ctx, pendente("pg-1", "op-1", "X")))

		velho := renovado(op)
		velho.Versao = 7
		err := NewConciliacaoRepository(db).Settle(ctx, Liquidacao{Pagamento: pago(pendente("pg-1", "op-1", "X")), Operador: velho})

		assert.True(t, errors.Is(err, ErrOperadorAlterado))
		pg, _ := pgRepo.GetByID(ctx, "pg-1")
		assert.Equal(t, domain.StatusPendente, pg.Status)
	})
}

func TestReceitaRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	criarOperador(t, db, "op-1")
	pgRepo := NewPagamentoRepository(db)
	require.NoError(t, pgRepo.Create(ctx, pendente("pg-1", "op-1", "X")))
	require.NoError(t, pgRepo.Create(ctx, pendente("pg-2", "op-1", "Y")))
	repo := NewReceitaRepository(db)

	lanc := domain.LancamentoReceita{OperadorID: "op-1", PagamentoID: "pg-1", Metodo: domain.MetodoPix, ValorCentavos: 5990, Origem: domain.OrigemWebhook, CreatedAt: agora}
	id, err := repo.Append(ctx, lanc)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = repo.Append(ctx, lanc)
	assert.ErrorIs(t, err, ErrLancamentoDuplicado)

	lanc.PagamentoID, lanc.CreatedAt = "pg-2", agora.AddDate(0, 1, 0)
	_, err = repo.Append(ctx, lanc)
	require.NoError(t, err)

	todos, err := repo.List(ctx, FiltroReceita{})
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	janeiro, err := repo.List(ctx, FiltroReceita{De: agora.AddDate(0, 0, -1), Ate: agora.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, janeiro, 1)
	assert.Equal(t, "pg-1", janeiro[0].PagamentoID)
}

func TestVendaRepository(t *testing.T) {
	ctx := context.Background()

	preparar := func(t *testing.T) (*sqlx.DB, int64) {
		db := newTestDB(t)
		criarOperador(t, db, "op-1")
		id, err := NewProdutoRepository(db).Create(ctx, domain.Produto{
			Nome: "Café", SKU: "CAF-1", PrecoCentavos: 1250, Estoque: 5, CreatedAt: agora, UpdatedAt: agora,
		})
		require.NoError(t, err)
		return db, id
	}

	t.Run("sucesso - baixa estoque e congela preço", func(t *testing.T) {
		db, produtoID := preparar(t)
		repo := NewVendaRepository(db)

		v, err := repo.Create(ctx, domain.Venda{OperadorID: "op-1", CreatedAt: agora, Itens: []domain.ItemVenda{{ProdutoID: produtoID, Quantidade: 2}}})

		require.NoError(t, err)
		assert.NotZero(t, v.ID)
		assert.Equal(t, int64(2500), v.TotalCentavos)
		assert.Equal(t, int64(1250), v.Itens[0].PrecoUnitarioCentavos)

		p, _ := NewProdutoRepository(db).GetByID(ctx, produtoID)
		assert.Equal(t, 3, p.Estoque)

		vendas, err := repo.ListByOperador(ctx, "op-1")
		require.NoError(t, err)
		require.Len(t, vendas, 1)
		require.Len(t, vendas[0].Itens, 1)
		assert.Equal(t, 2, vendas[0].Itens[0].Quantidade)
	})

	t.Run("erro - estoque insuficiente não grava nada", func(t *testing.T) {
		db, produtoID := preparar(t)
		repo := NewVendaRepository(db)

		_, err := repo.Create(ctx, domain.Venda{OperadorID: "op-1", CreatedAt: agora, Itens: []domain.ItemVenda{{ProdutoID: produtoID, Quantidade: 6}}})

		assert.ErrorIs(t, err, ErrEstoqueInsuficiente)
		p, _ := NewProdutoRepository(db).GetByID(ctx, produtoID)
		assert.Equal(t, 5, p.Estoque)
		vendas, _ := repo.ListByOperador(ctx, "op-1")
		assert.Empty(t, vendas)
	})

	t.Run("erro - produto inexistente", func(t *testing.T) {
		db, _ := preparar(t)

		_, err := NewVendaRepository(db).Create(ctx, domain.Venda{OperadorID: "op-1", CreatedAt: agora, Itens: []domain.ItemVenda{{ProdutoID: 999, Quantidade: 1}}})

		assert.ErrorIs(t, err, ErrProdutoInexistente)
	})

	t.Run("erro - sku repetido", func(t *testing.T) {
		db, _ := preparar(t)

		_, err := NewProdutoRepository(db).Create(ctx, domain.Produto{Nome: "Outro", SKU: "CAF-1", PrecoCentavos: 1, CreatedAt: agora, UpdatedAt: agora})

		assert.ErrorIs(t, err, ErrSKUDuplicado)
	})
}
