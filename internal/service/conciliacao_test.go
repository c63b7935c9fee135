package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willjrcristo/pdv-assinatura/internal/assinatura"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/eventos"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
	"github.com/willjrcristo/pdv-assinatura/internal/metrics"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
)

var agora = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// --- FAKES ---

// fakeGateway permite que cada teste defina o comportamento do provedor.
type fakeGateway struct {
	getPaymentFunc   func(ctx context.Context, externalID string) (*gateway.Pagamento, error)
	createChargeFunc func(ctx context.Context, c gateway.Cobranca) (*gateway.Checkout, error)
	parseWebhookFunc func(w gateway.Webhook) (string, bool, error)
	consultas        atomic.Int32
}

func (f *fakeGateway) GetPayment(ctx context.Context, externalID string) (*gateway.Pagamento, error) {
	f.consultas.Add(1)
	return f.getPaymentFunc(ctx, externalID)
}

func (f *fakeGateway) CreateCharge(ctx context.Context, c gateway.Cobranca) (*gateway.Checkout, error) {
	return f.createChargeFunc(ctx, c)
}

func (f *fakeGateway) ParseWebhook(w gateway.Webhook) (string, bool, error) {
	return f.parseWebhookFunc(w)
}

func aprovado(valor int64, operadorID string, metodo domain.MetodoPagamento) func(context.Context, string) (*gateway.Pagamento, error) {
	return func(_ context.Context, id string) (*gateway.Pagamento, error) {
		return &gateway.Pagamento{
			ExternalID: id, Status: gateway.StatusAprovado, ValorCentavos: valor,
			PayerReference: operadorID, Metodo: metodo,
		}, nil
	}
}

type publisherGravador struct {
	mu      sync.Mutex
	eventos []eventos.Evento
}

func (p *publisherGravador) Publish(_ context.Context, e eventos.Evento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, e)
	return nil
}

func (p *publisherGravador) Close() error { return nil }

func (p *publisherGravador) tipos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var tipos []string
	for _, e := range p.eventos {
		tipos = append(tipos, e.Tipo)
	}
	return tipos
}

// relogio é um relógio controlado pelo teste.
type relogio struct {
	mu sync.Mutex
	t  time.Time
}

func (r *relogio) Now() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t
}

func (r *relogio) Avancar(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = r.t.Add(d)
}

// --- AMBIENTE ---

type ambiente struct {
	db         *sqlx.DB
	svc        *ConciliacaoService
	gw         *fakeGateway
	pub        *publisherGravador
	relogio    *relogio
	operadores repository.OperadorRepository
	pagamentos repository.PagamentoRepository
	receitas   repository.ReceitaRepository
}

func novoAmbiente(t *testing.T, regras assinatura.Regras) *ambiente {
	t.Helper()
	db, err := repository.Open(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(db))

	a := &ambiente{
		db:         db,
		gw:         &fakeGateway{},
		pub:        &publisherGravador{},
		relogio:    &relogio{t: agora},
		operadores: repository.NewOperadorRepository(db),
		pagamentos: repository.NewPagamentoRepository(db),
		receitas:   repository.NewReceitaRepository(db),
	}
	reg := gateway.NewRegistry()
	reg.Register(gateway.ProvedorMercadoPago, a.gw, domain.MetodoPix, domain.MetodoCartao)

	a.svc = NewConciliacaoService(ConciliacaoDeps{
		Operadores:  a.operadores,
		Pagamentos:  a.pagamentos,
		Receitas:    a.receitas,
		Liquidacoes: repository.NewConciliacaoRepository(db),
		Gateways:    reg,
		Eventos:     a.pub,
		Regras:      regras,
		Now:         a.relogio.Now,
	})
	return a
}

func (a *ambiente) criarOperador(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, a.operadores.Create(context.Background(), domain.Operador{
		ID: id, Nome: "Operador " + id, Email: id + "@loja.com.br",
		AwaitingPayment: true, CreatedAt: agora, UpdatedAt: agora,
	}))
}

func (a *ambiente) criarPendente(t *testing.T, id, operadorID, externalID string, criadoEm time.Time) {
	t.Helper()
	require.NoError(t, a.pagamentos.Create(context.Background(), domain.Pagamento{
		ID: id, OperadorID: operadorID, Provedor: gateway.ProvedorMercadoPago, ExternalPaymentID: externalID,
		ValorCentavos: 5990, Metodo: domain.MetodoPix, Dias: 60, Status: domain.StatusPendente,
		CreatedAt: criadoEm, UpdatedAt: criadoEm,
	}))
}

func (a *ambiente) operador(t *testing.T, id string) *domain.Operador {
	t.Helper()
	op, err := a.operadores.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, op)
	return op
}

func (a *ambiente) lancamentos(t *testing.T) []domain.LancamentoReceita {
	t.Helper()
	l, err := a.receitas.List(context.Background(), repository.FiltroReceita{})
	require.NoError(t, err)
	return l
}

// --- TESTES ---

func TestConciliacaoService_ProcessPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso - deve renovar 60 dias para um PIX novo", func(t *testing.T) {
		// Arrange
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		// Act
		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, ResultadoConciliado, d.Resultado)
		assert.False(t, d.ForaDaTabela)

		op := a.operador(t, "op-1")
		assert.True(t, op.Active)
		assert.False(t, op.AwaitingPayment)
		assert.Equal(t, 60, op.SubscriptionDays)
		assert.Equal(t, domain.MetodoPix, op.PaymentMethod)
		require.NotNil(t, op.NextDueAt)
		assert.True(t, agora.AddDate(0, 0, 60).Equal(*op.NextDueAt))

		pg, err := a.pagamentos.GetByExternalID(ctx, gateway.ProvedorMercadoPago, "mp-1")
		require.NoError(t, err)
		require.NotNil(t, pg)
		assert.Equal(t, domain.StatusPago, pg.Status)

		l := a.lancamentos(t)
		require.Len(t, l, 1)
		assert.Equal(t, int64(5990), l[0].ValorCentavos)
		assert.Equal(t, domain.OrigemWebhook, l[0].Origem)

		assert.Equal(t, []string{eventos.TipoAssinaturaRenovada}, a.pub.tipos())
	})

	t.Run("sucesso - webhook repetido não renova de novo nem consulta o gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = aprovado(14970, "op-1", domain.MetodoCartao)

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)
		require.NoError(t, err)
		vencimento := *a.operador(t, "op-1").NextDueAt

		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		require.NoError(t, err)
		assert.Equal(t, ResultadoJaProcessado, d.Resultado)
		assert.Equal(t, int32(1), a.gw.consultas.Load())
		assert.True(t, vencimento.Equal(*a.operador(t, "op-1").NextDueAt))
		assert.Len(t, a.lancamentos(t), 1)
	})

	t.Run("sucesso - pagamentos seguidos somam dias ao vencimento", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)
		require.NoError(t, err)
		a.relogio.Avancar(24 * time.Hour)
		_, err = a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-2", domain.OrigemWebhook)
		require.NoError(t, err)

		op := a.operador(t, "op-1")
		assert.True(t, agora.AddDate(0, 0, 120).Equal(*op.NextDueAt))
		assert.Len(t, a.lancamentos(t), 2)
	})

	t.Run("sucesso - pendente local é conciliado com o valor do gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-5*time.Minute))
		// referência vazia: o operador vem do registro local
		a.gw.getPaymentFunc = aprovado(14970, "", domain.MetodoCartao)

		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemAdmin)

		require.NoError(t, err)
		assert.Equal(t, ResultadoConciliado, d.Resultado)
		assert.Equal(t, "pg-1", d.PagamentoID)
		assert.Equal(t, 180, a.operador(t, "op-1").SubscriptionDays)

		pg, err := a.pagamentos.GetByID(ctx, "pg-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPago, pg.Status)
		assert.Equal(t, int64(14970), pg.ValorCentavos)
		assert.Equal(t, 180, pg.Dias)
	})

	t.Run("nao aprovado - não altera nada", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = func(_ context.Context, id string) (*gateway.Pagamento, error) {
			return &gateway.Pagamento{ExternalID: id, Status: gateway.StatusPendente, ValorCentavos: 5990, PayerReference: "op-1"}, nil
		}

		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		require.NoError(t, err)
		assert.Equal(t, ResultadoNaoAprovado, d.Resultado)
		assert.Nil(t, a.operador(t, "op-1").NextDueAt)
		assert.Empty(t, a.lancamentos(t))
	})

	t.Run("cancelado - pendente velho é cancelado mesmo aprovado no gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-11*time.Minute))
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		require.NoError(t, err)
		assert.Equal(t, ResultadoCancelado, d.Resultado)
		assert.Equal(t, int32(0), a.gw.consultas.Load())
		assert.Nil(t, a.operador(t, "op-1").NextDueAt)
		assert.Equal(t, []string{eventos.TipoPagamentoCancelado}, a.pub.tipos())

		// cancelado é final
		d, err = a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)
		require.NoError(t, err)
		assert.Equal(t, ResultadoCancelado, d.Resultado)
		assert.Len(t, a.pub.tipos(), 1)
	})

	t.Run("fora da tabela - usa a faixa mais próxima", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = aprovado(13000, "op-1", "")

		d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		require.NoError(t, err)
		assert.True(t, d.ForaDaTabela)
		op := a.operador(t, "op-1")
		assert.Equal(t, 180, op.SubscriptionDays)
		assert.Equal(t, domain.MetodoCartao, op.PaymentMethod)
	})

	t.Run("erro - fora da tabela com política de rejeição", func(t *testing.T) {
		regras := assinatura.DefaultRegras()
		regras.PoliticaValor = assinatura.PoliticaRejeitar
		a := novoAmbiente(t, regras)
		a.criarOperador(t, "op-1")
		a.gw.getPaymentFunc = aprovado(1000, "op-1", domain.MetodoPix)

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		assert.ErrorIs(t, err, ErrValorNaoReconhecido)
		assert.Nil(t, a.operador(t, "op-1").NextDueAt)
	})

	t.Run("erro - gateway indisponível", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.gw.getPaymentFunc = func(context.Context, string) (*gateway.Pagamento, error) {
			return nil, gateway.ErrIndisponivel
		}

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		assert.ErrorIs(t, err, ErrGatewayIndisponivel)
	})

	t.Run("erro - pagamento inexistente no gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.gw.getPaymentFunc = func(context.Context, string) (*gateway.Pagamento, error) {
			return nil, gateway.ErrPagamentoInexistente
		}

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemAdmin)

		assert.ErrorIs(t, err, ErrPagamentoNaoEncontrado)
	})

	t.Run("erro - operador desconhecido", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.gw.getPaymentFunc = aprovado(5990, "fantasma", domain.MetodoPix)

		_, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

		assert.ErrorIs(t, err, ErrOperadorNaoEncontrado)
	})

	t.Run("erro - provedor desconhecido e id vazio", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())

		_, err := a.svc.ProcessPayment(ctx, "pagseguro", "1", domain.OrigemWebhook)
		assert.ErrorIs(t, err, ErrProvedorDesconhecido)

		_, err = a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "", domain.OrigemWebhook)
		assert.ErrorIs(t, err, ErrDadosInvalidos)
	})
}

// receitaFalha devolve erro em todo Append.
type receitaFalha struct {
	repository.ReceitaRepository
	err error
}

func (r receitaFalha) Append(context.Context, domain.LancamentoReceita) (string, error) {
	return "", r.err
}

func TestConciliacaoService_ProcessPayment_FalhaNaReceita(t *testing.T) {
	ctx := context.Background()

	// Arrange
	a := novoAmbiente(t, assinatura.DefaultRegras())
	a.svc.receitas = receitaFalha{ReceitaRepository: a.receitas, err: errors.New("disco cheio")}
	a.criarOperador(t, "op-1")
	a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)
	falhasAntes := testutil.ToFloat64(metrics.ReceitaFalhas)

	// Act
	d, err := a.svc.ProcessPayment(ctx, gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)

	// Assert: a renovação fica gravada mesmo sem o lançamento
	require.NoError(t, err)
	assert.Equal(t, ResultadoConciliado, d.Resultado)
	op := a.operador(t, "op-1")
	require.NotNil(t, op.NextDueAt)
	assert.True(t, agora.AddDate(0, 0, 60).Equal(*op.NextDueAt))
	assert.Equal(t, falhasAntes+1, testutil.ToFloat64(metrics.ReceitaFalhas))
	assert.Empty(t, a.lancamentos(t))
	assert.Equal(t, []string{eventos.TipoAssinaturaRenovada}, a.pub.tipos())

	pg, err := a.pagamentos.GetByExternalID(ctx, gateway.ProvedorMercadoPago, "mp-1")
	require.NoError(t, err)
	require.NotNil(t, pg)
	assert.Equal(t, domain.StatusPago, pg.Status)
}

func TestConciliacaoService_ProcessPayment_Concorrente(t *testing.T) {
	// Arrange
	a := novoAmbiente(t, assinatura.DefaultRegras())
	a.criarOperador(t, "op-1")
	a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

	// Act
	const n = 5
	var wg sync.WaitGroup
	resultados := make([]Resultado, n)
	erros := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := a.svc.ProcessPayment(context.Background(), gateway.ProvedorMercadoPago, "mp-1", domain.OrigemWebhook)
			erros[i] = err
			if d != nil {
				resultados[i] = d.Resultado
			}
		}(i)
	}
	wg.Wait()

	// Assert
	conciliados := 0
	for i := 0; i < n; i++ {
		require.NoError(t, erros[i])
		if resultados[i] == ResultadoConciliado {
			conciliados++
		} else {
			assert.Equal(t, ResultadoJaProcessado, resultados[i])
		}
	}
	assert.Equal(t, 1, conciliados)
	assert.True(t, agora.AddDate(0, 0, 60).Equal(*a.operador(t, "op-1").NextDueAt))
	assert.Len(t, a.lancamentos(t), 1)
}

func TestConciliacaoService_CheckPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("aguardando - antes de 4 minutos não consulta o gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-2*time.Minute))
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		d, err := a.svc.CheckPayment(ctx, "pg-1")

		require.NoError(t, err)
		assert.Equal(t, ResultadoAguardando, d.Resultado)
		assert.Equal(t, "pg-1", d.PagamentoID)
		assert.Equal(t, int32(0), a.gw.consultas.Load())
	})

	t.Run("sucesso - na banda elegível concilia o aprovado", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-5*time.Minute))
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		d, err := a.svc.CheckPayment(ctx, "pg-1")

		require.NoError(t, err)
		assert.Equal(t, ResultadoConciliado, d.Resultado)
		l := a.lancamentos(t)
		require.Len(t, l, 1)
		assert.Equal(t, domain.OrigemPolling, l[0].Origem)
	})

	t.Run("aguardando - na banda elegível mas ainda pendente no gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-5*time.Minute))
		a.gw.getPaymentFunc = func(_ context.Context, id string) (*gateway.Pagamento, error) {
			return &gateway.Pagamento{ExternalID: id, Status: gateway.StatusPendente}, nil
		}

		d, err := a.svc.CheckPayment(ctx, "pg-1")

		require.NoError(t, err)
		assert.Equal(t, ResultadoAguardando, d.Resultado)
	})

	t.Run("cancelado - depois de 10 minutos", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-10*time.Minute-time.Second))

		d, err := a.svc.CheckPayment(ctx, "pg-1")

		require.NoError(t, err)
		assert.Equal(t, ResultadoCancelado, d.Resultado)
		pg, err := a.pagamentos.GetByID(ctx, "pg-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelado, pg.Status)
	})

	t.Run("ja processado - pagamento pago", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.criarPendente(t, "pg-1", "op-1", "mp-1", agora.Add(-5*time.Minute))
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)
		_, err := a.svc.CheckPayment(ctx, "pg-1")
		require.NoError(t, err)

		a.relogio.Avancar(time.Hour)
		d, err := a.svc.CheckPayment(ctx, "pg-1")

		require.NoError(t, err)
		assert.Equal(t, ResultadoJaProcessado, d.Resultado)
	})

	t.Run("erro - pagamento inexistente", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())

		_, err := a.svc.CheckPayment(ctx, "nao-existe")

		assert.ErrorIs(t, err, ErrPagamentoNaoEncontrado)
	})
}

func TestConciliacaoService_SweepPending(t *testing.T) {
	// Arrange
	a := novoAmbiente(t, assinatura.DefaultRegras())
	a.criarOperador(t, "op-1")
	a.criarPendente(t, "pg-novo", "op-1", "mp-novo", agora.Add(-time.Minute))
	a.criarPendente(t, "pg-ok", "op-1", "mp-ok", agora.Add(-6*time.Minute))
	a.criarPendente(t, "pg-falha", "op-1", "mp-falha", agora.Add(-7*time.Minute))
	a.criarPendente(t, "pg-velho", "op-1", "mp-velho", agora.Add(-30*time.Minute))
	a.gw.getPaymentFunc = func(ctx context.Context, id string) (*gateway.Pagamento, error) {
		if id == "mp-falha" {
			return nil, errors.New("timeout")
		}
		return aprovado(5990, "op-1", domain.MetodoPix)(ctx, id)
	}

	// Act
	v, err := a.svc.SweepPending(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 1, v.Falhas)
	assert.Equal(t, 1, v.PorResultado[ResultadoAguardando])
	assert.Equal(t, 1, v.PorResultado[ResultadoConciliado])
	assert.Equal(t, 1, v.PorResultado[ResultadoCancelado])

	l := a.lancamentos(t)
	require.Len(t, l, 1)
	assert.Equal(t, domain.OrigemVarredura, l[0].Origem)
}

func TestConciliacaoService_CreateCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso - registra pendente com o id do gateway", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		var cobranca gateway.Cobranca
		a.gw.createChargeFunc = func(_ context.Context, c gateway.Cobranca) (*gateway.Checkout, error) {
			cobranca = c
			return &gateway.Checkout{ExternalID: "mp-77", Status: gateway.StatusPendente, QRCode: "000201"}, nil
		}

		co, err := a.svc.CreateCheckout(ctx, "op-1", domain.MetodoPix)

		require.NoError(t, err)
		assert.Equal(t, "000201", co.Checkout.QRCode)
		assert.Equal(t, int64(5990), cobranca.ValorCentavos)
		assert.Equal(t, "op-1", cobranca.OperadorID)
		assert.Equal(t, co.Pagamento.ID, cobranca.IdempotencyKey)

		pg, err := a.pagamentos.GetByExternalID(ctx, gateway.ProvedorMercadoPago, "mp-77")
		require.NoError(t, err)
		require.NotNil(t, pg)
		assert.Equal(t, domain.StatusPendente, pg.Status)
		assert.Equal(t, 60, pg.Dias)
	})

	t.Run("erro - operador suspenso", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		require.NoError(t, a.operadores.SetSuspended(ctx, "op-1", true, agora))

		_, err := a.svc.CreateCheckout(ctx, "op-1", domain.MetodoPix)

		assert.ErrorIs(t, err, ErrOperadorSuspenso)
	})

	t.Run("erro - método inválido e operador inexistente", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())

		_, err := a.svc.CreateCheckout(ctx, "op-1", "boleto")
		assert.ErrorIs(t, err, ErrMetodoInvalido)

		_, err = a.svc.CreateCheckout(ctx, "op-x", domain.MetodoPix)
		assert.ErrorIs(t, err, ErrOperadorNaoEncontrado)
	})
}

func TestConciliacaoService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso - evento relevante é conciliado", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.criarOperador(t, "op-1")
		a.gw.parseWebhookFunc = func(gateway.Webhook) (string, bool, error) { return "mp-1", true, nil }
		a.gw.getPaymentFunc = aprovado(5990, "op-1", domain.MetodoPix)

		d, err := a.svc.HandleWebhook(ctx, gateway.ProvedorMercadoPago, gateway.Webhook{})

		require.NoError(t, err)
		assert.Equal(t, ResultadoConciliado, d.Resultado)
	})

	t.Run("ignorado - evento sem relação com pagamento", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.gw.parseWebhookFunc = func(gateway.Webhook) (string, bool, error) { return "", false, nil }

		d, err := a.svc.HandleWebhook(ctx, gateway.ProvedorMercadoPago, gateway.Webhook{})

		require.NoError(t, err)
		assert.Equal(t, ResultadoIgnorado, d.Resultado)
		assert.Equal(t, int32(0), a.gw.consultas.Load())
	})

	t.Run("erro - assinatura inválida", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())
		a.gw.parseWebhookFunc = func(gateway.Webhook) (string, bool, error) { return "", false, gateway.ErrAssinaturaInvalida }

		_, err := a.svc.HandleWebhook(ctx, gateway.ProvedorMercadoPago, gateway.Webhook{})

		assert.ErrorIs(t, err, ErrWebhookInvalido)
	})

	t.Run("erro - provedor desconhecido", func(t *testing.T) {
		a := novoAmbiente(t, assinatura.DefaultRegras())

		_, err := a.svc.HandleWebhook(ctx, "pagseguro", gateway.Webhook{})

		assert.ErrorIs(t, err, ErrProvedorDesconhecido)
	})
}
