package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/willjrcristo/pdv-assinatura/internal/assinatura"
	"github.com/willjrcristo/pdv-assinatura/internal/cache"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/eventos"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
	"github.com/willjrcristo/pdv-assinatura/internal/metrics"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
)

// Resultado é o desfecho de uma tentativa de conciliação. Não é erro:
// "ja_processado" e "nao_aprovado" são respostas normais para webhooks repetidos.
type Resultado string

const (
	ResultadoConciliado   Resultado = "conciliado"
	ResultadoJaProcessado Resultado = "ja_processado"
	ResultadoNaoAprovado  Resultado = "nao_aprovado"
	ResultadoAguardando   Resultado = "aguardando"
	ResultadoCancelado    Resultado = "cancelado"
	ResultadoIgnorado     Resultado = "ignorado"
)

type Desfecho struct {
	Resultado    Resultado              `json:"resultado"`
	PagamentoID  string                 `json:"pagamento_id,omitempty"`
	OperadorID   string                 `json:"operador_id,omitempty"`
	Status       domain.StatusPagamento `json:"status,omitempty"`
	NextDueAt    *time.Time             `json:"next_due_at,omitempty"`
	ForaDaTabela bool                   `json:"fora_da_tabela,omitempty"`
}

// Varredura resume uma passada do SweepPending.
type Varredura struct {
	Total        int               `json:"total"`
	PorResultado map[Resultado]int `json:"por_resultado"`
	Falhas       int               `json:"falhas"`
}

// CheckoutCriado é a tentativa registrada mais o que o front-end precisa para pagar.
type CheckoutCriado struct {
	Pagamento domain.Pagamento `json:"pagamento"`
	Checkout  gateway.Checkout `json:"checkout"`
}

// ConciliacaoDeps agrupa as dependências do ConciliacaoService.
// Eventos, Cache, Logger e Now são opcionais.
type ConciliacaoDeps struct {
	Operadores  repository.OperadorRepository
	Pagamentos  repository.PagamentoRepository
	Receitas    repository.ReceitaRepository
	Liquidacoes repository.ConciliacaoRepository
	Gateways    *gateway.Registry
	Eventos     eventos.Publisher
	Cache       cache.AcessoCache
	Regras      assinatura.Regras
	Logger      *slog.Logger
	Now         func() time.Time
}

// ConciliacaoService transforma pagamentos aprovados nos gateways em dias de assinatura.
// Webhook, polling do cliente, reprocessamento do admin e a varredura periódica passam
// todos por ProcessPayment.
type ConciliacaoService struct {
	operadores  repository.OperadorRepository
	pagamentos  repository.PagamentoRepository
	receitas    repository.ReceitaRepository
	liquidacoes repository.ConciliacaoRepository
	gateways    *gateway.Registry
	eventos     eventos.Publisher
	cache       cache.AcessoCache
	regras      assinatura.Regras
	log         *slog.Logger
	now         func() time.Time

	// tentativas quando outra renovação do mesmo operador grava antes.
	maxTentativas uint64
}

func NewConciliacaoService(d ConciliacaoDeps) *ConciliacaoService {
	s := &ConciliacaoService{
		operadores:    d.Operadores,
		pagamentos:    d.Pagamentos,
		receitas:      d.Receitas,
		liquidacoes:   d.Liquidacoes,
		gateways:      d.Gateways,
		eventos:       d.Eventos,
		cache:         d.Cache,
		regras:        d.Regras,
		log:           d.Logger,
		now:           d.Now,
		maxTentativas: 3,
	}
	if s.eventos == nil {
		s.eventos = eventos.NopPublisher{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// ProcessPayment concilia o pagamento externalID do provedor.
//
// Um pagamento já pago ou cancelado encerra aqui, sem consultar o gateway e sem
// gravar nada. Um pendente mais velho que a janela de cancelamento é cancelado e
// nunca vira assinatura, mesmo que o gateway diga que foi aprovado.
func (s *ConciliacaoService) ProcessPayment(ctx context.Context, provedor, externalID string, origem domain.Origem) (*Desfecho, error) {
	d, err := s.processPayment(ctx, provedor, externalID, origem)
	s.contar(origem, d, err)
	return d, err
}

func (s *ConciliacaoService) processPayment(ctx context.Context, provedor, externalID string, origem domain.Origem) (*Desfecho, error) {
	if externalID == "" {
		return nil, ErrDadosInvalidos
	}
	g, ok := s.gateways.Get(provedor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProvedorDesconhecido, provedor)
	}

	existente, err := s.pagamentos.GetByExternalID(ctx, provedor, externalID)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		if d := desfechoTerminal(*existente); d != nil {
			s.log.Info("Pagamento já finalizado, nada a fazer",
				"pagamento_id", existente.ID, "status", existente.Status, "origem", origem)
			return d, nil
		}
		if assinatura.Classify(*existente, s.now(), s.regras.Bandas) == assinatura.SituacaoCancelar {
			return s.cancelar(ctx, *existente)
		}
	}

	gp, err := g.GetPayment(ctx, externalID)
	if err != nil {
		return nil, traduzirErroGateway(err)
	}
	if gp.Status != gateway.StatusAprovado {
		d := &Desfecho{Resultado: ResultadoNaoAprovado, Status: domain.StatusPendente}
		if existente != nil {
			d.PagamentoID, d.OperadorID = existente.ID, existente.OperadorID
		}
		return d, nil
	}

	// O gateway é a fonte de verdade do valor e do método; o operador vem do
	// registro local e, na falta dele, da referência gravada no checkout.
	pg := domain.Pagamento{
		ID:                uuid.NewString(),
		Provedor:          provedor,
		ExternalPaymentID: externalID,
		Status:            domain.StatusPendente,
		CreatedAt:         s.now(),
		UpdatedAt:         s.now(),
	}
	if existente != nil {
		pg = *existente
	} else {
		pg.OperadorID = gp.PayerReference
	}
	pg.ValorCentavos = gp.ValorCentavos
	if gp.Metodo != "" {
		pg.Metodo = gp.Metodo
	}
	if pg.OperadorID == "" {
		return nil, fmt.Errorf("%w: pagamento %s sem referência de operador", ErrOperadorNaoEncontrado, externalID)
	}

	if _, exato := s.regras.TierFor(pg.ValorCentavos); !exato {
		if s.regras.PoliticaValor == assinatura.PoliticaRejeitar {
			s.log.Warn("Pagamento recusado: valor fora da tabela",
				"pagamento_id", pg.ID, "valor_centavos", pg.ValorCentavos)
			return nil, fmt.Errorf("%w: %d centavos", ErrValorNaoReconhecido, pg.ValorCentavos)
		}
	}

	res, err := s.liquidar(ctx, pg, existente == nil)
	if err != nil {
		if errors.Is(err, repository.ErrPagamentoJaFinalizado) || errors.Is(err, repository.ErrPagamentoDuplicado) {
			s.log.Info("Pagamento conciliado por outra requisição", "pagamento_id", pg.ID, "origem", origem)
			return &Desfecho{Resultado: ResultadoJaProcessado, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: domain.StatusPago}, nil
		}
		return nil, err
	}

	if res.ForaDaTabela {
		metrics.ValorForaDaTabela.Inc()
		s.log.Warn("Valor fora da tabela de preços, usada a faixa mais próxima",
			"pagamento_id", pg.ID, "valor_centavos", pg.ValorCentavos, "faixa", res.Tier.Nome, "dias", res.Tier.Dias)
	}

	s.posConciliacao(ctx, res, origem)

	s.log.Info("Assinatura renovada",
		"operador_id", res.Operador.ID, "pagamento_id", res.Pagamento.ID, "dias", res.Tier.Dias,
		"next_due_at", res.Operador.NextDueAt, "origem", origem)

	return &Desfecho{
		Resultado:    ResultadoConciliado,
		PagamentoID:  res.Pagamento.ID,
		OperadorID:   res.Operador.ID,
		Status:       domain.StatusPago,
		NextDueAt:    res.Operador.NextDueAt,
		ForaDaTabela: res.ForaDaTabela,
	}, nil
}

// liquidar lê o operador, aplica a renovação e grava. Se outra renovação do
// mesmo operador gravar no meio do caminho, relê e tenta de novo.
func (s *ConciliacaoService) liquidar(ctx context.Context, pg domain.Pagamento, novo bool) (assinatura.Resultado, error) {
	var res assinatura.Resultado

	operation := func() error {
		op, err := s.operadores.GetByID(ctx, pg.OperadorID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if op == nil {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrOperadorNaoEncontrado, pg.OperadorID))
		}

		res = assinatura.Reconcile(*op, pg, s.now(), s.regras)
		err = s.liquidacoes.Settle(ctx, repository.Liquidacao{
			Pagamento:     res.Pagamento,
			Operador:      res.Operador,
			NovoPagamento: novo,
		})
		if errors.Is(err, repository.ErrOperadorAlterado) {
			s.log.Debug("Operador alterado durante a conciliação, tentando de novo", "operador_id", op.ID)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), s.maxTentativas), ctx)
	return res, backoff.Retry(operation, bo)
}

// posConciliacao faz o que não pode desfazer a renovação: livro de receitas,
// evento e cache. Falhas são registradas e contadas.
func (s *ConciliacaoService) posConciliacao(ctx context.Context, res assinatura.Resultado, origem domain.Origem) {
	lanc := res.Lancamento
	lanc.Origem = origem
	if _, err := s.receitas.Append(ctx, lanc); err != nil && !errors.Is(err, repository.ErrLancamentoDuplicado) {
		metrics.ReceitaFalhas.Inc()
		s.log.Error("Falha ao lançar receita; renovação mantida",
			"pagamento_id", lanc.PagamentoID, "operador_id", lanc.OperadorID, "valor_centavos", lanc.ValorCentavos, "error", err)
	}

	evento := eventos.Evento{
		Tipo:          eventos.TipoAssinaturaRenovada,
		OperadorID:    res.Operador.ID,
		PagamentoID:   res.Pagamento.ID,
		Provedor:      res.Pagamento.Provedor,
		ValorCentavos: res.Pagamento.ValorCentavos,
		Dias:          res.Tier.Dias,
		Origem:        string(origem),
		OcorridoEm:    s.now(),
	}
	if res.Operador.NextDueAt != nil {
		evento.NextDueAt = *res.Operador.NextDueAt
	}
	if err := s.eventos.Publish(ctx, evento); err != nil {
		s.log.Warn("Falha ao publicar evento de renovação", "operador_id", res.Operador.ID, "error", err)
	}

	s.invalidarCache(ctx, res.Operador.ID)
}

// CheckPayment é o "já pagou?" do cliente. Aplica as bandas de tempo antes de
// consultar o gateway.
func (s *ConciliacaoService) CheckPayment(ctx context.Context, pagamentoID string) (*Desfecho, error) {
	pg, err := s.pagamentos.GetByID(ctx, pagamentoID)
	if err != nil {
		return nil, err
	}
	if pg == nil {
		return nil, ErrPagamentoNaoEncontrado
	}
	d, err := s.verificar(ctx, *pg, domain.OrigemPolling)
	if d != nil && d.PagamentoID == "" {
		d.PagamentoID, d.OperadorID = pg.ID, pg.OperadorID
	}
	return d, err
}

func (s *ConciliacaoService) verificar(ctx context.Context, pg domain.Pagamento, origem domain.Origem) (*Desfecho, error) {
	if d := desfechoTerminal(pg); d != nil {
		return d, nil
	}

	switch assinatura.Classify(pg, s.now(), s.regras.Bandas) {
	case assinatura.SituacaoAguardar:
		return &Desfecho{Resultado: ResultadoAguardando, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: domain.StatusPendente}, nil
	case assinatura.SituacaoCancelar:
		d, err := s.cancelar(ctx, pg)
		s.contar(origem, d, err)
		return d, err
	}

	if pg.ExternalPaymentID == "" {
		return &Desfecho{Resultado: ResultadoAguardando, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: domain.StatusPendente}, nil
	}

	d, err := s.ProcessPayment(ctx, pg.Provedor, pg.ExternalPaymentID, origem)
	if err != nil {
		return nil, err
	}
	if d.Resultado == ResultadoNaoAprovado {
		d.Resultado = ResultadoAguardando
	}
	return d, nil
}

// cancelar fecha um pendente que passou da janela. Se outra rotina finalizou
// antes, devolve o estado que ela gravou.
func (s *ConciliacaoService) cancelar(ctx context.Context, pg domain.Pagamento) (*Desfecho, error) {
	cancelado := assinatura.Cancel(pg, s.now())
	err := s.pagamentos.Cancel(ctx, cancelado.ID, cancelado.UpdatedAt)
	if errors.Is(err, repository.ErrPagamentoJaFinalizado) {
		atual, err := s.pagamentos.GetByID(ctx, pg.ID)
		if err != nil {
			return nil, err
		}
		if atual != nil {
			if d := desfechoTerminal(*atual); d != nil {
				return d, nil
			}
		}
		return nil, repository.ErrPagamentoJaFinalizado
	}
	if err != nil {
		return nil, err
	}

	metrics.PagamentosCancelados.Inc()
	s.log.Info("Pagamento pendente cancelado por tempo",
		"pagamento_id", pg.ID, "operador_id", pg.OperadorID, "criado_em", pg.CreatedAt)

	if err := s.eventos.Publish(ctx, eventos.Evento{
		Tipo:          eventos.TipoPagamentoCancelado,
		OperadorID:    pg.OperadorID,
		PagamentoID:   pg.ID,
		Provedor:      pg.Provedor,
		ValorCentavos: pg.ValorCentavos,
		OcorridoEm:    s.now(),
	}); err != nil {
		s.log.Warn("Falha ao publicar evento de cancelamento", "pagamento_id", pg.ID, "error", err)
	}

	return &Desfecho{Resultado: ResultadoCancelado, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: domain.StatusCancelado}, nil
}

// SweepPending passa por todos os pendentes: concilia os aprovados e cancela os vencidos.
// Erros de um pagamento não interrompem os demais.
func (s *ConciliacaoService) SweepPending(ctx context.Context) (*Varredura, error) {
	pendentes, err := s.pagamentos.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	v := &Varredura{Total: len(pendentes), PorResultado: make(map[Resultado]int)}
	for _, pg := range pendentes {
		if err := ctx.Err(); err != nil {
			return v, err
		}
		d, err := s.verificar(ctx, pg, domain.OrigemVarredura)
		if err != nil {
			v.Falhas++
			s.log.Error("Falha ao verificar pagamento pendente", "pagamento_id", pg.ID, "error", err)
			continue
		}
		v.PorResultado[d.Resultado]++
	}

	s.log.Info("Varredura de pendentes concluída", "total", v.Total, "falhas", v.Falhas)
	return v, nil
}

// CreateCheckout cria a cobrança no gateway do método escolhido e registra a tentativa pendente.
func (s *ConciliacaoService) CreateCheckout(ctx context.Context, operadorID string, metodo domain.MetodoPagamento) (*CheckoutCriado, error) {
	if !metodo.Valid() {
		return nil, ErrMetodoInvalido
	}
	op, err := s.operadores.GetByID(ctx, operadorID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperadorNaoEncontrado
	}
	if op.Suspended {
		return nil, ErrOperadorSuspenso
	}

	tier, ok := s.regras.TierForMetodo(metodo)
	if !ok {
		return nil, ErrMetodoInvalido
	}
	provedor, g, ok := s.gateways.ForMetodo(metodo)
	if !ok {
		return nil, fmt.Errorf("%w: nenhum provedor para %s", ErrMetodoInvalido, metodo)
	}

	pagamentoID := uuid.NewString()
	co, err := g.CreateCharge(ctx, gateway.Cobranca{
		OperadorID:     op.ID,
		PayerEmail:     op.Email,
		Metodo:         metodo,
		ValorCentavos:  tier.PrecoCentavos,
		Descricao:      fmt.Sprintf("Assinatura PDV - %d dias", tier.Dias),
		IdempotencyKey: pagamentoID,
	})
	if err != nil {
		s.log.Error("Falha ao criar cobrança no gateway", "operador_id", op.ID, "provedor", provedor, "error", err)
		return nil, traduzirErroGateway(err)
	}

	now := s.now()
	pg := domain.Pagamento{
		ID:                pagamentoID,
		OperadorID:        op.ID,
		Provedor:          provedor,
		ExternalPaymentID: co.ExternalID,
		ValorCentavos:     tier.PrecoCentavos,
		Metodo:            metodo,
		Dias:              tier.Dias,
		Status:            domain.StatusPendente,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.pagamentos.Create(ctx, pg); err != nil {
		return nil, err
	}

	s.log.Info("Checkout criado", "operador_id", op.ID, "pagamento_id", pg.ID, "provedor", provedor, "metodo", metodo)
	return &CheckoutCriado{Pagamento: pg, Checkout: *co}, nil
}

// HandleWebhook verifica a notificação do provedor e concilia o pagamento citado.
func (s *ConciliacaoService) HandleWebhook(ctx context.Context, provedor string, w gateway.Webhook) (*Desfecho, error) {
	parser, ok := s.gateways.Parser(provedor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProvedorDesconhecido, provedor)
	}

	externalID, relevante, err := parser.ParseWebhook(w)
	if err != nil {
		s.log.Warn("Webhook recusado", "provedor", provedor, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrWebhookInvalido, err)
	}
	if !relevante {
		return &Desfecho{Resultado: ResultadoIgnorado}, nil
	}
	return s.ProcessPayment(ctx, provedor, externalID, domain.OrigemWebhook)
}

func (s *ConciliacaoService) invalidarCache(ctx context.Context, operadorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, operadorID); err != nil {
		s.log.Warn("Falha ao invalidar cache de acesso", "operador_id", operadorID, "error", err)
	}
}

func (s *ConciliacaoService) contar(origem domain.Origem, d *Desfecho, err error) {
	resultado := "erro"
	if err == nil && d != nil {
		resultado = string(d.Resultado)
	}
	metrics.Conciliacoes.WithLabelValues(string(origem), resultado).Inc()
}

func desfechoTerminal(pg domain.Pagamento) *Desfecho {
	switch pg.Status {
	case domain.StatusPago:
		return &Desfecho{Resultado: ResultadoJaProcessado, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: pg.Status}
	case domain.StatusCancelado:
		return &Desfecho{Resultado: ResultadoCancelado, PagamentoID: pg.ID, OperadorID: pg.OperadorID, Status: pg.Status}
	default:
		return nil
	}
}

func traduzirErroGateway(err error) error {
	switch {
	case errors.Is(err, gateway.ErrPagamentoInexistente):
		return fmt.Errorf("%w: %v", ErrPagamentoNaoEncontrado, err)
	case errors.Is(err, gateway.ErrIndisponivel):
		return fmt.Errorf("%w: %v", ErrGatewayIndisponivel, err)
	default:
		return err
	}
}
