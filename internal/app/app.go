// Package app monta as dependências da aplicação a partir da configuração.
// É usado pela API (cmd/api) e pela CLI de manutenção (cmd/pdvctl).
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/willjrcristo/pdv-assinatura/internal/cache"
	"github.com/willjrcristo/pdv-assinatura/internal/config"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/eventos"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
	"github.com/willjrcristo/pdv-assinatura/internal/service"
)

// App guarda as instâncias de cada camada: DB -> Repository -> Service.
type App struct {
	Config   *config.Config
	DB       *sqlx.DB
	Gateways *gateway.Registry
	Eventos  eventos.Publisher

	Conciliacao *service.ConciliacaoService
	Operadores  *service.OperadorService
	PDV         *service.PDVService
	Receitas    *service.ReceitaService

	redis *redis.Client
}

// New conecta no banco, aplica as migrações e liga os serviços.
// Kafka e Redis são opcionais: sem endereço configurado, ficam desligados.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("💾 Banco de dados pronto", "driver", cfg.Database.Driver)

	a := &App{Config: cfg, DB: db, Gateways: novoRegistry(cfg)}

	a.Eventos = eventos.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := eventos.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Eventos = kp
		slog.Info("Publicando eventos no Kafka", "topic", cfg.Kafka.Topic)
	}

	// sem Redis a interface fica nil e o serviço consulta sempre o banco
	var acessoCache cache.AcessoCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		acessoCache = cache.NewRedisAcessoCache(client, cfg.Redis.TTL)
		slog.Info("Cache de acesso no Redis", "addr", cfg.Redis.Addr)
	}

	operadorRepo := repository.NewOperadorRepository(db)
	pagamentoRepo := repository.NewPagamentoRepository(db)
	receitaRepo := repository.NewReceitaRepository(db)

	a.Conciliacao = service.NewConciliacaoService(service.ConciliacaoDeps{
		Operadores:  operadorRepo,
		Pagamentos:  pagamentoRepo,
		Receitas:    receitaRepo,
		Liquidacoes: repository.NewConciliacaoRepository(db),
		Gateways:    a.Gateways,
		Eventos:     a.Eventos,
		Cache:       acessoCache,
		Regras:      cfg.Regras(),
		Logger:      slog.Default(),
	})
	a.Operadores = service.NewOperadorService(operadorRepo, pagamentoRepo, acessoCache, nil)
	a.PDV = service.NewPDVService(repository.NewProdutoRepository(db), repository.NewVendaRepository(db), nil)
	a.Receitas = service.NewReceitaService(receitaRepo)

	return a, nil
}

// novoRegistry registra o Mercado Pago para PIX e a Stripe, quando configurada,
// para cartão. Sem Stripe o checkout de cartão responde método inválido.
func novoRegistry(cfg *config.Config) *gateway.Registry {
	reg := gateway.NewRegistry()
	reg.Register(gateway.ProvedorMercadoPago, gateway.NewMercadoPago(gateway.MercadoPagoConfig{
		BaseURL:       cfg.MercadoPago.BaseURL,
		AccessToken:   cfg.MercadoPago.AccessToken,
		WebhookSecret: cfg.MercadoPago.WebhookSecret,
		Timeout:       cfg.MercadoPago.Timeout,
		MaxRetries:    cfg.MercadoPago.MaxRetries,
	}), domain.MetodoPix)

	if cfg.Stripe.APIKey != "" {
		reg.Register(gateway.ProvedorStripe, gateway.NewStripe(gateway.StripeConfig{
			APIKey:        cfg.Stripe.APIKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		}), domain.MetodoCartao)
	}

	if cfg.Stripe.APIKey == "" {
		slog.Warn("Stripe não configurada: checkout de cartão indisponível")
	}
	if cfg.MercadoPago.WebhookSecret == "" {
		slog.Warn("Webhook do Mercado Pago sem segredo: assinatura não será verificada")
	}
	slog.Info("Gateways registrados", "provedores", reg.Nomes())
	return reg
}

// Close libera as conexões. Pode ser chamado com a montagem pela metade.
func (a *App) Close() error {
	var errs []error
	if a.Eventos != nil {
		if err := a.Eventos.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
