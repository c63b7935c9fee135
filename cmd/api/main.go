package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/willjrcristo/pdv-assinatura/docs" // Registra a documentação gerada pelo swag

	// Nossos pacotes internos da aplicação!
	"github.com/willjrcristo/pdv-assinatura/internal/app"
	"github.com/willjrcristo/pdv-assinatura/internal/config"
	httphandler "github.com/willjrcristo/pdv-assinatura/internal/handler/http"
	"github.com/willjrcristo/pdv-assinatura/internal/service"
)

// @title           API do PDV com Assinatura
// @version         1.0
// @description     Caixa (produtos, estoque e vendas) liberado por assinatura paga via PIX ou cartão.
// @description     Webhooks, polling e reprocessamento passam todos pela mesma conciliação.
//
// @contact.name   Will Cristo
// @contact.url    https://linkedin.com/in/willjrcristo
// @contact.email  willjrcristo@gmail.com
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @host      localhost:8080
// @BasePath  /
func main() {
	// --- 1. CONFIGURAÇÃO ---
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("Erro ao carregar configuração", "error", err)
		os.Exit(1)
	}

	// --- 2. LOGGER ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	slog.Info("🚀 Iniciando a API do PDV...", "env", cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- 3. INJEÇÃO DE DEPENDÊNCIAS (WIRING) ---
	// DB -> Repository -> Service -> Handler
	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Erro ao inicializar a aplicação", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	operadorHandler := httphandler.NewOperadorHandler(a.Operadores, a.Conciliacao)
	pagamentoHandler := httphandler.NewPagamentoHandler(a.Conciliacao)
	webhookHandler := httphandler.NewWebhookHandler(a.Conciliacao)
	pdvHandler := httphandler.NewPDVHandler(a.PDV)
	adminHandler := httphandler.NewAdminHandler(a.Conciliacao, a.Operadores, a.Receitas)
	slog.Info("Camada de handler inicializada")

	// --- 4. CONFIGURAÇÃO DO ROTEADOR E ROTAS ---
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.Origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", httphandler.HeaderOperador},
		MaxAge:         300,
	}))
	r.Use(prometheusMiddleware)

	// Rota de Health Check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API do PDV está no ar! 🚀"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// A URL será http://localhost:8080/swagger/index.html
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	limiter := httphandler.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	r.Mount("/webhooks", webhookHandler.Routes(limiter.Middleware))
	r.Mount("/operadores", operadorHandler.Routes())
	r.Mount("/pagamentos", pagamentoHandler.Routes())
	r.Mount("/admin", adminHandler.Routes())
	r.Mount("/pdv", pdvHandler.Routes(httphandler.RequireAssinatura(a.Operadores)))
	slog.Info("🛰️  Rotas registradas")

	// --- 5. VARREDURA PERIÓDICA DOS PENDENTES ---
	if cfg.Sweeper.Enabled {
		go varrerPendentes(ctx, a.Conciliacao, cfg.Sweeper.Interval)
	}

	// --- 6. INICIALIZAÇÃO DO SERVIDOR HTTP ---
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("✅ Servidor pronto para receber requisições", "porta", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Erro ao iniciar o servidor", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Encerrando o servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Erro ao encerrar o servidor", "error", err)
	}
}

// varrerPendentes roda SweepPending a cada intervalo até ctx terminar.
func varrerPendentes(ctx context.Context, svc *service.ConciliacaoService, intervalo time.Duration) {
	slog.Info("Varredura de pendentes ativada", "intervalo", intervalo)
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.SweepPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Erro na varredura de pendentes", "error", err)
			}
		}
	}
}
