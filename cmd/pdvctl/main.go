// pdvctl reúne as tarefas de manutenção do PDV: migrações, reprocessamento
// de pagamentos, varredura de pendentes e exportação de receitas.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/willjrcristo/pdv-assinatura/internal/app"
	"github.com/willjrcristo/pdv-assinatura/internal/config"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "pdvctl",
		Short:         "Ferramentas de manutenção do PDV com assinatura",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "arquivo de configuração")

	rootCmd.AddCommand(migrarCmd())
	rootCmd.AddCommand(reprocessarCmd())
	rootCmd.AddCommand(varrerCmd())
	rootCmd.AddCommand(criarOperadorCmd())
	rootCmd.AddCommand(exportarReceitasCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

// carregarApp lê a configuração e monta a aplicação com o logger em stderr,
// deixando stdout para a saída dos comandos.
func carregarApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return app.New(ctx, cfg)
}
