package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/gateway"
)

func migrarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrar",
		Short: "Aplica as migrações pendentes no banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New já migra; basta montar e fechar
			a, err := carregarApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrações aplicadas")
			return nil
		},
	}
}

func reprocessarCmd() *cobra.Command {
	var provedor string
	cmd := &cobra.Command{
		Use:   "reprocessar <external-payment-id>",
		Short: "Concilia manualmente um pagamento pelo id no gateway",
		Long: `Consulta o pagamento no gateway e aplica a renovação, como um webhook faria.
Pagamentos já pagos ou cancelados não são reprocessados.

Exemplos:
  pdvctl reprocessar 1234567890
  pdvctl reprocessar pi_3Nx... --provedor stripe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := carregarApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.Conciliacao.ProcessPayment(cmd.Context(), provedor, args[0], domain.OrigemAdmin)
			if err != nil {
				return err
			}
			return imprimirJSON(cmd, d)
		},
	}
	cmd.Flags().StringVarP(&provedor, "provedor", "p", gateway.ProvedorMercadoPago, "provedor do pagamento")
	return cmd
}

func varrerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "varrer-pendentes",
		Short: "Concilia os pendentes aprovados e cancela os que passaram da janela",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := carregarApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.Conciliacao.SweepPending(cmd.Context())
			if err != nil {
				return err
			}
			return imprimirJSON(cmd, v)
		},
	}
}

func criarOperadorCmd() *cobra.Command {
	var nome, email string
	cmd := &cobra.Command{
		Use:   "criar-operador",
		Short: "Cadastra um operador aguardando o primeiro pagamento",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := carregarApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			op, err := a.Operadores.CreateOperador(cmd.Context(), nome, email)
			if err != nil {
				return err
			}
			return imprimirJSON(cmd, op)
		},
	}
	cmd.Flags().StringVar(&nome, "nome", "", "nome do operador")
	cmd.Flags().StringVar(&email, "email", "", "e-mail do operador")
	cmd.MarkFlagRequired("nome")
	cmd.MarkFlagRequired("email")
	return cmd
}

func exportarReceitasCmd() *cobra.Command {
	var saida, de, ate, operador string
	cmd := &cobra.Command{
		Use:   "exportar-receitas",
		Short: "Exporta o livro de receitas para uma planilha XLSX",
		Example: `  pdvctl exportar-receitas --saida receitas.xlsx
  pdvctl exportar-receitas --de 2024-01-01 --ate 2024-02-01 --saida janeiro.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ini, err := parseData("de", de)
			if err != nil {
				return err
			}
			fim, err := parseData("ate", ate)
			if err != nil {
				return err
			}

			a, err := carregarApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(saida)
			if err != nil {
				return fmt.Errorf("erro ao criar %s: %w", saida, err)
			}
			if err := a.Receitas.Export(cmd.Context(), f, ini, fim, operador); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "receitas exportadas em", saida)
			return nil
		},
	}
	cmd.Flags().StringVarP(&saida, "saida", "o", "receitas.xlsx", "arquivo de saída")
	cmd.Flags().StringVar(&de, "de", "", "início do período (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ate, "ate", "", "fim exclusivo do período (YYYY-MM-DD)")
	cmd.Flags().StringVar(&operador, "operador", "", "filtra por ID do operador")
	return cmd
}

func parseData(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s inválido: %q", flag, s)
	}
	return t, nil
}

func imprimirJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
