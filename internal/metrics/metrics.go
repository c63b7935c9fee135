// Package metrics declara as métricas de negócio da assinatura.
// As métricas HTTP continuam no middleware do cmd/api.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Conta cada conciliação pelo ponto de entrada e pelo desfecho.
	Conciliacoes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdv_conciliacoes_total",
			Help: "Conciliações de pagamento por origem e resultado.",
		},
		[]string{"origem", "resultado"},
	)

	// Lançamentos que não entraram no livro de receitas depois da renovação gravada.
	ReceitaFalhas = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_receita_falhas_total",
			Help: "Falhas ao lançar receita de pagamento já conciliado.",
		},
	)

	ValorForaDaTabela = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_valor_fora_da_tabela_total",
			Help: "Pagamentos cujo valor não caiu em nenhuma faixa de preço.",
		},
	)

	PagamentosCancelados = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_pagamentos_cancelados_total",
			Help: "Pagamentos pendentes cancelados por passarem da janela.",
		},
	)
)
