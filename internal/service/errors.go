package service

import "errors"

// Erros de negócio. Os handlers traduzem cada um para um status HTTP.
var (
	ErrOperadorNaoEncontrado  = errors.New("operador não encontrado")
	ErrPagamentoNaoEncontrado = errors.New("pagamento não encontrado")
	ErrProdutoNaoEncontrado   = errors.New("produto não encontrado")
	ErrDadosInvalidos         = errors.New("dados inválidos")
	ErrEmailEmUso             = errors.New("e-mail já cadastrado")
	ErrSKUEmUso               = errors.New("sku já cadastrado")
	ErrEstoqueInsuficiente    = errors.New("estoque insuficiente")

	// --- ASSINATURA ---

	ErrValorNaoReconhecido  = errors.New("valor do pagamento não corresponde a nenhum plano")
	ErrWebhookInvalido      = errors.New("webhook inválido")
	ErrGatewayIndisponivel  = errors.New("gateway de pagamento indisponível")
	ErrProvedorDesconhecido = errors.New("provedor de pagamento desconhecido")
	ErrMetodoInvalido       = errors.New("método de pagamento inválido")
	ErrOperadorSuspenso     = errors.New("operador suspenso")
)
