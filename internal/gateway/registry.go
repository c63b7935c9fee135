package gateway

import (
	"sort"
	"sync"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

// Registry associa o nome do provedor ao cliente e cada método de pagamento ao provedor que o vende.
type Registry struct {
	mu        sync.RWMutex
	gateways  map[string]Gateway
	porMetodo map[domain.MetodoPagamento]string
}

func NewRegistry() *Registry {
	return &Registry{
		gateways:  make(map[string]Gateway),
		porMetodo: make(map[domain.MetodoPagamento]string),
	}
}

// Register adiciona o provedor. O último registrado para um método passa a atendê-lo.
func (r *Registry) Register(nome string, g Gateway, metodos ...domain.MetodoPagamento) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[nome] = g
	for _, m := range metodos {
		r.porMetodo[m] = nome
	}
}

func (r *Registry) Get(nome string) (Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gateways[nome]
	return g, ok
}

// ForMetodo devolve o provedor que atende o checkout do método.
func (r *Registry) ForMetodo(m domain.MetodoPagamento) (string, Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nome, ok := r.porMetodo[m]
	if !ok {
		return "", nil, false
	}
	return nome, r.gateways[nome], true
}

// Parser devolve o verificador de webhook do provedor, se ele tiver um.
func (r *Registry) Parser(nome string) (WebhookParser, bool) {
	g, ok := r.Get(nome)
	if !ok {
		return nil, false
	}
	p, ok := g.(WebhookParser)
	return p, ok
}

// Nomes lista os provedores registrados em ordem alfabética.
func (r *Registry) Nomes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nomes := make([]string, 0, len(r.gateways))
	for n := range r.gateways {
		nomes = append(nomes, n)
	}
	sort.Strings(nomes)
	return nomes
}
