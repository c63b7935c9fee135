package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"golang.org/x/time/rate"
)

// HeaderOperador identifica o operador nas rotas do PDV.
const HeaderOperador = "X-Operador-ID"

type ctxKey int

const operadorKey ctxKey = iota

type AcessoChecker interface {
	CheckAccess(ctx context.Context, id string) (*domain.Acesso, error)
}

// OperadorFromContext devolve o operador liberado pelo portão.
func OperadorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(operadorKey).(string)
	return id
}

// RequireAssinatura só deixa passar operadores com assinatura em dia.
func RequireAssinatura(checker AcessoChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderOperador)
			if id == "" {
				respondWithError(w, http.StatusUnauthorized, "Cabeçalho "+HeaderOperador+" obrigatório")
				return
			}

			acesso, err := checker.CheckAccess(r.Context(), id)
			if err != nil {
				respondWithServiceError(w, err, "Erro ao verificar assinatura")
				return
			}
			if !acesso.Liberado {
				// 402 para o front-end levar o operador ao checkout
				respondWithJSON(w, http.StatusPaymentRequired, map[string]any{
					"error":  "Assinatura inativa",
					"acesso": acesso,
				})
				return
			}

			ctx := context.WithValue(r.Context(), operadorKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimiter limita requisições por IP com um token bucket por visitante.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter cria o limitador. A limpeza dos visitantes parados roda até ctx terminar.
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		rl.mu.Lock()
		v, ok := rl.visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
			rl.visitors[ip] = v
		}
		v.lastSeen = time.Now()
		rl.mu.Unlock()

		if !v.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			respondWithError(w, http.StatusTooManyRequests, "Muitas requisições, tente novamente")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > 3*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientIP usa o RemoteAddr, já reescrito pelo middleware.RealIP do chi.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return ip
}
