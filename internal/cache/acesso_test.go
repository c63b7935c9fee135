package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

func TestTTLPara(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	max := 5 * time.Minute
	em := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	casos := []struct {
		nome   string
		acesso domain.Acesso
		ttl    time.Duration
	}{
		{"bloqueado usa o máximo", domain.Acesso{Liberado: false}, max},
		{"vencimento distante usa o máximo", domain.Acesso{Liberado: true, NextDueAt: em(48 * time.Hour)}, max},
		{"vencimento próximo encurta o ttl", domain.Acesso{Liberado: true, NextDueAt: em(90 * time.Second)}, 90 * time.Second},
		{"já vencido não é cacheado", domain.Acesso{Liberado: true, NextDueAt: em(-time.Second)}, -time.Second},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.ttl, ttlPara(c.acesso, now, max))
		})
	}
}
