// Package cache guarda no Redis a resposta do portão de assinatura, consultada a cada requisição do PDV.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

const acessoKeyPrefix = "pdv:acesso:"

// AcessoCache é opcional: sem Redis configurado o serviço consulta sempre o banco.
type AcessoCache interface {
	// Get devolve nil, nil quando não há entrada.
	Get(ctx context.Context, operadorID string) (*domain.Acesso, error)
	Set(ctx context.Context, a domain.Acesso, now time.Time) error
	Invalidate(ctx context.Context, operadorID string) error
}

type RedisAcessoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient conecta e faz um ping para falhar cedo se o Redis não responder.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("erro ao conectar no redis: %w", err)
	}
	return client, nil
}

func NewRedisAcessoCache(client *redis.Client, ttl time.Duration) *RedisAcessoCache {
	return &RedisAcessoCache{client: client, ttl: ttl}
}

func (c *RedisAcessoCache) Get(ctx context.Context, operadorID string) (*domain.Acesso, error) {
	data, err := c.client.Get(ctx, acessoKeyPrefix+operadorID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao ler acesso do cache: %w", err)
	}

	var a domain.Acesso
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("erro ao decodificar acesso do cache: %w", err)
	}
	return &a, nil
}

func (c *RedisAcessoCache) Set(ctx context.Context, a domain.Acesso, now time.Time) error {
	ttl := ttlPara(a, now, c.ttl)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, acessoKeyPrefix+a.OperadorID, data, ttl).Err(); err != nil {
		return fmt.Errorf("erro ao gravar acesso no cache: %w", err)
	}
	return nil
}

func (c *RedisAcessoCache) Invalidate(ctx context.Context, operadorID string) error {
	if err := c.client.Del(ctx, acessoKeyPrefix+operadorID).Err(); err != nil {
		return fmt.Errorf("erro ao invalidar acesso no cache: %w", err)
	}
	return nil
}

// ttlPara nunca deixa um acesso liberado sobreviver ao vencimento da assinatura.
func ttlPara(a domain.Acesso, now time.Time, max time.Duration) time.Duration {
	if !a.Liberado || a.NextDueAt == nil {
		return max
	}
	ate := a.NextDueAt.Sub(now)
	if ate < max {
		return ate
	}
	return max
}
