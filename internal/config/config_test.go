package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willjrcristo/pdv-assinatura/internal/assinatura"
)

func TestLoad_Padroes(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8080", c.App.Port)
	assert.Equal(t, "sqlite3", c.Database.Driver)
	assert.Equal(t, 5*time.Minute, c.Redis.TTL)
	assert.False(t, c.Sweeper.Enabled)
	assert.Equal(t, []string{"*"}, c.CORS.Origins)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())

	// a tabela padrão tem que bater com a de produção
	assert.Equal(t, assinatura.DefaultRegras(), c.Regras())
}

func TestLoad_VariaveisDeAmbiente(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("DATABASE_DRIVER", "pgx")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("ASSINATURA_POLITICA_VALOR", "reject")
	t.Setenv("ASSINATURA_CANCELAR_APOS", "15m")

	c, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "9090", c.App.Port)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
	assert.Equal(t, "pgx", c.Database.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, assinatura.PoliticaRejeitar, c.Regras().PoliticaValor)
	assert.Equal(t, 15*time.Minute, c.Regras().Bandas.Cancelar)
}

func TestLoad_Arquivo(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
assinatura:
  pix:
    preco: 69.90
    min: 69.00
    max: 70.00
    dias: 30
sweeper:
  enabled: true
  interval: 30s
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	c, err := Load(path)

	require.NoError(t, err)
	assert.True(t, c.Sweeper.Enabled)
	assert.Equal(t, 30*time.Second, c.Sweeper.Interval)

	tier, exato := c.Regras().TierFor(6990)
	assert.True(t, exato)
	assert.Equal(t, 30, tier.Dias)
	assert.Equal(t, int64(6990), tier.PrecoCentavos)
}

func TestLoad_Invalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ASSINATURA_POLITICA_VALOR", "aleatoria")

	_, err := Load("")

	assert.Error(t, err)
}
