// Package config carrega a configuração do .env, de um YAML opcional e das variáveis de ambiente.
// Variáveis de ambiente usam a chave em maiúsculas com "_" no lugar de "." (ex: DATABASE_DSN).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/willjrcristo/pdv-assinatura/internal/assinatura"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
)

type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Port     string `mapstructure:"port"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Assinatura struct {
		Pix           Faixa         `mapstructure:"pix"`
		Cartao        Faixa         `mapstructure:"card"`
		PendenteApos  time.Duration `mapstructure:"pendente_apos"`
		CancelarApos  time.Duration `mapstructure:"cancelar_apos"`
		PoliticaValor string        `mapstructure:"politica_valor"`
	} `mapstructure:"assinatura"`

	MercadoPago struct {
		BaseURL       string        `mapstructure:"base_url"`
		AccessToken   string        `mapstructure:"access_token"`
		WebhookSecret string        `mapstructure:"webhook_secret"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MaxRetries    uint64        `mapstructure:"max_retries"`
	} `mapstructure:"mercadopago"`

	Stripe struct {
		APIKey        string `mapstructure:"api_key"`
		WebhookSecret string `mapstructure:"webhook_secret"`
	} `mapstructure:"stripe"`

	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	Sweeper struct {
		Enabled  bool          `mapstructure:"enabled"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"sweeper"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"ratelimit"`

	CORS struct {
		Origins []string `mapstructure:"origins"`
	} `mapstructure:"cors"`
}

// Faixa de preço em reais, como aparece no painel do gateway.
type Faixa struct {
	Preco float64 `mapstructure:"preco"`
	Min   float64 `mapstructure:"min"`
	Max   float64 `mapstructure:"max"`
	Dias  int     `mapstructure:"dias"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./pdv.db")

	v.SetDefault("assinatura.pix.preco", 59.90)
	v.SetDefault("assinatura.pix.min", 59.00)
	v.SetDefault("assinatura.pix.max", 60.00)
	v.SetDefault("assinatura.pix.dias", 60)
	v.SetDefault("assinatura.card.preco", 149.70)
	v.SetDefault("assinatura.card.min", 149.00)
	v.SetDefault("assinatura.card.max", 150.00)
	v.SetDefault("assinatura.card.dias", 180)
	v.SetDefault("assinatura.pendente_apos", "4m")
	v.SetDefault("assinatura.cancelar_apos", "10m")
	v.SetDefault("assinatura.politica_valor", string(assinatura.PoliticaMaisProximo))

	v.SetDefault("mercadopago.base_url", "https://api.mercadopago.com")
	v.SetDefault("mercadopago.access_token", "")
	v.SetDefault("mercadopago.webhook_secret", "")
	v.SetDefault("mercadopago.timeout", "10s")
	v.SetDefault("mercadopago.max_retries", 3)

	v.SetDefault("stripe.api_key", "")
	v.SetDefault("stripe.webhook_secret", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "pdv.assinaturas")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("sweeper.enabled", false)
	v.SetDefault("sweeper.interval", "1m")

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("cors.origins", []string{"*"})
}

// Load lê, nesta ordem de precedência: variáveis de ambiente, o arquivo em path
// (se existir) e os valores padrão. Um .env no diretório atual é carregado antes.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao ler .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("erro ao ler %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch assinatura.PoliticaValor(c.Assinatura.PoliticaValor) {
	case assinatura.PoliticaMaisProximo, assinatura.PoliticaRejeitar:
	default:
		return fmt.Errorf("assinatura.politica_valor inválida: %q", c.Assinatura.PoliticaValor)
	}
	if c.Assinatura.PendenteApos <= 0 || c.Assinatura.CancelarApos < c.Assinatura.PendenteApos {
		return errors.New("assinatura: cancelar_apos deve ser maior ou igual a pendente_apos, e ambos positivos")
	}
	return nil
}

// Regras monta a tabela de preços e as bandas usadas pela conciliação.
func (c *Config) Regras() assinatura.Regras {
	a := c.Assinatura
	return assinatura.Regras{
		Tiers: []assinatura.Tier{
			a.Pix.tier("pix", domain.MetodoPix),
			a.Cartao.tier("card", domain.MetodoCartao),
		},
		Bandas: assinatura.Bandas{
			Pendente: a.PendenteApos,
			Cancelar: a.CancelarApos,
		},
		PoliticaValor: assinatura.PoliticaValor(a.PoliticaValor),
	}
}

func (f Faixa) tier(nome string, m domain.MetodoPagamento) assinatura.Tier {
	return assinatura.Tier{
		Nome:          nome,
		PrecoCentavos: centavos(f.Preco),
		MinCentavos:   centavos(f.Min),
		MaxCentavos:   centavos(f.Max),
		Dias:          f.Dias,
		Metodo:        m,
	}
}

func centavos(reais float64) int64 {
	return int64(math.Round(reais * 100))
}

// SlogLevel converte app.log_level; valores desconhecidos viram info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction indica app.env=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
