// Package eventos publica no Kafka os fatos de negócio da assinatura
// (renovação, cancelamento) para os consumidores de BI e financeiro.
package eventos

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// Tipos de evento publicados.
const (
	TipoAssinaturaRenovada = "assinatura.renovada"
	TipoPagamentoCancelado = "pagamento.cancelado"
)

// Evento é o envelope publicado. A chave da mensagem é o operador, então os
// eventos de um mesmo operador ficam na mesma partição e em ordem.
type Evento struct {
	Tipo          string    `json:"tipo"`
	OperadorID    string    `json:"operador_id"`
	PagamentoID   string    `json:"pagamento_id"`
	Provedor      string    `json:"provedor,omitempty"`
	ValorCentavos int64     `json:"valor_centavos,omitempty"`
	Dias          int       `json:"dias,omitempty"`
	NextDueAt     time.Time `json:"next_due_at,omitempty"`
	Origem        string    `json:"origem,omitempty"`
	OcorridoEm    time.Time `json:"ocorrido_em"`
}

type Publisher interface {
	Publish(ctx context.Context, e Evento) error
	Close() error
}

// KafkaPublisher publica de forma síncrona: o retorno só vem depois do ack de todas as réplicas.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher conecta nos brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "pdv-assinatura"
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar producer kafka: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer usa um producer já criado (nos testes, o mock do sarama).
func NewKafkaPublisherWithProducer(p sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (k *KafkaPublisher) Publish(ctx context.Context, e Evento) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(e.OperadorID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("tipo"), Value: []byte(e.Tipo)},
		},
		Timestamp: e.OcorridoEm,
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("erro ao publicar evento %s: %w", e.Tipo, err)
	}
	slog.Debug("Evento publicado", "tipo", e.Tipo, "operador_id", e.OperadorID, "partition", partition, "offset", offset)
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}

// NopPublisher é usado quando não há brokers configurados.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Evento) error { return nil }
func (NopPublisher) Close() error                          { return nil }
