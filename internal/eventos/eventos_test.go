package eventos

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Run("sucesso - publica JSON com a chave do operador", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			assert.Equal(t, "pdv.assinaturas", msg.Topic)

			key, err := msg.Key.Encode()
			require.NoError(t, err)
			assert.Equal(t, "op-1", string(key))

			value, err := msg.Value.Encode()
			require.NoError(t, err)
			var e Evento
			require.NoError(t, json.Unmarshal(value, &e))
			assert.Equal(t, TipoAssinaturaRenovada, e.Tipo)
			assert.Equal(t, int64(5990), e.ValorCentavos)

			require.Len(t, msg.Headers, 1)
			assert.Equal(t, TipoAssinaturaRenovada, string(msg.Headers[0].Value))
			return nil
		})
		pub := NewKafkaPublisherWithProducer(producer, "pdv.assinaturas")

		err := pub.Publish(context.Background(), Evento{
			Tipo: TipoAssinaturaRenovada, OperadorID: "op-1", PagamentoID: "pg-1",
			ValorCentavos: 5990, Dias: 60, OcorridoEm: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})

		assert.NoError(t, err)
		assert.NoError(t, pub.Close())
	})

	t.Run("erro - falha do broker é devolvida", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageAndFail(errors.New("broker fora"))
		pub := NewKafkaPublisherWithProducer(producer, "pdv.assinaturas")

		err := pub.Publish(context.Background(), Evento{Tipo: TipoPagamentoCancelado, OperadorID: "op-1"})

		assert.Error(t, err)
		assert.NoError(t, pub.Close())
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Evento{}))
	assert.NoError(t, p.Close())
}
