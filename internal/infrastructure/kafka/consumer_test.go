package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository/mocks"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestConsumer_HandleMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockNotificationRepository(ctrl)
	consumer := &Consumer{notificationRepo: repo}
	ctx := context.Background()

	t.Run("Stores", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n *models.Notification) error {
			assert.Equal(t, int64(7), n.UserID)
			assert.Equal(t, models.NotificationDeposit, n.Type)
			assert.Equal(t, models.CurrencyEUR, n.Currency)
			assert.Equal(t, "100", n.Amount.String())
			return nil
		})

		err := consumer.HandleMessage(ctx, kafka.Message{Value: []byte(`{"user_id":7,"type":"DEPOSIT","amount":"100","currency":"EUR"}`)})
		assert.NoError(t, err)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		err := consumer.HandleMessage(ctx, kafka.Message{Value: []byte(`{`)})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPayload)
	})

	t.Run("UnknownType", func(t *testing.T) {
		err := consumer.HandleMessage(ctx, kafka.Message{Value: []byte(`{"user_id":7,"type":"BONUS"}`)})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPayload)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := consumer.HandleMessage(ctx, kafka.Message{Value: []byte(`{"user_id":7,"type":"WITHDRAWAL","amount":"5","currency":"USD"}`)})
		assert.EqualError(t, err, "db down")
	})
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumer_Consume(t *testing.T) {
	deposit := kafka.Message{Offset: 1, Value: []byte(`{"user_id":7,"type":"DEPOSIT","amount":"100","currency":"EUR"}`)}

	t.Run("CommitsOnlyAfterStore", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockNotificationRepository(ctrl)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reader := &fakeReader{msgs: []kafka.Message{deposit}, cancel: cancel}
		consumer := &Consumer{reader: reader, notificationRepo: repo}

		gomock.InOrder(
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down")),
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		)

		consumer.Consume(ctx)
		assert.Len(t, reader.committed, 1)
		assert.Equal(t, int64(1), reader.committed[0].Offset)
	})

	t.Run("DropsMalformed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockNotificationRepository(ctrl)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reader := &fakeReader{msgs: []kafka.Message{{Offset: 2, Value: []byte(`{`)}}, cancel: cancel}
		consumer := &Consumer{reader: reader, notificationRepo: repo}

		consumer.Consume(ctx)
		assert.Len(t, reader.committed, 1)
	})

	t.Run("StoppedBeforeStoreCommitsNothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockNotificationRepository(ctrl)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reader := &fakeReader{msgs: []kafka.Message{deposit}, cancel: cancel}
		consumer := &Consumer{reader: reader, notificationRepo: repo}

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *models.Notification) error {
			cancel()
			return errors.New("db down")
		})

		consumer.Consume(ctx)
		assert.Empty(t, reader.committed)
	})
}
