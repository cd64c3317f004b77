package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/KeecashLedger/internal/fee"
	bridgecardmocks "github.com/honeynil/KeecashLedger/internal/infrastructure/bridgecard/mocks"
	coinlayermocks "github.com/honeynil/KeecashLedger/internal/infrastructure/coinlayer/mocks"
	kafkamocks "github.com/honeynil/KeecashLedger/internal/infrastructure/kafka/mocks"
	redismocks "github.com/honeynil/KeecashLedger/internal/infrastructure/redis/mocks"
	tripleamocks "github.com/honeynil/KeecashLedger/internal/infrastructure/triplea/mocks"
	"github.com/honeynil/KeecashLedger/internal/models"
	repositorymocks "github.com/honeynil/KeecashLedger/internal/repository/mocks"
	"github.com/shopspring/decimal"
)

const testLockTTL = 30 * time.Second

type fixture struct {
	users         *repositorymocks.MockUserRepository
	transactions  *repositorymocks.MockTransactionRepository
	fees          *repositorymocks.MockFeeRepository
	cards         *repositorymocks.MockCardRepository
	beneficiaries *repositorymocks.MockBeneficiaryRepository
	redis         *redismocks.MockRedisClient
	producer      *kafkamocks.MockKafkaProducer
	tripleA       *tripleamocks.MockAPI
	issuer        *bridgecardmocks.MockAPI
	rates         *coinlayermocks.MockAPI
	calc          *fee.Calculator
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		users:         repositorymocks.NewMockUserRepository(ctrl),
		transactions:  repositorymocks.NewMockTransactionRepository(ctrl),
		fees:          repositorymocks.NewMockFeeRepository(ctrl),
		cards:         repositorymocks.NewMockCardRepository(ctrl),
		beneficiaries: repositorymocks.NewMockBeneficiaryRepository(ctrl),
		redis:         redismocks.NewMockRedisClient(ctrl),
		producer:      kafkamocks.NewMockKafkaProducer(ctrl),
		tripleA:       tripleamocks.NewMockAPI(ctrl),
		issuer:        bridgecardmocks.NewMockAPI(ctrl),
		rates:         coinlayermocks.NewMockAPI(ctrl),
	}
	f.calc = fee.NewCalculator(f.fees, fee.Config{DefaultReferralPercent: decimal.NewFromInt(10)})
	return f
}

func (f *fixture) wallet() *walletService {
	return NewWalletService(f.users, f.transactions, f.beneficiaries, f.calc, f.tripleA, f.rates, f.redis, f.producer, testLockTTL)
}

func (f *fixture) cardService() *cardService {
	return NewCardService(f.users, f.cards, f.transactions, f.calc, f.issuer, f.redis, f.producer, testLockTTL)
}

func (f *fixture) reconciliation() *reconciliationService {
	return NewReconciliationService(f.users, f.cards, f.transactions, f.calc, f.tripleA, f.producer)
}

// expectLock expects the wallet lock to be taken and released once.
func (f *fixture) expectLock(userID int64, currency models.Currency) {
	key := lockKey(userID, currency)
	f.redis.EXPECT().SetNX(gomock.Any(), key, "locked", testLockTTL).Return(true, nil)
	f.redis.EXPECT().Del(gomock.Any(), key).Return(nil)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func schedule(key models.FeeKey, fixed, percent, min, max string) *models.FeeSchedule {
	return &models.FeeSchedule{
		FeeKey:     key,
		FixedFee:   d(fixed),
		PercentFee: d(percent),
		MinAmount:  d(min),
		MaxAmount:  d(max),
	}
}

var (
	principal = models.Principal{UserID: 1, CountryID: 33, Email: "jane@example.com", ReferralID: "SV08DV8"}

	jane = &models.User{ID: 1, Email: "jane@example.com", ReferralID: "SV08DV8", CountryID: 33, Language: models.LanguageEN,
		FirstName: "Jane", LastName: "Doe", CardholderID: "ch-1", CardholderVerified: true}
	pierre = &models.User{ID: 2, Email: "pierre@example.fr", ReferralID: "PX11AB2", CountryID: 33, Language: models.LanguageFR,
		FirstName: "Pierre", LastName: "Martin"}
)
