package service

import (
	"testing"

	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		method  models.CryptoCurrency
		address string
		valid   bool
	}{
		{"BechAddress", models.CryptoBTC, testBTCAddress, true},
		{"LegacyAddress", models.CryptoBTC, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", true},
		{"EVMAddressForBTC", models.CryptoBTC, testEVMAddress, false},
		{"LightningInvoiceUppercase", models.CryptoBTCLightning, "LNBC2500U1PVJLUEZPP5QQQSYQCYQ5RQWZQFQQQSYQCYQ5RQWZQFQQQSYQCYQ5RQWZQFQYPQ", true},
		{"Ethereum", models.CryptoETH, testEVMAddress, true},
		{"ShortEthereum", models.CryptoETH, "0x5290840009852788", false},
		{"USDC", models.CryptoUSDC, testEVMAddress, true},
		{"Tron", models.CryptoUSDTTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8", true},
		{"TronWithZero", models.CryptoUSDTTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv0", false},
		{"Empty", models.CryptoETH, "", false},
		{"UnknownMethod", "DOGE", testEVMAddress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.method, tt.address)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, pkgerrors.ErrInvalidCryptoAddress)
			assert.ErrorIs(t, err, pkgerrors.ErrValidation)
		})
	}
}
