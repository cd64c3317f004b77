package models

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Currencies lists every fiat wallet a user holds, in display order.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

type CryptoCurrency string

const (
	CryptoBTC          CryptoCurrency = "BTC"
	CryptoBTCLightning CryptoCurrency = "BTC_LIGHTNING"
	CryptoETH          CryptoCurrency = "ETH"
	CryptoUSDTTRC20    CryptoCurrency = "USDT_TRC20"
	CryptoUSDTERC20    CryptoCurrency = "USDT_ERC20"
	CryptoUSDC         CryptoCurrency = "USDC"
	CryptoBinance      CryptoCurrency = "BINANCE"
)

var CryptoCurrencies = []CryptoCurrency{
	CryptoBTC, CryptoBTCLightning, CryptoETH, CryptoUSDTTRC20, CryptoUSDTERC20, CryptoUSDC, CryptoBinance,
}

func (c CryptoCurrency) Valid() bool {
	switch c {
	case CryptoBTC, CryptoBTCLightning, CryptoETH, CryptoUSDTTRC20, CryptoUSDTERC20, CryptoUSDC, CryptoBinance:
		return true
	}
	return false
}

// Decimals is the precision crypto amounts of this method are shown with.
func (c CryptoCurrency) Decimals() int32 {
	switch c {
	case CryptoBTC, CryptoBTCLightning:
		return 6
	case CryptoETH:
		return 4
	case CryptoUSDTTRC20, CryptoUSDTERC20, CryptoUSDC, CryptoBinance:
		return 2
	}
	return 2
}

// RateSymbol is the ticker the exchange-rate feed quotes this method under.
func (c CryptoCurrency) RateSymbol() string {
	switch c {
	case CryptoBTC, CryptoBTCLightning:
		return "BTC"
	case CryptoETH:
		return "ETH"
	case CryptoUSDTTRC20, CryptoUSDTERC20, CryptoUSDC, CryptoBinance:
		return "USDT"
	}
	return string(c)
}

func (c CryptoCurrency) DisplayName() string {
	switch c {
	case CryptoBTC:
		return "Bitcoin"
	case CryptoBTCLightning:
		return "Bitcoin Lightning"
	case CryptoETH:
		return "Ethereum"
	case CryptoUSDTTRC20:
		return "Tether USD (TRC20)"
	case CryptoUSDTERC20:
		return "Tether USD (ERC20)"
	case CryptoUSDC:
		return "USD Coin"
	case CryptoBinance:
		return "Binance Pay"
	}
	return string(c)
}
