package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
)

var (
	bitcoinAddress   = regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,71}|[13][a-km-zA-HJ-NP-Z1-9]{25,34})$`)
	lightningInvoice = regexp.MustCompile(`^ln(bc|tb)[0-9a-z]{20,}$`)
	evmAddress       = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	tronAddress      = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
)

// ValidateAddress checks that address has the format of the method's network.
func ValidateAddress(method models.CryptoCurrency, address string) error {
	var re *regexp.Regexp
	switch method {
	case models.CryptoBTC:
		re = bitcoinAddress
	case models.CryptoBTCLightning:
		re = lightningInvoice
		address = strings.ToLower(address)
	case models.CryptoETH, models.CryptoUSDTERC20, models.CryptoUSDC, models.CryptoBinance:
		re = evmAddress
	case models.CryptoUSDTTRC20:
		re = tronAddress
	default:
		return fmt.Errorf("%w: unknown method %q", pkgerrors.ErrInvalidCryptoAddress, method)
	}

	if !re.MatchString(address) {
		return fmt.Errorf("%w: not a %s address", pkgerrors.ErrInvalidCryptoAddress, method)
	}
	return nil
}
