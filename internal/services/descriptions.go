package service

import (
	"fmt"

	"github.com/honeynil/KeecashLedger/internal/models"
)

// localize picks the French text for French-speaking users and English otherwise.
func localize(u *models.User, en, fr string) string {
	if u != nil && u.French() {
		return fr
	}
	return en
}

func depositDescription(u *models.User, method models.CryptoCurrency) string {
	return localize(u, fmt.Sprintf("Deposit from %s", method), fmt.Sprintf("Dépôt via %s", method))
}

func withdrawalDescription(u *models.User, method models.CryptoCurrency) string {
	return localize(u, fmt.Sprintf("Withdrawal in %s", method), fmt.Sprintf("Retrait en %s", method))
}

func transferSentDescription(sender, receiver *models.User) string {
	return localize(sender, "Transfer to "+receiver.ShortName(), "Transfert vers "+receiver.ShortName())
}

func transferReceivedDescription(receiver, sender *models.User) string {
	return localize(receiver, "Transfer received from "+sender.ShortName(), "Transfert reçu de "+sender.ShortName())
}

func referralDescription(referrer, referee *models.User) string {
	return localize(referrer, "Referral earnings from "+referee.ShortName(), "Gain de parrainage de "+referee.ShortName())
}

func referralReason(referrer, referee *models.User) string {
	return localize(referrer, "Referral earnings from "+referee.Email, "Gain de parrainage de "+referee.Email)
}

func cardCreationDescription(u *models.User, name string) string {
	return localize(u, "Card creation: "+name, "Création de la carte: "+name)
}

func cardTopupDescription(u *models.User, name string) string {
	return localize(u, fmt.Sprintf("Topup of %s card", name), "Recharge de la carte "+name)
}

func cardWithdrawalDescription(u *models.User, name string) string {
	return localize(u, fmt.Sprintf("Withdrawal from %s card", name), "Retrait de la carte "+name)
}

// rejectedPaymentEmail explains a short payment whose amount falls outside
// the country's deposit bounds.
func rejectedPaymentEmail(u *models.User, cryptoAmount, crypto, paidAmount, paidCurrency, address string) models.Email {
	if u.French() {
		return models.Email{
			To:      u.Email,
			Subject: "Votre paiement est rejeté",
			Body: "Votre paiement a été rejeté car le montant est soit trop petit ou soit trop grand que ce qui est acceptable dans votre pays." +
				"\nVoici le montant que nous avons reçu: " +
				fmt.Sprintf("\n%s %s ↔ %s %s", cryptoAmount, crypto, paidAmount, paidCurrency) +
				"\nVotre adresse crypto ayant effectué l'envoi: " + address +
				"\nEtant donné que vous n'avez pas respecté les minimums indiqués, ce montant ne vous sera pas remboursé conformément à nos conditions d'utilisation",
			TopImage: "ko",
		}
	}
	return models.Email{
		To:      u.Email,
		Subject: "Your payment is rejected",
		Body: "Your payment was rejected because the amount is either too small or too large than what is acceptable in your country." +
			"\nHere is the amount we received: " +
			fmt.Sprintf("\n%s %s ↔ %s %s", cryptoAmount, crypto, paidAmount, paidCurrency) +
			"\nYour crypto address that sent: " + address +
			"\nBecause you have not met the stated minimums, this amount will not be refunded to you in accordance with our Terms of Service",
		TopImage: "ko",
	}
}
