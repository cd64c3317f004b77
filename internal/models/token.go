package models

// Principal is the authenticated caller carried in the request context.
type Principal struct {
	UserID     int64  `json:"user_id"`
	CountryID  int64  `json:"country_id"`
	Email      string `json:"email"`
	ReferralID string `json:"referral_id"`
}
