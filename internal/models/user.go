package models

type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
)

type User struct {
	ID                 int64
	Email              string
	ReferralID         string
	ReferrerID         int64
	CountryID          int64
	Language           Language
	FirstName          string
	LastName           string
	CardholderID       string
	CardholderVerified bool
}

// ShortName is "Lastname Firstname" using the first word of each part.
func (u *User) ShortName() string {
	return firstWord(u.LastName) + " " + firstWord(u.FirstName)
}

func (u *User) French() bool {
	return u.Language == LanguageFR
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
