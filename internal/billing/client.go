package billing

import "strings"

// NormalizeClient prepares a client contact for the directory: the name is
// trimmed and required, the email is trimmed and lower-cased.
func NormalizeClient(p Party) (Party, error) {
	out := Party{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.ToLower(strings.TrimSpace(p.Email)),
		Address: strings.TrimSpace(p.Address),
	}
	if out.Name == "" {
		return Party{}, ErrClientNameRequired
	}
	return out, nil
}

// IsDuplicateClient reports whether existing already holds a client with the
// same name and email, ignoring case and surrounding whitespace.
func IsDuplicateClient(candidate Party, existing []Party) bool {
	name, email := clientKey(candidate)
	for _, c := range existing {
		n, e := clientKey(c)
		if n == name && e == email {
			return true
		}
	}
	return false
}

func clientKey(p Party) (string, string) {
	return strings.ToLower(strings.TrimSpace(p.Name)), strings.ToLower(strings.TrimSpace(p.Email))
}
