package model

// Identity is a registered operator. The email is the unique key and is
// compared case-insensitively everywhere; the secret is opaque and never
// serialized.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
	Unit    string `json:"unit"`
	Secret  string `json:"-"`
	IsAdmin bool   `json:"is_admin"`
}

// UserView is the caller-facing projection of an Identity, returned from
// login and token validation. It never carries the secret.
type UserView struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
	Unit    string `json:"unit"`
	IsAdmin bool   `json:"is_admin"`
}

// View returns the serializable projection of the identity.
func (i Identity) View() UserView {
	return UserView{
		Email:   i.Email,
		Name:    i.Name,
		Rank:    i.Rank,
		Unit:    i.Unit,
		IsAdmin: i.IsAdmin,
	}
}
