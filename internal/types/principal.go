package types

// Principal identifies the entity making a request. The zero value is
// the anonymous principal; handlers never construct an authenticated
// Principal from client-supplied fields, only from a validated session.
type Principal struct {
	UserID        string
	Username      string
	Authenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated builds a principal for a validated user id.
func AuthenticatedPrincipal(userID, username string) Principal {
	return Principal{UserID: userID, Username: username, Authenticated: true}
}
