package orders

// Credentials are the username and password of a restaurant's portal account.
type Credentials struct {
	Username string
	Password string
}

// Check fails with NO_CREDENTIALS if the username or password is missing.
func (c Credentials) Check() error {
	if c.Username == "" || c.Password == "" {
		return NewError(
			NoCredentials,
			"No username and or password configured, cannot log in to Thuisbezorgd.nl",
		)
	}
	return nil
}
