// Package errs provides the error values handlers return to clients.
package errs

import "errors"

// Response is the document sent to the client when a request fails. Details
// carries data about the failure, like the transactions rejected by a mine.
type Response struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details any               `json:"details,omitempty"`
}

// Trusted is an error whose message is safe to show the client, paired with
// the status to respond with.
type Trusted struct {
	Err     error
	Status  int
	Details any
}

// NewTrusted marks an expected error as safe for the client.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// NewTrustedWithDetails marks an expected error as safe for the client and
// attaches data to send along with it.
func NewTrustedWithDetails(err error, status int, details any) error {
	return &Trusted{Err: err, Status: status, Details: details}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap returns the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// GetTrusted returns the trusted error in the chain, nil when there is none.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}
