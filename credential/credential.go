package credential

import (
	"errors"
	"fmt"
	"regexp"
)

// Command names the protocol flow a checksum is minted for. The command is
// mixed into the HMAC input, so a checksum from one flow never verifies in
// another.
type Command string

const (
	// CommandBearer authenticates bearer credentials presented to resume a
	// linked session.
	CommandBearer Command = "bearer"

	// CommandAttach authenticates attach requests that bind a token to a
	// session.
	CommandAttach Command = "attach"
)

// ErrMalformed reports input that does not match the bearer wire format.
var ErrMalformed = errors.New("malformed bearer credential")

// bearerPattern is the exact wire shape. Broker and token are word
// characters, so the separating dashes split unambiguously.
var bearerPattern = regexp.MustCompile(`^SSO-(\w+)-(\w+)-([a-z0-9]+)$`)

// Bearer is a parsed bearer credential.
type Bearer struct {
	BrokerID string
	Token    string
	Checksum string
}

// Parse splits a wire-format bearer credential into its parts. Input that
// is not exactly SSO-{broker}-{token}-{checksum} fails with [ErrMalformed].
func Parse(raw string) (Bearer, error) {
	m := bearerPattern.FindStringSubmatch(raw)
	if m == nil {
		return Bearer{}, ErrMalformed
	}
	return Bearer{BrokerID: m[1], Token: m[2], Checksum: m[3]}, nil
}

// Render produces the wire form of a bearer credential. It is the inverse
// of [Parse] for charset-conforming inputs.
func Render(brokerID, token, checksum string) string {
	return fmt.Sprintf("SSO-%s-%s-%s", brokerID, token, checksum)
}

// String returns the wire form of b.
func (b Bearer) String() string {
	return Render(b.BrokerID, b.Token, b.Checksum)
}
