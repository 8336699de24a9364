package validation

import (
	"context"
	"fmt"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// KerberosValidator decrypts the AP-REQ carried by a Kerberos token and sets
// the ticket's client as principal.
type KerberosValidator struct {
	decrypter ports.TicketDecrypter
}

// NewKerberosValidator creates a validator that delegates decryption to d.
func NewKerberosValidator(d ports.TicketDecrypter) *KerberosValidator {
	return &KerberosValidator{decrypter: d}
}

// Validate implements ports.Validator.
func (v *KerberosValidator) Validate(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	ticket, ok := cred.Token().(*domain.KerberosTicket)
	if !ok {
		return nil, fmt.Errorf("kerberos: %w: token is not a Kerberos ticket", domain.ErrValidation)
	}
	if v.decrypter == nil {
		return nil, fmt.Errorf("kerberos: %w: no ticket decrypter configured", domain.ErrValidation)
	}

	apReq, err := ticket.APRequest()
	if err != nil {
		return nil, fmt.Errorf("kerberos: %w: %v", domain.ErrValidation, err)
	}
	session, err := v.decrypter.Decrypt(ctx, apReq)
	if err != nil {
		return nil, fmt.Errorf("kerberos: %w: %w", domain.ErrValidation, err)
	}
	if session == nil || session.Client == "" {
		return nil, fmt.Errorf("kerberos: %w: ticket has no client principal", domain.ErrValidation)
	}

	cred.SetPrincipal(domain.NewKerberosPrincipal(session.Client, session.Realm))
	return cred, nil
}

var _ ports.Validator = (*KerberosValidator)(nil)
