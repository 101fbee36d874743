package subuser

import (
	"fmt"
	"strings"
)

type emailsKind int

const (
	emailsUnset emailsKind = iota
	emailsSingle
	emailsMany
)

// Emails is the address input of Suppressions and ClearSuppressions. Build
// it with Single or Many; the zero value is rejected.
type Emails struct {
	kind      emailsKind
	addresses []string
}

// Single selects one address.
func Single(email string) Emails {
	return Emails{kind: emailsSingle, addresses: []string{email}}
}

// Many selects a list of addresses. Repeated addresses are checked once.
func Many(emails ...string) Emails {
	return Emails{kind: emailsMany, addresses: append([]string(nil), emails...)}
}

// Addresses returns a copy of the selected addresses in input order.
func (e Emails) Addresses() []string {
	return append([]string(nil), e.addresses...)
}

func (e Emails) validate() error {
	switch {
	case e.kind == emailsUnset:
		return invalid("emails must be built with Single or Many")
	case len(e.addresses) == 0:
		return invalid("at least one email is required")
	}

	var problems []string
	for i, addr := range e.addresses {
		if strings.TrimSpace(addr) == "" {
			problems = append(problems, fmt.Sprintf("email %d is blank", i))
		}
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}
	return nil
}
