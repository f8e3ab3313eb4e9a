// Package persona defines the identities able to hold money or property.
//
// A persona is the economy's subject: a player character, an organization,
// a settlement government, a coinhouse acting on its own behalf, or a named
// system process. Identities carry a canonical "<Kind>:<Value>" string form
// used for storage and audit records.
package persona

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates the persona identity sum type.
type Kind int

const (
	// KindUnspecified represents an invalid persona kind.
	KindUnspecified Kind = iota
	// KindCharacter identifies a player or NPC character.
	KindCharacter
	// KindOrganization identifies a player organization.
	KindOrganization
	// KindGovernment identifies a settlement government.
	KindGovernment
	// KindCoinhouse identifies a coinhouse acting for itself.
	KindCoinhouse
	// KindSystemProcess identifies a named automated process.
	KindSystemProcess
)

var (
	// ErrEmptyValue indicates a persona value is missing.
	ErrEmptyValue = errors.New("persona value is required")
	// ErrInvalidKind indicates an unknown persona kind label.
	ErrInvalidKind = errors.New("persona kind is invalid")
	// ErrMalformed indicates a canonical string that does not parse.
	ErrMalformed = errors.New("persona id is malformed")
)

// String returns the canonical kind label.
func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "Character"
	case KindOrganization:
		return "Organization"
	case KindGovernment:
		return "Government"
	case KindCoinhouse:
		return "Coinhouse"
	case KindSystemProcess:
		return "SystemProcess"
	default:
		return "Unspecified"
	}
}

func kindFromLabel(label string) (Kind, bool) {
	switch label {
	case "Character":
		return KindCharacter, true
	case "Organization":
		return KindOrganization, true
	case "Government":
		return KindGovernment, true
	case "Coinhouse":
		return KindCoinhouse, true
	case "SystemProcess":
		return KindSystemProcess, true
	default:
		return KindUnspecified, false
	}
}

// ID identifies one persona. The zero value is invalid; construct through
// the For* constructors or Parse so values are always normalized.
type ID struct {
	kind  Kind
	value string
}

// ForCharacter returns the persona identity of a character.
func ForCharacter(characterID uuid.UUID) ID {
	return ID{kind: KindCharacter, value: characterID.String()}
}

// ForOrganization returns the persona identity of an organization.
func ForOrganization(organizationID string) (ID, error) {
	return newID(KindOrganization, organizationID)
}

// ForGovernment returns the persona identity of a settlement government.
func ForGovernment(governmentID string) (ID, error) {
	return newID(KindGovernment, governmentID)
}

// ForCoinhouse returns the persona identity of a coinhouse. Coinhouse tags
// normalize to lowercase so equality never depends on caller casing.
func ForCoinhouse(tag string) (ID, error) {
	trimmed := strings.ToLower(strings.TrimSpace(tag))
	if trimmed == "" {
		return ID{}, ErrEmptyValue
	}
	return ID{kind: KindCoinhouse, value: trimmed}, nil
}

// ForSystemProcess returns the persona identity of a named system process.
func ForSystemProcess(name string) (ID, error) {
	return newID(KindSystemProcess, name)
}

func newID(kind Kind, value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyValue
	}
	return ID{kind: kind, value: trimmed}, nil
}

// Parse decodes a canonical "<Kind>:<Value>" persona string.
func Parse(canonical string) (ID, error) {
	kindLabel, value, found := strings.Cut(canonical, ":")
	if !found {
		return ID{}, fmt.Errorf("%w: %q", ErrMalformed, canonical)
	}
	kind, ok := kindFromLabel(kindLabel)
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidKind, kindLabel)
	}
	switch kind {
	case KindCharacter:
		characterID, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return ID{}, fmt.Errorf("%w: character id %q", ErrMalformed, value)
		}
		return ForCharacter(characterID), nil
	case KindOrganization:
		return ForOrganization(value)
	case KindGovernment:
		return ForGovernment(value)
	case KindCoinhouse:
		return ForCoinhouse(value)
	case KindSystemProcess:
		return ForSystemProcess(value)
	default:
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidKind, kindLabel)
	}
}

// Kind returns the persona kind.
func (id ID) Kind() Kind {
	return id.kind
}

// Value returns the normalized persona value.
func (id ID) Value() string {
	return id.value
}

// IsZero reports whether the identity is unset.
func (id ID) IsZero() bool {
	return id.kind == KindUnspecified && id.value == ""
}

// Equal reports whether two identities name the same persona. Construction
// normalizes values, so plain comparison is exact.
func (id ID) Equal(other ID) bool {
	return id == other
}

// String returns the canonical "<Kind>:<Value>" form.
func (id ID) String() string {
	return id.kind.String() + ":" + id.value
}
