package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Persona errors
	CodePersonaInvalidKind  Code = "PERSONA_INVALID_KIND"
	CodePersonaEmptyValue   Code = "PERSONA_EMPTY_VALUE"
	CodePersonaUnresolvable Code = "PERSONA_UNRESOLVABLE"

	// Money errors
	CodeGoldNegativeAmount  Code = "GOLD_NEGATIVE_AMOUNT"
	CodeGoldUnderflow       Code = "GOLD_UNDERFLOW"
	CodeTransactionRejected Code = "TRANSACTION_REJECTED"

	// Coinhouse account errors
	CodeAccountNotFound       Code = "ACCOUNT_NOT_FOUND"
	CodeAccountWithoutOwner   Code = "ACCOUNT_WITHOUT_OWNER"
	CodeHolderNotMember       Code = "HOLDER_NOT_MEMBER"
	CodeHolderPermission      Code = "HOLDER_PERMISSION_DENIED"
	CodeHolderSoleOwner       Code = "HOLDER_SOLE_OWNER"
	CodeHolderOwnershipGrant  Code = "HOLDER_OWNERSHIP_TRANSFER"
	CodeHolderOwnerImmutable  Code = "HOLDER_OWNER_ROLE_IMMUTABLE"
	CodeHolderRoleUnchanged   Code = "HOLDER_ROLE_UNCHANGED"
	CodeHolderInvalidRole     Code = "HOLDER_INVALID_ROLE"

	// Rental errors
	CodeRentalNoActiveRental Code = "RENTAL_NO_ACTIVE_RENTAL"
	CodeRentalTenantMismatch Code = "RENTAL_TENANT_MISMATCH"
	CodeRentalPrepaymentCap  Code = "RENTAL_PREPAYMENT_CAP"
	CodeRentalNoTenant       Code = "RENTAL_NO_CURRENT_TENANT"
	CodeRentalInvalidState   Code = "RENTAL_INVALID_STATE"

	// Catalog errors
	CodeCatalogInvalid Code = "CATALOG_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeConflict Code = "CONFLICT"
)
