package coinhouse

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/command"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/domain/persona"
	"github.com/ravenmoor/ravenmoor/internal/services/economy/event"
)

var (
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("coinhouse account store is not configured")
	// ErrDirectoryNotConfigured indicates the service is missing persona resolution.
	ErrDirectoryNotConfigured = errors.New("persona directory is not configured")
)

// Store is the persistence boundary for coinhouse accounts. Implementations
// report concurrent-write conflicts as ErrConflict and missing accounts as
// ErrNotFound.
type Store interface {
	GetAccount(ctx context.Context, accountID uuid.UUID) (Account, error)
	SaveAccount(ctx context.Context, account Account) error
}

// Service orchestrates the account-holder management commands. Each command
// runs one load, validate, mutate, persist cycle; the service holds no
// cross-call state.
type Service struct {
	store     Store
	directory persona.Directory
	bus       event.Bus
	clock     func() time.Time
	logf      func(format string, args ...any)
}

// NewService constructs the coinhouse account use-cases.
func NewService(store Store, directory persona.Directory, bus event.Bus, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:     store,
		directory: directory,
		bus:       bus,
		clock:     clock,
		logf:      log.Printf,
	}
}

// RemoveHolderInput identifies one holder to remove from an account.
type RemoveHolderInput struct {
	Requestor persona.ID
	AccountID uuid.UUID
	Coinhouse Tag
	HolderID  uuid.UUID
}

// UpdateHolderRoleInput identifies one holder role transition.
type UpdateHolderRoleInput struct {
	Requestor persona.ID
	AccountID uuid.UUID
	Coinhouse Tag
	HolderID  uuid.UUID
	NewRole   HolderRole
}

// RemoveHolder removes a holder from a coinhouse account. The requestor
// must hold Owner or JointOwner rank, and the removal must never leave the
// account without an owner.
func (s *Service) RemoveHolder(ctx context.Context, in RemoveHolderInput) (command.Result, error) {
	account, result, err := s.loadForHolderChange(ctx, in.Requestor, in.AccountID)
	if err != nil || !result.Success {
		return result, err
	}

	target, ok := account.HolderByID(in.HolderID)
	if !ok {
		return command.Fail("the holder is not a member of this account"), nil
	}
	if reqResult := account.requestorMayManage(in.Requestor); !reqResult.Success {
		return reqResult, nil
	}
	if target.Role == RoleOwner && account.OwnerCount() == 1 {
		return command.Fail("the sole owner of a coinhouse account cannot be removed"), nil
	}

	account.RemoveHolder(in.HolderID)
	account.Touch(s.clock())
	if err := account.Validate(); err != nil {
		return command.Fail(err.Error()), nil
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, ErrConflict) {
			return command.Fail("the account was modified concurrently; retry the removal"), nil
		}
		return command.Result{}, err
	}

	s.publish(ctx, event.Event{
		Type:      event.TypeAccountHolderRemoved,
		AccountID: account.ID.String(),
		HolderID:  in.HolderID.String(),
		Actor:     in.Requestor.String(),
		Timestamp: s.clock().UTC(),
	})
	return command.OK(), nil
}

// UpdateHolderRole changes a holder's permission role. Ownership can never
// be granted through this command, and the existing Owner's role is
// immutable through this path.
func (s *Service) UpdateHolderRole(ctx context.Context, in UpdateHolderRoleInput) (command.Result, error) {
	account, result, err := s.loadForHolderChange(ctx, in.Requestor, in.AccountID)
	if err != nil || !result.Success {
		return result, err
	}

	target, ok := account.HolderByID(in.HolderID)
	if !ok {
		return command.Fail("the holder is not a member of this account"), nil
	}
	if reqResult := account.requestorMayManage(in.Requestor); !reqResult.Success {
		return reqResult, nil
	}
	if !in.NewRole.Valid() {
		return command.Fail("the requested holder role is invalid"), nil
	}
	if in.NewRole == RoleOwner {
		return command.Fail("ownership transfer is not permitted through a role update"), nil
	}
	if target.Role == RoleOwner {
		return command.Fail("the Owner's role cannot be changed"), nil
	}
	if in.NewRole == target.Role {
		return command.Fail("the holder already has this role"), nil
	}

	oldRole := target.Role
	account.SetHolderRole(in.HolderID, in.NewRole)
	account.Touch(s.clock())
	if err := account.Validate(); err != nil {
		return command.Fail(err.Error()), nil
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, ErrConflict) {
			return command.Fail("the account was modified concurrently; retry the role update"), nil
		}
		return command.Result{}, err
	}

	s.publish(ctx, event.Event{
		Type:      event.TypeAccountHolderRoleChanged,
		AccountID: account.ID.String(),
		HolderID:  in.HolderID.String(),
		Actor:     in.Requestor.String(),
		OldRole:   oldRole.String(),
		NewRole:   in.NewRole.String(),
		Timestamp: s.clock().UTC(),
	})
	return command.OK(), nil
}

// loadForHolderChange runs the shared preamble of both holder commands:
// load the account and confirm the requestor resolves to a known persona.
// A successful preamble returns an OK result.
func (s *Service) loadForHolderChange(ctx context.Context, requestor persona.ID, accountID uuid.UUID) (Account, command.Result, error) {
	if s == nil || s.store == nil {
		return Account{}, command.Result{}, ErrStoreNotConfigured
	}
	if s.directory == nil {
		return Account{}, command.Result{}, ErrDirectoryNotConfigured
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, command.Failf("coinhouse account %s could not be found", accountID), nil
		}
		return Account{}, command.Result{}, err
	}

	exists, err := s.directory.Exists(ctx, requestor)
	if err != nil {
		return Account{}, command.Result{}, err
	}
	if !exists {
		return Account{}, command.Failf("requestor %s could not be found", requestor), nil
	}

	return account, command.OK(), nil
}

// requestorMayManage checks the requestor's own holder rank against the
// permission table.
func (a Account) requestorMayManage(requestor persona.ID) command.Result {
	holder, ok := a.HolderByPersona(requestor)
	if !ok || !holder.Role.CanManageHolders() {
		return command.Fail("the requestor does not have permission to manage holders on this account")
	}
	return command.OK()
}

// publish fires an audit event after a successful persist. Publication is
// best effort: a bus failure never rolls back the mutation.
func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		s.logf("coinhouse: publish %s event: %v", evt.Type, err)
	}
}
