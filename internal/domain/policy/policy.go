// Package policy decides what a caller may do. It performs no I/O: every
// decision is a function of the caller and the requested operation.
package policy

import (
	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"

	"github.com/google/uuid"
)

// Operation names a guarded action.
type Operation string

const (
	OpRegisterUser            Operation = "register_user"
	OpGetCurrentUser          Operation = "get_current_user"
	OpResetPassword           Operation = "reset_password"
	OpCreateContactQuery      Operation = "create_contact_query"
	OpListContactQueries      Operation = "list_contact_queries"
	OpUpdateContactQuery      Operation = "update_contact_query"
	OpCreateLead              Operation = "create_lead"
	OpListLeads               Operation = "list_leads"
	OpUpdateLead              Operation = "update_lead"
	OpAssignLead              Operation = "assign_lead"
	OpCreateApplication       Operation = "create_application"
	OpCreateDirectApplication Operation = "create_direct_application"
	OpListApplications        Operation = "list_applications"
	OpUpdateApplication       Operation = "update_application"
	OpRegisterDsaPartner      Operation = "register_dsa_partner"
	OpListDsaPartners         Operation = "list_dsa_partners"
	OpViewDsaProfile          Operation = "view_dsa_profile"
	OpUpdateDsaProfilePicture Operation = "update_dsa_profile_picture"
	OpUpdateDsaKyc            Operation = "update_dsa_kyc"
	OpRemoveDsaPartner        Operation = "remove_dsa_partner"
	OpTrackByMobile           Operation = "track_by_mobile"
)

// Effect is the outcome kind of a decision.
type Effect int

const (
	Deny Effect = iota
	Allow
	AllowWithFilter
)

// FilterKind selects which records a filtered decision exposes.
type FilterKind int

const (
	FilterNone FilterKind = iota
	// FilterOwner exposes applications owned by the caller.
	FilterOwner
	// FilterAssignedDsa exposes leads and applications assigned to the caller.
	FilterAssignedDsa
	// FilterPartnerUser exposes the partner profile owned by the caller.
	FilterPartnerUser
)

// Filter is a visibility predicate bound to a user id.
type Filter struct {
	Kind   FilterKind
	UserID uuid.UUID
}

// Decision is the result of Evaluate.
type Decision struct {
	Effect Effect
	Filter Filter
	// Err is set when Effect is Deny.
	Err error
}

// Allowed reports whether the operation may proceed, possibly filtered.
func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

// Check returns the denial error, or nil when the operation may proceed.
func (d Decision) Check() error {
	if d.Allowed() {
		return nil
	}

	return d.Err
}

// PermitsLead reports whether a single lead is visible under the decision.
func (d Decision) PermitsLead(lead *entity.Lead) bool {
	switch d.Effect {
	case Allow:
		return true
	case AllowWithFilter:
		return d.Filter.Kind == FilterAssignedDsa && lead.AssignedTo(d.Filter.UserID)
	default:
		return false
	}
}

// PermitsApplication reports whether a single application is visible under the decision.
func (d Decision) PermitsApplication(app *entity.LoanApplication) bool {
	switch d.Effect {
	case Allow:
		return true
	case AllowWithFilter:
		switch d.Filter.Kind {
		case FilterOwner:
			return app.OwnedBy(d.Filter.UserID)
		case FilterAssignedDsa:
			return app.AssignedTo(d.Filter.UserID)
		}

		return false
	default:
		return false
	}
}

// PermitsPartner reports whether a partner profile is visible under the decision.
func (d Decision) PermitsPartner(partner *entity.DsaPartner) bool {
	switch d.Effect {
	case Allow:
		return true
	case AllowWithFilter:
		return d.Filter.Kind == FilterPartnerUser && partner.UserID == d.Filter.UserID
	default:
		return false
	}
}

func allow() Decision {
	return Decision{Effect: Allow}
}

func filtered(kind FilterKind, userID uuid.UUID) Decision {
	return Decision{Effect: AllowWithFilter, Filter: Filter{Kind: kind, UserID: userID}}
}

func deny(caller entity.Caller) Decision {
	if caller.IsAnonymous() {
		return Decision{Effect: Deny, Err: domainerrors.ErrUnauthenticated}
	}

	return Decision{Effect: Deny, Err: domainerrors.ErrForbidden}
}

// Evaluate returns the access decision for caller performing op.
func Evaluate(caller entity.Caller, op Operation) Decision {
	role := caller.Role
	if caller.IsAnonymous() {
		role = ""
	}

	switch op {
	case OpRegisterUser, OpCreateContactQuery, OpCreateLead, OpCreateDirectApplication,
		OpRegisterDsaPartner, OpTrackByMobile:
		return allow()

	case OpGetCurrentUser, OpCreateApplication:
		if role == "" {
			return deny(caller)
		}

		return allow()

	case OpListApplications:
		switch role {
		case entity.RoleAdmin:
			return allow()
		case entity.RoleDsa:
			return filtered(FilterAssignedDsa, caller.UserID)
		case entity.RoleUser:
			return filtered(FilterOwner, caller.UserID)
		}

	case OpListLeads, OpUpdateLead:
		switch role {
		case entity.RoleAdmin:
			return allow()
		case entity.RoleDsa:
			return filtered(FilterAssignedDsa, caller.UserID)
		}

	// Only a dsa owns a partner profile; admins manage partners through the list.
	case OpViewDsaProfile, OpUpdateDsaProfilePicture:
		if role == entity.RoleDsa {
			return filtered(FilterPartnerUser, caller.UserID)
		}

	case OpListDsaPartners:
		switch role {
		case entity.RoleAdmin:
			return allow()
		case entity.RoleDsa:
			return filtered(FilterPartnerUser, caller.UserID)
		}

	case OpUpdateApplication, OpAssignLead, OpListContactQueries, OpUpdateContactQuery,
		OpUpdateDsaKyc, OpRemoveDsaPartner, OpResetPassword:
		if role == entity.RoleAdmin {
			return allow()
		}
	}

	return deny(caller)
}
