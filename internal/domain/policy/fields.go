package policy

import "leadhub/internal/domain/entity"

// Field names a patchable attribute.
type Field string

const (
	FieldStatus        Field = "status"
	FieldAssignedDsaID Field = "assignedDsaId"
	FieldRemarks       Field = "remarks"
	FieldInterestRate  Field = "interestRate"
)

// Kind names a patchable record type.
type Kind string

const (
	KindLead            Kind = "lead"
	KindLoanApplication Kind = "loan_application"
)

// FieldSet is an immutable set of fields.
type FieldSet map[Field]struct{}

func newFieldSet(fields ...Field) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return set
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]

	return ok
}

// Empty reports whether no field may be written.
func (s FieldSet) Empty() bool {
	return len(s) == 0
}

var patchable = map[Kind]map[entity.Role]FieldSet{
	KindLoanApplication: {
		entity.RoleAdmin: newFieldSet(FieldStatus, FieldAssignedDsaID, FieldRemarks, FieldInterestRate),
	},
	KindLead: {
		entity.RoleAdmin: newFieldSet(FieldStatus, FieldRemarks, FieldAssignedDsaID),
		entity.RoleDsa:   newFieldSet(FieldStatus, FieldRemarks),
	},
}

// PatchableFields returns the fields role may write on records of kind.
// Fields outside the set are dropped from a patch, never rejected.
func PatchableFields(role entity.Role, kind Kind) FieldSet {
	if set, ok := patchable[kind][role]; ok {
		return set
	}

	return FieldSet{}
}
