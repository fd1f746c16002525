package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLead_SetStatusStampsConvertedAtOnce(t *testing.T) {
	lead := &Lead{Status: LeadNew}
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	lead.SetStatus(LeadContacted, first)
	assert.Nil(t, lead.ConvertedAt)

	lead.SetStatus(LeadConverted, first)
	assert.Equal(t, first, *lead.ConvertedAt)

	lead.SetStatus(LeadConverted, later)
	assert.Equal(t, first, *lead.ConvertedAt)

	lead.SetStatus(LeadClosed, later)
	assert.Equal(t, LeadClosed, lead.Status)
	assert.Equal(t, first, *lead.ConvertedAt)
}

func TestLead_AssignStampsOnlyOnChange(t *testing.T) {
	lead := &Lead{}
	dsaA, dsaB := uuid.New(), uuid.New()
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	assert.True(t, lead.Assign(dsaA, t1))
	assert.False(t, lead.Assign(dsaA, t2))
	assert.Equal(t, t1, *lead.AssignedAt)

	assert.True(t, lead.Assign(dsaB, t3))
	assert.Equal(t, dsaB, *lead.AssignedDsaID)
	assert.Equal(t, t3, *lead.AssignedAt)
}

func TestStatusEnums(t *testing.T) {
	assert.True(t, LeadQualified.IsValid())
	assert.False(t, LeadStatus("won").IsValid())
	assert.True(t, ApplicationUnderReview.IsValid())
	assert.False(t, ApplicationStatus("under_review").IsValid())
	assert.True(t, KycVerified.IsValid())
	assert.False(t, KycStatus("").IsValid())
	assert.True(t, ContactQueryResponded.IsValid())
	assert.False(t, ContactQueryStatus("open").IsValid())
}

func TestCaller(t *testing.T) {
	assert.True(t, AnonymousCaller().IsAnonymous())
	assert.True(t, NewCaller(uuid.New(), Role("root")).IsAnonymous())
	assert.False(t, NewCaller(uuid.New(), RoleDsa).IsAnonymous())
	assert.False(t, Role("superuser").IsValid())
}

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizeMobile("+91 (987) 654-3210"))
	assert.Equal(t, "9999999999", NormalizeMobile("99.999 99999"))
	assert.Equal(t, "9999999999", NormalizeMobile("9999999999"))
}
