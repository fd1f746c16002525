package impl

import (
	"context"
	"testing"
	"time"

	"leadhub/config"
	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/errors"
	"leadhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	lead := env.createLead(t, "9876543210")
	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.Equal(t, entity.LeadNew, lead.Status)
	assert.Equal(t, entity.LeadSourceWebsite, lead.Source)
	assert.Nil(t, lead.AssignedDsaID)
	assert.Nil(t, lead.AssignedAt)
	assert.Nil(t, lead.ConvertedAt)
}

func TestLeadService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.leads.Create(ctx, entity.AnonymousCaller(), usecase.CreateLeadInput{
		Name:         "Lead",
		MobileNumber: "9876543210",
		LoanType:     "personal",
		Amount:       ptr(decimal.NewFromInt(-1)),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = env.leads.Create(ctx, entity.AnonymousCaller(), usecase.CreateLeadInput{
		Name:         "Lead",
		MobileNumber: "not-a-number",
		LoanType:     "personal",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestLeadService_ListVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedAdmin(t)
	dsaA := env.registerDsa(t, "agenta")
	dsaB := env.registerDsa(t, "agentb")
	user := env.registerUser(t, "asha")

	first := env.createLead(t, "9000000101")
	second := env.createLead(t, "9000000102")
	env.createLead(t, "9000000103")

	_, err := env.leads.AssignToDsa(ctx, admin, first.ID, dsaA.UserID)
	require.NoError(t, err)
	_, err = env.leads.AssignToDsa(ctx, admin, second.ID, dsaB.UserID)
	require.NoError(t, err)

	all, err := env.leads.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := env.leads.List(ctx, dsaA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = env.leads.List(ctx, user)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, err = env.leads.List(ctx, entity.AnonymousCaller())
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestLeadService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	var ids []uuid.UUID
	for _, mobile := range []string{"9000000201", "9000000202", "9000000203"} {
		ids = append(ids, env.createLead(t, mobile).ID)
		time.Sleep(2 * time.Millisecond)
	}

	leads, err := env.leads.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestLeadService_AssignToDsa(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedAdmin(t)
	dsa := env.registerDsa(t, "agent")
	other := env.registerDsa(t, "agent2")
	user := env.registerUser(t, "asha")
	lead := env.createLead(t, "9000000301")

	t.Run("only admins assign", func(t *testing.T) {
		_, err := env.leads.AssignToDsa(ctx, dsa, lead.ID, dsa.UserID)
		assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	})

	t.Run("target must be a dsa", func(t *testing.T) {
		_, err := env.leads.AssignToDsa(ctx, admin, lead.ID, user.UserID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

		_, err = env.leads.AssignToDsa(ctx, admin, lead.ID, uuid.New())
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

		stored, err := env.store.Repos().LeadRepo().FindByID(ctx, lead.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.AssignedDsaID)
		assert.Nil(t, stored.AssignedAt)
	})

	t.Run("missing lead", func(t *testing.T) {
		_, err := env.leads.AssignToDsa(ctx, admin, uuid.New(), dsa.UserID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})

	assigned, err := env.leads.AssignToDsa(ctx, admin, lead.ID, dsa.UserID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedDsaID)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, dsa.UserID, *assigned.AssignedDsaID)
	firstStamp := *assigned.AssignedAt

	t.Run("same dsa is a no-op", func(t *testing.T) {
		again, err := env.leads.AssignToDsa(ctx, admin, lead.ID, dsa.UserID)
		require.NoError(t, err)
		assert.Equal(t, firstStamp, *again.AssignedAt)
	})

	t.Run("different dsa restamps", func(t *testing.T) {
		time.Sleep(2 * time.Millisecond)
		moved, err := env.leads.AssignToDsa(ctx, admin, lead.ID, other.UserID)
		require.NoError(t, err)
		assert.Equal(t, other.UserID, *moved.AssignedDsaID)
		assert.True(t, moved.AssignedAt.After(firstStamp))
	})
}

func TestLeadService_UpdateByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedAdmin(t)
	dsa := env.registerDsa(t, "agent")
	stranger := env.registerDsa(t, "stranger")
	user := env.registerUser(t, "asha")
	lead := env.createLead(t, "9000000401")

	_, err := env.leads.AssignToDsa(ctx, admin, lead.ID, dsa.UserID)
	require.NoError(t, err)

	t.Run("user is forbidden", func(t *testing.T) {
		_, err := env.leads.Update(ctx, user, lead.ID, usecase.LeadPatch{Remarks: ptr("hi")})
		assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	})

	t.Run("unassigned dsa sees not found", func(t *testing.T) {
		_, err := env.leads.Update(ctx, stranger, lead.ID, usecase.LeadPatch{Remarks: ptr("hi")})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})

	t.Run("dsa cannot reassign", func(t *testing.T) {
		updated, err := env.leads.Update(ctx, dsa, lead.ID, usecase.LeadPatch{
			Status:        ptr(entity.LeadContacted),
			AssignedDsaID: ptr(stranger.UserID),
		})
		require.NoError(t, err)
		assert.Equal(t, entity.LeadContacted, updated.Status)
		assert.Equal(t, dsa.UserID, *updated.AssignedDsaID)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{Status: ptr(entity.LeadStatus("lost"))})
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("admin reassigns through patch", func(t *testing.T) {
		updated, err := env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{AssignedDsaID: ptr(stranger.UserID)})
		require.NoError(t, err)
		assert.Equal(t, stranger.UserID, *updated.AssignedDsaID)

		_, err = env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{AssignedDsaID: ptr(user.UserID)})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})

	t.Run("missing lead", func(t *testing.T) {
		_, err := env.leads.Update(ctx, admin, uuid.New(), usecase.LeadPatch{Remarks: ptr("hi")})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	})
}

func TestLeadService_ConvertedAtIsSetOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedAdmin(t)
	lead := env.createLead(t, "9000000501")

	converted, err := env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{Status: ptr(entity.LeadConverted)})
	require.NoError(t, err)
	require.NotNil(t, converted.ConvertedAt)
	stamp := *converted.ConvertedAt

	time.Sleep(2 * time.Millisecond)
	_, err = env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{Status: ptr(entity.LeadClosed)})
	require.NoError(t, err)

	again, err := env.leads.Update(ctx, admin, lead.ID, usecase.LeadPatch{Status: ptr(entity.LeadConverted)})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadConverted, again.Status)
	assert.True(t, stamp.Equal(*again.ConvertedAt))
}

func TestLeadService_TrackByMobile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	anonymous := entity.AnonymousCaller()

	env.createLead(t, "9876543210")
	env.createLead(t, "9876543210")
	env.createLead(t, "9123456780")

	leads, err := env.leads.TrackByMobile(ctx, anonymous, "9876543210")
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	none, err := env.leads.TrackByMobile(ctx, anonymous, "9000000000")
	require.NoError(t, err)
	assert.Empty(t, none)

	strict, err := env.leads.TrackByMobile(ctx, anonymous, "98765 43210")
	require.NoError(t, err)
	assert.Empty(t, strict)

	_, err = env.leads.TrackByMobile(ctx, anonymous, "")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestLeadService_TrackByMobileNormalized(t *testing.T) {
	env := newTestEnv(t, withConfig(func(cfg *config.Config) {
		cfg.Tracking.NormalizeMobile = true
	}))
	env.createLead(t, "9876543210")

	leads, err := env.leads.TrackByMobile(context.Background(), entity.AnonymousCaller(), "98765-43210")
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}
