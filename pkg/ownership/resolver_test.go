package ownership_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/mocks"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/ownership"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/testutil"
)

type fixture struct {
	resolver *ownership.Resolver
	alice    *models.User
	bob      *models.User
	bot      *models.Bot
	flow     *models.FlowRecord
}

func setupFixture(t *testing.T) (context.Context, fixture) {
	t.Helper()

	ctx := context.Background()
	p := testutil.NewSQLitePersistence(t)

	alice := testutil.CreateTestUser("alice@example.com")
	require.NoError(t, p.UserRepository().Create(ctx, alice))

	bob := testutil.CreateTestUser("bob@example.com")
	require.NoError(t, p.UserRepository().Create(ctx, bob))

	bot := testutil.CreateTestBot(alice.ID)
	require.NoError(t, p.BotRepository().Create(ctx, bot))

	flow := testutil.CreateTestFlowRecord(bot.ID)
	require.NoError(t, p.FlowRepository().Create(ctx, flow))

	return ctx, fixture{
		resolver: ownership.NewResolver(p),
		alice:    alice,
		bob:      bob,
		bot:      bot,
		flow:     flow,
	}
}

func TestResolveBotOwner(t *testing.T) {
	ctx, f := setupFixture(t)

	owner, err := f.resolver.ResolveBotOwner(ctx, f.bot.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, owner)

	_, err = f.resolver.ResolveBotOwner(ctx, uuid.NewString())
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestAuthorizeBotAccess(t *testing.T) {
	ctx, f := setupFixture(t)

	bot, err := f.resolver.AuthorizeBotAccess(ctx, f.alice.ID, f.bot.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bot, bot)

	_, err = f.resolver.AuthorizeBotAccess(ctx, f.bob.ID, f.bot.ID)
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestAuthorizeBotAccess_ForeignAndMissingAreIndistinguishable(t *testing.T) {
	ctx, f := setupFixture(t)

	missingID := uuid.NewString()

	_, foreignErr := f.resolver.AuthorizeBotAccess(ctx, f.bob.ID, f.bot.ID)
	_, missingErr := f.resolver.AuthorizeBotAccess(ctx, f.bob.ID, missingID)

	require.ErrorIs(t, foreignErr, ownership.ErrNotFound)
	require.ErrorIs(t, missingErr, ownership.ErrNotFound)
	assert.Equal(t,
		foreignErr.Error(),
		`bot "`+f.bot.ID+`": not found`)
	assert.Equal(t,
		missingErr.Error(),
		`bot "`+missingID+`": not found`)
}

func TestAuthorizeBotAccess_MalformedID(t *testing.T) {
	ctx, f := setupFixture(t)

	_, err := f.resolver.AuthorizeBotAccess(ctx, f.alice.ID, "not-a-uuid")
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestAuthorizeFlowAccess(t *testing.T) {
	ctx, f := setupFixture(t)

	flow, bot, err := f.resolver.AuthorizeFlowAccess(ctx, f.alice.ID, f.flow.ID)
	require.NoError(t, err)
	assert.Equal(t, f.flow, flow)
	assert.Equal(t, f.bot, bot)

	_, _, err = f.resolver.AuthorizeFlowAccess(ctx, f.bob.ID, f.flow.ID)
	require.ErrorIs(t, err, ownership.ErrNotFound)

	_, _, err = f.resolver.AuthorizeFlowAccess(ctx, f.alice.ID, uuid.NewString())
	require.ErrorIs(t, err, ownership.ErrNotFound)

	_, _, err = f.resolver.AuthorizeFlowAccess(ctx, f.alice.ID, "42")
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestAuthorizeBotAccess_StorageErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewMockPersistence()
	botID := uuid.NewString()
	storageErr := persistence.NewStorageError("bots.GetByID", errors.New("connection refused"))

	p.GetMockBotRepository().On("GetByID", mock.Anything, botID).Return(nil, storageErr)

	_, err := ownership.NewResolver(p).AuthorizeBotAccess(ctx, 1, botID)
	require.ErrorIs(t, err, persistence.ErrStorage)
	assert.NotErrorIs(t, err, ownership.ErrNotFound)

	p.GetMockBotRepository().AssertExpectations(t)
}

func TestAuthorizeFlowAccess_StorageErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewMockPersistence()
	flowID := uuid.NewString()
	storageErr := persistence.NewStorageError("flows.GetByID", errors.New("connection refused"))

	p.GetMockFlowRepository().On("GetByID", mock.Anything, flowID).Return(nil, storageErr)

	_, _, err := ownership.NewResolver(p).AuthorizeFlowAccess(ctx, 1, flowID)
	require.ErrorIs(t, err, persistence.ErrStorage)

	p.GetMockFlowRepository().AssertExpectations(t)
	p.GetMockBotRepository().AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
