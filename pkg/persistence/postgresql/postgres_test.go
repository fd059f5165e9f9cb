package postgresql_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/persistence/postgresql"
	"github.com/teleboot/teleboot/pkg/testutil"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Children first, parents last.
	for _, table := range []string{"bot_sessions", "bot_flows", "templates", "bots", "users", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("teleboot_test"),
			postgres.WithUsername("teleboot"),
			postgres.WithPassword("teleboot"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	p, err := postgresql.NewPersistence(ctx, testutil.NewLogger(), databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func createOwner(ctx context.Context, t *testing.T, p persistence.Persistence) (*models.User, *models.Bot) {
	t.Helper()

	user := testutil.CreateTestUser(uuid.NewString() + "@example.com")
	require.NoError(t, p.UserRepository().Create(ctx, user))

	bot := testutil.CreateTestBot(user.ID)
	require.NoError(t, p.BotRepository().Create(ctx, bot))

	return user, bot
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	for _, table := range []string{"users", "bots", "bot_flows", "bot_sessions", "templates", "schema_migrations"} {
		var exists bool

		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "%s table should exist", table)
	}

	var version int

	err = db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	err := p.HealthCheck(ctx)
	assert.NoError(t, err)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	user := testutil.CreateTestUser("dup@example.com")
	require.NoError(t, p.UserRepository().Create(ctx, user))
	assert.NotZero(t, user.ID)

	stored, err := p.UserRepository().GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, user, stored)

	err = p.UserRepository().Create(ctx, testutil.CreateTestUser("dup@example.com"))
	require.ErrorIs(t, err, persistence.ErrEmailTaken)
}

func TestBotRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	user, bot := createOwner(ctx, t, p)

	stored, err := p.BotRepository().GetByID(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, bot, stored)

	stored.Name = "Renamed"
	stored.TelegramToken = testutil.Ptr("123:abc")
	require.NoError(t, p.BotRepository().Update(ctx, stored))

	bots, err := p.BotRepository().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "Renamed", bots[0].Name)
	assert.Equal(t, "123:abc", *bots[0].TelegramToken)

	_, err = p.BotRepository().GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, persistence.ErrBotNotFound)
}

func TestFlowRepository_SaveAndRetrieve(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	_, bot := createOwner(ctx, t, p)

	flow := testutil.CreateTestFlowRecord(bot.ID, func(f *models.FlowRecord) { f.IsMain = true })
	require.NoError(t, p.FlowRepository().Create(ctx, flow))

	stored, err := p.FlowRepository().GetByID(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, flow, stored)

	replacement := testutil.CreateTestFlowRecord(bot.ID, func(f *models.FlowRecord) {
		f.IsMain = true
		f.CreatedAt = flow.CreatedAt.Add(time.Second)
	})
	require.NoError(t, p.FlowRepository().Create(ctx, replacement))

	flows, err := p.FlowRepository().ListByBot(ctx, bot.ID)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, replacement.ID, flows[0].ID)
	assert.True(t, flows[0].IsMain)
	assert.False(t, flows[1].IsMain)
}

func TestBotRepository_DeleteCascadesToFlows(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	_, bot := createOwner(ctx, t, p)

	flow := testutil.CreateTestFlowRecord(bot.ID)
	require.NoError(t, p.FlowRepository().Create(ctx, flow))

	require.NoError(t, p.BotRepository().Delete(ctx, bot.ID))

	_, err := p.FlowRepository().GetByID(ctx, flow.ID)
	require.ErrorIs(t, err, persistence.ErrFlowNotFound)

	err = p.FlowRepository().Delete(ctx, flow.ID)
	require.ErrorIs(t, err, persistence.ErrFlowNotFound)
}

func TestTemplateRepository_SeedIfEmpty(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	public := testutil.CreateTestTemplateRecord("Public")
	private := testutil.CreateTestTemplateRecord("Private", func(tr *models.TemplateRecord) { tr.IsPublic = false })

	seeded, err := p.TemplateRepository().SeedIfEmpty(ctx, []*models.TemplateRecord{public, private})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = p.TemplateRepository().SeedIfEmpty(ctx, []*models.TemplateRecord{testutil.CreateTestTemplateRecord("Again")})
	require.NoError(t, err)
	assert.False(t, seeded)

	templates, err := p.TemplateRepository().ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, public, templates[0])

	_, err = p.TemplateRepository().GetPublicByID(ctx, private.ID)
	require.ErrorIs(t, err, persistence.ErrTemplateNotFound)
}
