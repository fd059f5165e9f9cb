package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/cache"
	"github.com/teleboot/teleboot/pkg/mocks"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/testutil"
)

// memoryCache records template cache traffic for assertions.
type memoryCache struct {
	cache.NopTemplateCache

	list        []*models.Template
	byID        map[string]*models.Template
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{byID: map[string]*models.Template{}}
}

func (m *memoryCache) GetList(context.Context) ([]*models.Template, bool, error) {
	return m.list, m.list != nil, nil
}

func (m *memoryCache) SetList(_ context.Context, list []*models.Template) error {
	m.list = list

	return nil
}

func (m *memoryCache) Get(_ context.Context, id string) (*models.Template, bool, error) {
	template, ok := m.byID[id]

	return template, ok, nil
}

func (m *memoryCache) Set(_ context.Context, template *models.Template) error {
	m.byID[template.ID] = template

	return nil
}

func (m *memoryCache) Invalidate(context.Context) error {
	m.list = nil
	m.byID = map[string]*models.Template{}
	m.invalidated++

	return nil
}

// failingCache fails every operation.
type failingCache struct {
	cache.NopTemplateCache
}

var errCacheDown = errors.New("cache down")

func (failingCache) GetList(context.Context) ([]*models.Template, bool, error) {
	return nil, false, errCacheDown
}

func (failingCache) SetList(context.Context, []*models.Template) error { return errCacheDown }

func (failingCache) Get(context.Context, string) (*models.Template, bool, error) {
	return nil, false, errCacheDown
}

func (failingCache) Set(context.Context, *models.Template) error { return errCacheDown }

func (failingCache) Invalidate(context.Context) error { return errCacheDown }

func TestTemplate_SeedDefaults(t *testing.T) {
	p := testutil.NewSQLitePersistence(t)
	service := NewTemplate(p, nil, testutil.NewLogger())

	seeded, err := service.SeedDefaults(t.Context())
	require.NoError(t, err)
	assert.True(t, seeded)

	list, err := service.ListPublicTemplates(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Customer Support Bot", list[0].Name)
	assert.Equal(t, "Support", list[0].Category)
	assert.Equal(t, "Lead Generation Bot", list[1].Name)
	assert.Equal(t, "Marketing", list[1].Category)

	for _, template := range list {
		assert.True(t, template.IsPublic)
		assert.Nil(t, template.CreatedBy)
		assert.NotNil(t, template.Description)
		assert.NoError(t, template.Graph.Validate())
		assert.Len(t, template.Graph.StartNodes(), 1)
		assert.Equal(t, uuid.NewSHA1(templateNamespace, []byte(template.Name)).String(), template.ID)
	}

	seeded, err = service.SeedDefaults(t.Context())
	require.NoError(t, err)
	assert.False(t, seeded)

	count, err := p.TemplateRepository().Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTemplate_SeedDefaults_SkipsNonEmptyCatalog(t *testing.T) {
	p := testutil.NewSQLitePersistence(t)
	private := testutil.CreateTestTemplateRecord("Draft", func(tr *models.TemplateRecord) { tr.IsPublic = false })

	seeded, err := p.TemplateRepository().SeedIfEmpty(t.Context(), []*models.TemplateRecord{private})
	require.NoError(t, err)
	require.True(t, seeded)

	service := NewTemplate(p, nil, testutil.NewLogger())

	seeded, err = service.SeedDefaults(t.Context())
	require.NoError(t, err)
	assert.False(t, seeded)

	list, err := service.ListPublicTemplates(t.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTemplate_GetPublicTemplate(t *testing.T) {
	p := testutil.NewSQLitePersistence(t)
	public := testutil.CreateTestTemplateRecord("Public")
	private := testutil.CreateTestTemplateRecord("Private", func(tr *models.TemplateRecord) { tr.IsPublic = false })

	_, err := p.TemplateRepository().SeedIfEmpty(t.Context(), []*models.TemplateRecord{public, private})
	require.NoError(t, err)

	service := NewTemplate(p, nil, testutil.NewLogger())

	template, err := service.GetPublicTemplate(t.Context(), public.ID)
	require.NoError(t, err)
	assert.Equal(t, "Public", template.Name)
	assert.Equal(t, testutil.CreateStartOnlyGraph(), template.Graph)

	for _, id := range []string{private.ID, uuid.NewString(), "not-a-uuid"} {
		_, err = service.GetPublicTemplate(t.Context(), id)
		assert.True(t, IsNotFound(err), id)
	}
}

func TestTemplate_ReadThroughCache(t *testing.T) {
	p := testutil.NewSQLitePersistence(t)
	templateCache := newMemoryCache()
	service := NewTemplate(p, templateCache, testutil.NewLogger())

	_, err := service.SeedDefaults(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, templateCache.invalidated)

	list, err := service.ListPublicTemplates(t.Context())
	require.NoError(t, err)
	assert.Equal(t, list, templateCache.list)

	template, err := service.GetPublicTemplate(t.Context(), list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, template, templateCache.byID[list[0].ID])

	// Served from the cache once populated.
	templateCache.list = []*models.Template{{ID: "cached", Name: "Cached"}}

	list, err = service.ListPublicTemplates(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cached", list[0].Name)
}

func TestTemplate_CacheFailuresAreIgnored(t *testing.T) {
	p := testutil.NewSQLitePersistence(t)
	service := NewTemplate(p, failingCache{}, testutil.NewLogger())

	seeded, err := service.SeedDefaults(t.Context())
	require.NoError(t, err)
	assert.True(t, seeded)

	list, err := service.ListPublicTemplates(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 2)

	template, err := service.GetPublicTemplate(t.Context(), list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, list[1], template)
}

func TestTemplate_StorageErrors(t *testing.T) {
	p := mocks.NewMockPersistence()
	service := NewTemplate(p, nil, testutil.NewLogger())
	storageErr := persistence.NewStorageError("templates.ListPublic", errors.New("connection reset"))

	p.GetMockTemplateRepository().On("ListPublic", mock.Anything).Return(nil, storageErr)
	p.GetMockTemplateRepository().On("SeedIfEmpty", mock.Anything, mock.Anything).Return(false, storageErr)

	_, err := service.ListPublicTemplates(t.Context())
	assert.True(t, IsStorageError(err))

	_, err = service.SeedDefaults(t.Context())
	assert.True(t, IsStorageError(err))

	p.GetMockTemplateRepository().AssertExpectations(t)
}
