package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teleboot/teleboot/pkg/cache"
	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/templates"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// templateNamespace derives stable IDs for the starter templates from their names.
var templateNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://teleboot.dev/templates"))

// Template serves the public template catalog. Reads need no caller identity.
type Template struct {
	persistence persistence.Persistence
	cache       cache.TemplateCache
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewTemplate creates a new template service. A nil cache disables caching.
func NewTemplate(p persistence.Persistence, templateCache cache.TemplateCache, logger *slog.Logger) *Template {
	if templateCache == nil {
		templateCache = cache.NopTemplateCache{}
	}

	return &Template{
		persistence: p,
		cache:       templateCache,
		tracer:      otelhelper.Tracer(tracerName),
		logger:      logger.With("module", "template-service"),
	}
}

// ListPublicTemplates returns public templates, newest first.
func (t *Template) ListPublicTemplates(ctx context.Context) (list []*models.Template, err error) {
	ctx, span := startSpan(ctx, t.tracer, "templates.List")
	defer func() { endSpan(span, err) }()

	cached, ok, err := t.cache.GetList(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "Template cache read failed", "error", err)
	}

	if ok {
		return cached, nil
	}

	records, err := t.persistence.TemplateRepository().ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	list = make([]*models.Template, 0, len(records))

	for _, record := range records {
		template, err := decodeTemplate(record)
		if err != nil {
			return nil, err
		}

		list = append(list, template)
	}

	err = t.cache.SetList(ctx, list)
	if err != nil {
		t.logger.WarnContext(ctx, "Template cache write failed", "error", err)
	}

	return list, nil
}

// GetPublicTemplate returns a public template. Private and missing templates are not found.
func (t *Template) GetPublicTemplate(ctx context.Context, id string) (template *models.Template, err error) {
	ctx, span := startSpan(ctx, t.tracer, "templates.Get", attribute.String(otelhelper.TemplateIDKey, id))
	defer func() { endSpan(span, err) }()

	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}

	cached, ok, err := t.cache.Get(ctx, id)
	if err != nil {
		t.logger.WarnContext(ctx, "Template cache read failed", "template_id", id, "error", err)
	}

	if ok {
		return cached, nil
	}

	record, err := t.persistence.TemplateRepository().GetPublicByID(ctx, id)
	if err != nil {
		if persistence.IsTemplateNotFound(err) {
			return nil, fmt.Errorf("template %q: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	template, err = decodeTemplate(record)
	if err != nil {
		return nil, err
	}

	err = t.cache.Set(ctx, template)
	if err != nil {
		t.logger.WarnContext(ctx, "Template cache write failed", "template_id", id, "error", err)
	}

	return template, nil
}

// SeedDefaults inserts the starter templates when the catalog is empty.
// It reports whether anything was inserted and is safe to run on every start.
func (t *Template) SeedDefaults(ctx context.Context) (seeded bool, err error) {
	ctx, span := startSpan(ctx, t.tracer, "templates.Seed")
	defer func() { endSpan(span, err) }()

	fixtures, err := templates.Defaults()
	if err != nil {
		return false, err
	}

	records := make([]*models.TemplateRecord, 0, len(fixtures))
	timestamp := now()

	for i, fixture := range fixtures {
		flowData, err := codec.Encode(fixture.Graph)
		if err != nil {
			return false, fmt.Errorf("failed to encode template %q: %w", fixture.Name, err)
		}

		description := fixture.Description

		records = append(records, &models.TemplateRecord{
			ID:          uuid.NewSHA1(templateNamespace, []byte(fixture.Name)).String(),
			Name:        fixture.Name,
			Description: normalizeOptional(&description),
			Category:    fixture.Category,
			FlowData:    flowData,
			IsPublic:    true,
			// Earlier fixtures sort first in the newest-first listing.
			CreatedAt: timestamp.Add(-time.Duration(i) * time.Millisecond),
		})
	}

	seeded, err = t.persistence.TemplateRepository().SeedIfEmpty(ctx, records)
	if err != nil {
		return false, fmt.Errorf("failed to seed templates: %w", err)
	}

	if !seeded {
		t.logger.InfoContext(ctx, "Templates already seeded")

		return false, nil
	}

	err = t.cache.Invalidate(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "Template cache invalidation failed", "error", err)
	}

	t.logger.InfoContext(ctx, "Templates seeded successfully", "count", len(records))

	return true, nil
}

func decodeTemplate(record *models.TemplateRecord) (*models.Template, error) {
	graph, err := codec.Decode(record.FlowData)
	if err != nil {
		return nil, fmt.Errorf("template %q has an unreadable payload: %w", record.ID, err)
	}

	return &models.Template{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Category:    record.Category,
		Graph:       graph,
		IsPublic:    record.IsPublic,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
	}, nil
}
