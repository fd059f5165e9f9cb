// Package cache provides the read-through cache for public templates.
package cache

import (
	"context"

	"github.com/teleboot/teleboot/pkg/models"
)

// TemplateCache stores decoded public templates. A miss is reported with ok=false
// and a nil error.
type TemplateCache interface {
	GetList(ctx context.Context) (templates []*models.Template, ok bool, err error)
	SetList(ctx context.Context, templates []*models.Template) error
	Get(ctx context.Context, id string) (template *models.Template, ok bool, err error)
	Set(ctx context.Context, template *models.Template) error
	// Invalidate drops every cached template.
	Invalidate(ctx context.Context) error
	Close() error
}

// NopTemplateCache always misses.
type NopTemplateCache struct{}

func (NopTemplateCache) GetList(context.Context) ([]*models.Template, bool, error) {
	return nil, false, nil
}

func (NopTemplateCache) SetList(context.Context, []*models.Template) error {
	return nil
}

func (NopTemplateCache) Get(context.Context, string) (*models.Template, bool, error) {
	return nil, false, nil
}

func (NopTemplateCache) Set(context.Context, *models.Template) error {
	return nil
}

func (NopTemplateCache) Invalidate(context.Context) error {
	return nil
}

func (NopTemplateCache) Close() error {
	return nil
}
