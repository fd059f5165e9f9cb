// Package web provides HTTP request and response types for the bot builder API.
package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/services"
)

// ErrorResponse is the wire shape of a failed request: an RFC 7807 problem
// document whose error member repeats the human-readable message.
type ErrorResponse struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Error    string `json:"error"`
}

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"omitempty,max=255"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Name     string `json:"name"     validate:"omitempty,max=255"`
}

// LoginRequest represents the request body for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateBotRequest represents the request body for creating a new bot.
type CreateBotRequest struct {
	Name          string  `json:"name"           validate:"max=255"`
	Description   *string `json:"description"`
	TelegramToken *string `json:"telegram_token" validate:"omitempty,max=255"`
	IsActive      bool    `json:"is_active"`
}

// CreateFlowRequest represents the request body for creating a new flow.
// FlowData is decoded separately so malformed graphs get a precise error.
type CreateFlowRequest struct {
	Name        string          `json:"name"        validate:"max=255"`
	Description *string         `json:"description"`
	FlowData    json.RawMessage `json:"flow_data"`
	IsMain      bool            `json:"is_main"`
}

// VerifyResponse is returned when a token identifies an existing user.
type VerifyResponse struct {
	Valid bool         `json:"valid"`
	User  *models.User `json:"user"`
}

var errInvalidField = errors.New("invalid field")

// patchFields holds the raw members of a partial update body.
// A member that is present, even when null, is part of the patch.
type patchFields map[string]json.RawMessage

func (p patchFields) has(name string) bool {
	_, ok := p[name]

	return ok
}

func (p patchFields) isNull(name string) bool {
	return string(p[name]) == "null"
}

func decodeField[T any](p patchFields, name string) (models.Optional[T], error) {
	if !p.has(name) {
		return models.None[T](), nil
	}

	var value T

	err := json.Unmarshal(p[name], &value)
	if err != nil {
		return models.None[T](), fmt.Errorf("%w: %s", errInvalidField, name)
	}

	return models.Some(value), nil
}

// toBotPatch maps the present members of a bot update body onto a patch.
func (p patchFields) toBotPatch() (services.BotPatch, error) {
	var (
		patch services.BotPatch
		err   error
	)

	patch.Name, err = decodeField[string](p, "name")
	if err != nil {
		return patch, err
	}

	patch.Description, err = decodeField[*string](p, "description")
	if err != nil {
		return patch, err
	}

	patch.TelegramToken, err = decodeField[*string](p, "telegram_token")
	if err != nil {
		return patch, err
	}

	patch.IsActive, err = decodeField[bool](p, "is_active")

	return patch, err
}

// toFlowPatch maps the present members of a flow update body onto a patch.
// A present flow_data member must decode to a well-formed graph.
func (p patchFields) toFlowPatch() (services.FlowPatch, error) {
	var (
		patch services.FlowPatch
		err   error
	)

	patch.Name, err = decodeField[string](p, "name")
	if err != nil {
		return patch, err
	}

	patch.Description, err = decodeField[*string](p, "description")
	if err != nil {
		return patch, err
	}

	if p.has("flow_data") {
		if p.isNull("flow_data") {
			return patch, services.NewValidationError("UpdateFlow", services.ErrFlowDataRequired)
		}

		graph, err := codec.DecodeBytes(p["flow_data"])
		if err != nil {
			return patch, err
		}

		patch.Graph = models.Some(graph)
	}

	patch.IsMain, err = decodeField[bool](p, "is_main")

	return patch, err
}

// graphFromRequest decodes the flow_data member of a create body. It returns
// nil when the member is absent or null.
func graphFromRequest(raw json.RawMessage) (*models.Graph, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	graph, err := codec.DecodeBytes(raw)
	if err != nil {
		return nil, err
	}

	return &graph, nil
}
