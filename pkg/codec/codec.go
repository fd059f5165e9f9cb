// Package codec converts flow graphs to and from their persisted textual form.
//
// The text form is a JSON document. Encoding is deterministic: node and edge
// order is preserved and action parameter keys are written sorted. Decoding
// checks the document against the graph JSON Schema before building the
// graph, so unknown node types or missing required fields are rejected with
// ErrMalformedPayload. Both the node and edge lists are required in the text;
// a graph with nil node or edge slices encodes them as empty lists.
//
// Nil and empty option, condition, action and parameter collections are kept
// apart, and integral action parameter numbers decode as int, so
// Decode(Encode(g)) reproduces g.
package codec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedPayload indicates graph text is not well-formed or does not match the graph shape.
var ErrMalformedPayload = errors.New("malformed flow payload")

//go:embed graph.schema.json
var graphSchemaJSON string

var graphSchema = mustCompileSchema(graphSchemaJSON)

// MalformedPayloadError carries the reasons a payload was rejected.
type MalformedPayloadError struct {
	Reasons []string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedPayload, strings.Join(e.Reasons, "; "))
}

func (e *MalformedPayloadError) Unwrap() error {
	return ErrMalformedPayload
}

func mustCompileSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("codec: invalid graph schema: %v", err))
	}

	return schema
}

// Encode returns the textual form of the graph.
func Encode(graph models.Graph) (string, error) {
	data, err := json.Marshal(normalize(graph))
	if err != nil {
		return "", fmt.Errorf("failed to encode flow graph: %w", err)
	}

	return string(data), nil
}

// Decode parses the textual form of a graph.
func Decode(text string) (models.Graph, error) {
	return DecodeBytes([]byte(text))
}

// DecodeBytes parses the textual form of a graph held in a byte slice.
func DecodeBytes(data []byte) (models.Graph, error) {
	if !json.Valid(data) {
		return models.Graph{}, &MalformedPayloadError{Reasons: []string{"payload is not valid JSON"}}
	}

	result, err := graphSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return models.Graph{}, &MalformedPayloadError{Reasons: []string{err.Error()}}
	}

	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}

		return models.Graph{}, &MalformedPayloadError{Reasons: reasons}
	}

	var graph models.Graph

	err = json.Unmarshal(data, &graph)
	if err != nil {
		return models.Graph{}, &MalformedPayloadError{Reasons: []string{err.Error()}}
	}

	return normalize(graph), nil
}

func normalize(graph models.Graph) models.Graph {
	if graph.Nodes == nil {
		graph.Nodes = []models.Node{}
	}

	if graph.Edges == nil {
		graph.Edges = []models.Edge{}
	}

	return graph
}
