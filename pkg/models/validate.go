package models

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidGraph indicates a flow graph failed structural validation.
var ErrInvalidGraph = errors.New("invalid flow graph")

var graphValidator = validator.New(validator.WithRequiredStructEnabled())

// GraphValidationError describes why a graph is structurally invalid.
type GraphValidationError struct {
	Reason string
}

func (e *GraphValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidGraph, e.Reason)
}

func (e *GraphValidationError) Unwrap() error {
	return ErrInvalidGraph
}

func invalidGraph(format string, args ...any) error {
	return &GraphValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the graph's structural invariants: required fields and
// enumerations, unique node and edge ids, edge endpoints referencing nodes of
// the same graph, and compilable regex conditions. It never touches storage.
func (g Graph) Validate() error {
	err := graphValidator.Struct(g)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]

			return invalidGraph("%s failed on the '%s' rule", fe.Namespace(), fe.Tag())
		}

		return invalidGraph("%v", err)
	}

	nodeIDs := make(map[string]struct{}, len(g.Nodes))

	for _, node := range g.Nodes {
		if _, exists := nodeIDs[node.ID]; exists {
			return invalidGraph("duplicate node id %q", node.ID)
		}

		nodeIDs[node.ID] = struct{}{}

		for i, condition := range node.Data.Conditions {
			if condition.Type != ConditionTypeRegex {
				continue
			}

			if _, err := regexp.Compile(condition.Value); err != nil {
				return invalidGraph("node %q condition %d has an invalid regex: %v", node.ID, i, err)
			}
		}
	}

	edgeIDs := make(map[string]struct{}, len(g.Edges))

	for _, edge := range g.Edges {
		if _, exists := edgeIDs[edge.ID]; exists {
			return invalidGraph("duplicate edge id %q", edge.ID)
		}

		edgeIDs[edge.ID] = struct{}{}

		if _, ok := nodeIDs[edge.Source]; !ok {
			return invalidGraph("edge %q references unknown source node %q", edge.ID, edge.Source)
		}

		if _, ok := nodeIDs[edge.Target]; !ok {
			return invalidGraph("edge %q references unknown target node %q", edge.ID, edge.Target)
		}
	}

	return nil
}
