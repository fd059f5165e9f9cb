// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"

	"github.com/teleboot/teleboot/pkg/models"
)

// CreateTestNode creates a test Node with default values that can be overridden.
func CreateTestNode(id string, overrides ...func(*models.Node)) models.Node {
	node := models.Node{
		ID:       id,
		Type:     models.NodeTypeMessage,
		Position: models.Position{X: 100, Y: 200},
		Data: models.NodeData{
			Label:   "Test Node",
			Content: "Hello from " + id,
		},
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithType sets the node type.
func WithType(nodeType models.NodeType) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.Node) {
	return func(n *models.Node) {
		n.Data.Label = label
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// WithOptions configures the node as a question offering the given options.
func WithOptions(options ...string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeQuestion
		n.Data.Options = options
	}
}

// WithConditions configures the node as a condition node.
func WithConditions(conditions ...models.Condition) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeCondition
		n.Data.Conditions = conditions
	}
}

// WithActions configures the node as an action node.
func WithActions(actions ...models.Action) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeAction
		n.Data.Actions = actions
	}
}

// CreateTestEdge creates an edge between two nodes with a derived id.
func CreateTestEdge(source, target string) models.Edge {
	return models.Edge{
		ID:     fmt.Sprintf("%s-%s", source, target),
		Source: source,
		Target: target,
	}
}

// CreateTestGraph creates a small well-formed graph that exercises every node variant.
func CreateTestGraph() models.Graph {
	return models.Graph{
		Nodes: []models.Node{
			CreateTestNode("start", WithType(models.NodeTypeStart), WithLabel("Welcome"), WithPosition(100, 100)),
			CreateTestNode("menu", WithOptions("Support", "Sales"), WithLabel("Menu"), WithPosition(100, 250)),
			CreateTestNode("check", WithConditions(
				models.Condition{Type: models.ConditionTypeEquals, Value: "Support", Target: "last_input"},
				models.Condition{Type: models.ConditionTypeRegex, Value: "^sal(es)?$", Target: "last_input"},
			), WithLabel("Route"), WithPosition(100, 400)),
			CreateTestNode("save", WithActions(
				models.Action{Type: models.ActionTypeSaveData, Parameters: map[string]any{"key": "topic"}},
				models.Action{Type: models.ActionTypeCallWebhook, Parameters: map[string]any{"url": "https://example.com/hook", "retries": 2}},
			), WithLabel("Save"), WithPosition(250, 550)),
			CreateTestNode("bye", WithType(models.NodeTypeEnd), WithLabel("Goodbye"), WithPosition(100, 700)),
		},
		Edges: []models.Edge{
			CreateTestEdge("start", "menu"),
			{ID: "menu-check", Source: "menu", Target: "check", Label: "Support"},
			{ID: "check-save", Source: "check", Target: "save", Type: "smoothstep"},
			CreateTestEdge("save", "bye"),
		},
	}
}

// CreateStartOnlyGraph creates the minimal graph with a single start node and no edges.
func CreateStartOnlyGraph() models.Graph {
	return models.Graph{
		Nodes: []models.Node{
			CreateTestNode("start", WithType(models.NodeTypeStart), WithLabel("Start")),
		},
		Edges: []models.Edge{},
	}
}
