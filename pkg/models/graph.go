// Package models defines the domain models for bots, flows and conversation graphs
package models

// NodeType represents the kind of conversation step a node describes.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"     // Entry point of a flow
	NodeTypeMessage   NodeType = "message"   // Sends text to the chat user
	NodeTypeQuestion  NodeType = "question"  // Asks and offers options
	NodeTypeCondition NodeType = "condition" // Branches on conditions
	NodeTypeAction    NodeType = "action"    // Runs side effects
	NodeTypeEnd       NodeType = "end"       // Terminates the conversation
)

// NodeTypes lists every supported node type in display order.
var NodeTypes = []NodeType{
	NodeTypeStart,
	NodeTypeMessage,
	NodeTypeQuestion,
	NodeTypeCondition,
	NodeTypeAction,
	NodeTypeEnd,
}

// ConditionType represents how a condition compares its target with its value.
type ConditionType string

const (
	ConditionTypeEquals   ConditionType = "equals"
	ConditionTypeContains ConditionType = "contains"
	ConditionTypeRegex    ConditionType = "regex"
)

// ActionType represents the side effect an action node performs.
type ActionType string

const (
	ActionTypeSendMessage ActionType = "send_message"
	ActionTypeSaveData    ActionType = "save_data"
	ActionTypeCallWebhook ActionType = "call_webhook"
)

// Graph is the node-and-edge payload of a flow or template.
// Node and edge order is significant: editors rely on it for stable layout.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" validate:"dive"`
}

// Position is the editor layout position of a node. It has no semantic effect.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a typed unit of conversation.
type Node struct {
	ID       string   `json:"id"       yaml:"id"       validate:"required"`
	Type     NodeType `json:"type"     yaml:"type"     validate:"required,oneof=start message question condition action end"`
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data"     yaml:"data"`
}

// NodeData carries the type-dependent content of a node. Nil lists are
// omitted from JSON while empty lists are kept, so both survive a round trip.
type NodeData struct {
	Label      string      `json:"label"                yaml:"label"`
	Content    string      `json:"content,omitempty"    yaml:"content,omitempty"`
	Options    []string    `json:"options,omitzero"    yaml:"options,omitempty"`
	Conditions []Condition `json:"conditions,omitzero" yaml:"conditions,omitempty" validate:"omitempty,dive"`
	Actions    []Action    `json:"actions,omitzero"    yaml:"actions,omitempty"    validate:"omitempty,dive"`
}

// Edge is a directed transition between two nodes of the same graph.
type Edge struct {
	ID     string `json:"id"              yaml:"id"              validate:"required"`
	Source string `json:"source"          yaml:"source"          validate:"required"`
	Target string `json:"target"          yaml:"target"          validate:"required"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Type   string `json:"type,omitempty"  yaml:"type,omitempty"`
}

// Condition is a predicate descriptor evaluated by the bot runtime.
type Condition struct {
	Type   ConditionType `json:"type"   yaml:"type"   validate:"required,oneof=equals contains regex"`
	Value  string        `json:"value"  yaml:"value"`
	Target string        `json:"target" yaml:"target"`
}

// Action is a side-effect descriptor. Parameters are kind specific and not validated here.
type Action struct {
	Type       ActionType     `json:"type"                yaml:"type"                 validate:"required,oneof=send_message save_data call_webhook"`
	Parameters map[string]any `json:"parameters,omitzero" yaml:"parameters,omitempty"`
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return Node{}, false
}

// StartNodes returns the nodes of type start, in graph order.
func (g Graph) StartNodes() []Node {
	var starts []Node

	for _, node := range g.Nodes {
		if node.Type == NodeTypeStart {
			starts = append(starts, node)
		}
	}

	return starts
}

// Outgoing returns the edges leaving the given node, in graph order.
func (g Graph) Outgoing(nodeID string) []Edge {
	var edges []Edge

	for _, edge := range g.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// IsValid reports whether the node type is one of the supported types.
func (t NodeType) IsValid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}

	return false
}
