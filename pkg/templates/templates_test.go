package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/templates"
)

func TestDefaults(t *testing.T) {
	fixtures, err := templates.Defaults()
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	support := fixtures[0]
	assert.Equal(t, "Customer Support Bot", support.Name)
	assert.Equal(t, "Support", support.Category)
	assert.Len(t, support.Graph.Nodes, 6)
	assert.Len(t, support.Graph.Edges, 5)
	assert.Equal(t, models.NodeTypeStart, support.Graph.Nodes[0].Type)

	menu, ok := support.Graph.Node("menu")
	require.True(t, ok)
	assert.Equal(t, []string{"📞 Contact Support", "📋 FAQ", "📦 Order Status", "💬 Other"}, menu.Data.Options)
	assert.Equal(t, models.Position{X: 100, Y: 250}, menu.Position)

	faq, ok := support.Graph.Node("faq")
	require.True(t, ok)
	assert.Contains(t, faq.Data.Content, "\n\n1. How to place an order?\n")

	leads := fixtures[1]
	assert.Equal(t, "Lead Generation Bot", leads.Name)
	assert.Equal(t, "Marketing", leads.Category)
	assert.Len(t, leads.Graph.Nodes, 5)
	assert.Len(t, leads.Graph.Edges, 4)
	assert.Equal(t, "🔍 Learn about services", leads.Graph.Edges[1].Label)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"not yaml":      "- name: [",
		"missing name":  "- category: Support\n  flow_data: {nodes: [], edges: []}",
		"dangling edge": "- name: X\n  category: Y\n  flow_data:\n    nodes: []\n    edges: [{id: e, source: a, target: b}]",
		"bad node type": "- name: X\n  category: Y\n  flow_data:\n    nodes: [{id: a, type: teleport, data: {label: A}}]\n    edges: []",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := templates.Parse([]byte(input))
			require.Error(t, err)
		})
	}
}

func TestParse_NormalizesEmptyLists(t *testing.T) {
	fixtures, err := templates.Parse([]byte("- name: Blank\n  category: Misc\n  flow_data: {}"))
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.NotNil(t, fixtures[0].Graph.Nodes)
	assert.NotNil(t, fixtures[0].Graph.Edges)
}
