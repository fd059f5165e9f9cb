package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/testutil"
)

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	graphs := map[string]models.Graph{
		"every node variant": testutil.CreateTestGraph(),
		"start only":         testutil.CreateStartOnlyGraph(),
		"empty":              {Nodes: []models.Node{}, Edges: []models.Edge{}},
		"fractional layout": {
			Nodes: []models.Node{
				testutil.CreateTestNode("a", testutil.WithPosition(12.5, -3.25)),
				testutil.CreateTestNode("b", testutil.WithPosition(0.1, 1e6)),
			},
			Edges: []models.Edge{{ID: "a-b", Source: "a", Target: "b", Label: "next", Type: "default"}},
		},
		"empty collections": {
			Nodes: []models.Node{
				testutil.CreateTestNode("ask", testutil.WithOptions([]string{}...)),
				testutil.CreateTestNode("route", testutil.WithConditions([]models.Condition{}...)),
				testutil.CreateTestNode("noop", testutil.WithActions(models.Action{
					Type:       models.ActionTypeSaveData,
					Parameters: map[string]any{},
				})),
				testutil.CreateTestNode("plain"),
			},
			Edges: []models.Edge{},
		},
		"numeric parameters": {
			Nodes: []models.Node{
				testutil.CreateTestNode("hook", testutil.WithActions(models.Action{
					Type: models.ActionTypeCallWebhook,
					Parameters: map[string]any{
						"retries": 3,
						"backoff": 1.5,
						"limits":  map[string]any{"max": 10, "ratio": 0.25},
						"codes":   []any{200, 201, "ok"},
						"big":     -9007199254740993,
					},
				})),
			},
			Edges: []models.Edge{},
		},
	}

	for name, graph := range graphs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			text, err := codec.Encode(graph)
			require.NoError(t, err)

			decoded, err := codec.Decode(text)
			require.NoError(t, err)
			assert.Equal(t, graph, decoded)
		})
	}
}

func TestCodec_EmptyAndNilCollectionsStayDistinct(t *testing.T) {
	graph := models.Graph{
		Nodes: []models.Node{
			testutil.CreateTestNode("empty", testutil.WithOptions([]string{}...)),
			testutil.CreateTestNode("nil"),
		},
		Edges: []models.Edge{},
	}

	text, err := codec.Encode(graph)
	require.NoError(t, err)

	var raw struct {
		Nodes []struct {
			Data map[string]any `json:"data"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &raw))
	require.Len(t, raw.Nodes, 2)
	assert.Equal(t, []any{}, raw.Nodes[0].Data["options"])
	assert.NotContains(t, raw.Nodes[1].Data, "options")

	decoded, err := codec.Decode(text)
	require.NoError(t, err)
	assert.NotNil(t, decoded.Nodes[0].Data.Options)
	assert.Empty(t, decoded.Nodes[0].Data.Options)
	assert.Nil(t, decoded.Nodes[1].Data.Options)
}

func TestCodec_DecodeNumericParameters(t *testing.T) {
	payload := `{"nodes": [{"id": "a", "type": "action", "position": {"x": 0, "y": 0},
		"data": {"label": "a", "actions": [{"type": "call_webhook",
			"parameters": {"retries": 3, "backoff": 2.5, "exp": 1e3}}]}}], "edges": []}`

	graph, err := codec.Decode(payload)
	require.NoError(t, err)

	parameters := graph.Nodes[0].Data.Actions[0].Parameters
	assert.Equal(t, 3, parameters["retries"])
	assert.Equal(t, 2.5, parameters["backoff"])
	assert.Equal(t, float64(1000), parameters["exp"])
}

func TestCodec_EncodeIsDeterministic(t *testing.T) {
	graph := testutil.CreateTestGraph()

	first, err := codec.Encode(graph)
	require.NoError(t, err)

	for range 10 {
		again, err := codec.Encode(graph)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCodec_PreservesOrder(t *testing.T) {
	graph := models.Graph{
		Nodes: []models.Node{
			testutil.CreateTestNode("z"),
			testutil.CreateTestNode("a"),
			testutil.CreateTestNode("m"),
		},
		Edges: []models.Edge{
			testutil.CreateTestEdge("m", "a"),
			testutil.CreateTestEdge("z", "m"),
		},
	}

	text, err := codec.Encode(graph)
	require.NoError(t, err)

	decoded, err := codec.Decode(text)
	require.NoError(t, err)

	ids := make([]string, 0, len(decoded.Nodes))
	for _, node := range decoded.Nodes {
		ids = append(ids, node.ID)
	}

	assert.Equal(t, []string{"z", "a", "m"}, ids)
	assert.Equal(t, "m-a", decoded.Edges[0].ID)
	assert.Equal(t, "z-m", decoded.Edges[1].ID)
}

func TestCodec_EncodeNilSlices(t *testing.T) {
	text, err := codec.Encode(models.Graph{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, text)

	decoded, err := codec.Decode(text)
	require.NoError(t, err)
	assert.NotNil(t, decoded.Nodes)
	assert.NotNil(t, decoded.Edges)
	assert.Empty(t, decoded.Nodes)
}

func TestCodec_DecodeOriginalEditorPayload(t *testing.T) {
	// Extra editor fields such as "selected" are ignored.
	payload := `{
		"nodes": [
			{"id": "start", "type": "start", "position": {"x": 100, "y": 100},
			 "data": {"label": "Welcome", "content": "Hi"}, "selected": true},
			{"id": "ask", "type": "question", "position": {"x": 100, "y": 250},
			 "data": {"label": "Menu", "options": ["A", "B"]}}
		],
		"edges": [
			{"id": "start-ask", "source": "start", "target": "ask"}
		]
	}`

	graph, err := codec.Decode(payload)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, models.NodeTypeStart, graph.Nodes[0].Type)
	assert.Equal(t, "Hi", graph.Nodes[0].Data.Content)
	assert.Equal(t, []string{"A", "B"}, graph.Nodes[1].Data.Options)
	require.Len(t, graph.Edges, 1)
	assert.Empty(t, graph.Edges[0].Label)
}

func TestCodec_DecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{
			name:    "not json",
			payload: `{"nodes": [`,
			reason:  "not valid JSON",
		},
		{
			name:    "wrong top-level type",
			payload: `[]`,
			reason:  "Invalid type",
		},
		{
			name:    "missing edges",
			payload: `{"nodes": []}`,
			reason:  "edges is required",
		},
		{
			name:    "unknown node type",
			payload: `{"nodes": [{"id": "x", "type": "teleport", "position": {"x": 0, "y": 0}, "data": {"label": "x"}}], "edges": []}`,
			reason:  "nodes.0.type",
		},
		{
			name:    "node without data",
			payload: `{"nodes": [{"id": "x", "type": "start", "position": {"x": 0, "y": 0}}], "edges": []}`,
			reason:  "data is required",
		},
		{
			name:    "edge without target",
			payload: `{"nodes": [], "edges": [{"id": "e", "source": "a"}]}`,
			reason:  "target is required",
		},
		{
			name: "unknown condition kind",
			payload: `{"nodes": [{"id": "c", "type": "condition", "position": {"x": 0, "y": 0},
				"data": {"label": "c", "conditions": [{"type": "startsWith", "value": "a", "target": "input"}]}}], "edges": []}`,
			reason: "conditions.0.type",
		},
		{
			name: "unknown action kind",
			payload: `{"nodes": [{"id": "a", "type": "action", "position": {"x": 0, "y": 0},
				"data": {"label": "a", "actions": [{"type": "launch"}]}}], "edges": []}`,
			reason: "actions.0.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.Decode(tt.payload)
			require.Error(t, err)
			require.ErrorIs(t, err, codec.ErrMalformedPayload)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestCodec_EncodedShape(t *testing.T) {
	text, err := codec.Encode(testutil.CreateStartOnlyGraph())
	require.NoError(t, err)

	var raw map[string]any

	err = json.Unmarshal([]byte(text), &raw)
	require.NoError(t, err)

	nodes, ok := raw["nodes"].([]any)
	require.True(t, ok)
	require.Len(t, nodes, 1)

	node, ok := nodes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "start", node["type"])
	assert.Contains(t, node, "position")
	assert.Contains(t, node, "data")
}
