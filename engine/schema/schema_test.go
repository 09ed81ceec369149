package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryweave/queryweave/engine/workflow"
)

func TestApply_Select(t *testing.T) {
	input := Schema{{Name: "A", Type: TypeString}, {Name: "B", Type: TypeFloat}}

	t.Run("Should project and rename selected fields", func(t *testing.T) {
		tool := workflow.Tool{ID: 1, Kind: workflow.KindSelect, Fields: []workflow.FieldSpec{
			{Name: "A", Selected: true, Rename: "X"},
			{Name: "B", Selected: false},
		}}
		out, err := Apply(input, tool)
		require.NoError(t, err)
		assert.Equal(t, Schema{{Name: "X", Type: TypeString}}, out)
	})
	t.Run("Should preserve field order in the output schema", func(t *testing.T) {
		tool := workflow.Tool{ID: 1, Kind: workflow.KindSelect, Fields: []workflow.FieldSpec{
			{Name: "B", Selected: true},
			{Name: "A", Selected: true},
		}}
		out, err := Apply(input, tool)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A"}, out.Names())
	})
	t.Run("Should fail when a field references a missing column", func(t *testing.T) {
		tool := workflow.Tool{ID: 7, Kind: workflow.KindSelect, Fields: []workflow.FieldSpec{
			{Name: "Missing", Selected: true},
		}}
		_, err := Apply(input, tool)
		require.ErrorIs(t, err, ErrUnknownColumn)
		assert.Contains(t, err.Error(), "Missing")
		assert.Contains(t, err.Error(), "7")
	})
	t.Run("Should be deterministic and leave the input untouched", func(t *testing.T) {
		tool := workflow.Tool{ID: 1, Kind: workflow.KindSelect, Fields: []workflow.FieldSpec{
			{Name: "A", Selected: true, Rename: "X"},
		}}
		first, err := Apply(input, tool)
		require.NoError(t, err)
		second, err := Apply(input, tool)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, Schema{{Name: "A", Type: TypeString}, {Name: "B", Type: TypeFloat}}, input)
	})
}

func TestApply_Filter(t *testing.T) {
	t.Run("Should leave the schema unchanged", func(t *testing.T) {
		input := Schema{{Name: "A", Type: TypeString}, {Name: "B", Type: TypeFloat}}
		out, err := Apply(input, workflow.Tool{ID: 2, Kind: workflow.KindFilter, Expression: "A = 'x'"})
		require.NoError(t, err)
		assert.Equal(t, input, out)
	})
	t.Run("Should return a copy, not the input slice", func(t *testing.T) {
		input := Schema{{Name: "A", Type: TypeString}}
		out, err := Apply(input, workflow.Tool{ID: 2, Kind: workflow.KindFilter})
		require.NoError(t, err)
		out[0].Name = "mutated"
		assert.Equal(t, "A", input[0].Name)
	})
}

func TestSchemaJSON(t *testing.T) {
	t.Run("Should serialize columns in order", func(t *testing.T) {
		s := Schema{{Name: "OrderID", Type: TypeString}, {Name: "SalesAmount", Type: TypeFloat}}
		assert.Equal(t, `{"OrderID": "STRING", "SalesAmount": "FLOAT"}`, s.JSON())
	})
	t.Run("Should serialize an empty schema as an empty object", func(t *testing.T) {
		assert.Equal(t, "{}", Schema{}.JSON())
	})
}

func TestParseFieldType(t *testing.T) {
	t.Run("Should normalize case and whitespace", func(t *testing.T) {
		ft, err := ParseFieldType(" string ")
		require.NoError(t, err)
		assert.Equal(t, TypeString, ft)
	})
	t.Run("Should reject unknown type tags", func(t *testing.T) {
		_, err := ParseFieldType("DECIMALISH")
		require.Error(t, err)
	})
}
