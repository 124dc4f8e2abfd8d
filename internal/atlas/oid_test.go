package atlas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/atlas"
)

func TestOID_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  atlas.OID
	}{
		{name: "plain string", input: `"65f0c0ffee"`, want: "65f0c0ffee"},
		{name: "extended json", input: `{"$oid": "65f0c0ffee"}`, want: "65f0c0ffee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got atlas.OID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		var got atlas.OID
		assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	})
}

func TestObjectID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, map[string]any{"$oid": "abc"}, atlas.ObjectID("abc"))
}
