package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/errors"
)

func TestSpliceJSON(t *testing.T) {
	value := map[string]any{"a": 1}

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty document",
			doc:  "",
			want: "{\n  \"k\": {\n    \"a\": 1\n  }\n}\n",
		},
		{
			name: "empty object",
			doc:  "{}\n",
			want: "{\n  \"k\": {\n    \"a\": 1\n  }\n}\n",
		},
		{
			name: "insert after last member",
			doc:  "{\n  \"theme\": \"dark\"\n}\n",
			want: "{\n  \"theme\": \"dark\",\n  \"k\": {\n    \"a\": 1\n  }\n}\n",
		},
		{
			name: "replace keeps surrounding bytes",
			doc:  "{\n  \"theme\":   \"dark\",\n  \"k\": {\"old\": true},\n  \"fontSize\": 14\n}",
			want: "{\n  \"theme\":   \"dark\",\n  \"k\": {\n    \"a\": 1\n  },\n  \"fontSize\": 14\n}",
		},
		{
			name: "replace scalar value",
			doc:  "{\"k\": null, \"z\": 1}",
			want: "{\"k\": {\n  \"a\": 1\n}, \"z\": 1}",
		},
		{
			name: "tab indented",
			doc:  "{\n\t\"k\": 0\n}",
			want: "{\n\t\"k\": {\n\t\t\"a\": 1\n\t}\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := spliceJSON([]byte(tt.doc), "k", value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSpliceJSON_Malformed(t *testing.T) {
	for _, doc := range []string{`{"a": `, `[1, 2]`, `{} {}`, `{"a": 1,}`} {
		_, err := spliceJSON([]byte(doc), "k", 1)
		if !errors.Is(err, errors.ErrMalformedData) {
			t.Errorf("spliceJSON(%q) error = %v, want ErrMalformedData", doc, err)
		}
	}
}

func TestRemoveJSONKey(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		want      string
		wantEmpty bool
	}{
		{
			name: "middle member",
			doc:  "{\n  \"a\": 1,\n  \"k\": 2,\n  \"b\": 3\n}",
			want: "{\n  \"a\": 1,\n  \"b\": 3\n}",
		},
		{
			name: "first member",
			doc:  "{\n  \"k\": {\"x\": [1, 2]},\n  \"b\": 3\n}",
			want: "{\n  \"b\": 3\n}",
		},
		{
			name: "last member",
			doc:  "{\n  \"a\": 1,\n  \"k\": 2\n}\n",
			want: "{\n  \"a\": 1\n}\n",
		},
		{
			name:      "only member",
			doc:       "{\n  \"k\": 2\n}\n",
			want:      "{}\n",
			wantEmpty: true,
		},
		{
			name: "absent key",
			doc:  "{\"a\": 1}",
			want: "{\"a\": 1}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, empty, err := removeJSONKey([]byte(tt.doc), "k")
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantEmpty, empty)
		})
	}
}

func TestJSONValue(t *testing.T) {
	doc := []byte(`{"a": {"b": 1}, "amp.mcpServers": {"x": {}}}`)

	raw, ok, err := jsonValue(doc, "amp.mcpServers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"x": {}}`, string(raw))

	_, ok, err = jsonValue(doc, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
