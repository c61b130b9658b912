package execute

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry(nil)

	tests := []struct {
		tag  string
		want Route
	}{
		{"rust", Route{Backend: BackendRust}},
		{"RUST", Route{Backend: BackendRust}},
		{"c", Route{Backend: BackendGeneric, Language: "c"}},
		{"go", Route{Backend: BackendGeneric, Language: "go"}},
		{"cpp", Route{Backend: BackendGeneric, Language: "cpp"}},
		{"java", Route{Backend: BackendGeneric, Language: "java"}},
		{"cs", Route{Backend: BackendGeneric, Language: "cs"}},
		{"r", Route{Backend: BackendGeneric, Language: "r"}},
		{"js", Route{Backend: BackendGeneric, Language: "node"}},
		{"JavaScript", Route{Backend: BackendGeneric, Language: "node"}},
		{"ts", Route{Backend: BackendGeneric, Language: "ts"}},
		{"typescript", Route{Backend: BackendGeneric, Language: "ts"}},
		{"py", Route{Backend: BackendGeneric, Language: "py"}},
		{"Python", Route{Backend: BackendGeneric, Language: "py"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := reg.Resolve(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ResolveErrors(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Resolve("")
	var derr *DispatchError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, NoLanguageSpecified, derr.Kind)
	assert.Equal(t, "ERROR: No language specified.\nHint: ```<language>", derr.UserMessage())

	_, err = reg.Resolve("random_lang")
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, UnsupportedLanguage, derr.Kind)
	assert.Equal(t, "random_lang", derr.Language)
	assert.Equal(t, "ERROR: Unsupported language.", derr.UserMessage())
}

func TestRegistry_ExtraAliases(t *testing.T) {
	reg := NewRegistry(map[string]Route{
		"Golang": {Backend: BackendGeneric, Language: "go"},
		"py":     {Backend: BackendGeneric, Language: "python3"},
	})

	got, err := reg.Resolve("golang")
	require.NoError(t, err)
	assert.Equal(t, Route{Backend: BackendGeneric, Language: "go"}, got)

	got, err = reg.Resolve("py")
	require.NoError(t, err)
	assert.Equal(t, "python3", got.Language)

	assert.Contains(t, reg.Aliases(), "golang")
	assert.Equal(t, []string{BackendGeneric, BackendRust}, reg.Backends())
}

func TestRegistry_CheckBackends(t *testing.T) {
	reg := NewRegistry(map[string]Route{"zig": {Backend: "zigbox", Language: "zig"}})
	err := reg.checkBackends(map[string]Backend{
		BackendRust:    NewRustBackend(RustConfig{}, nil),
		BackendGeneric: NewGenericBackend(GenericConfig{}, nil),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zigbox")
}
