package naming

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		pattern string
		wantErr bool
	}{
		{kind: "", pattern: `^[0-9a-f]{32}$`},
		{kind: "uuid", pattern: `^[0-9a-f]{32}$`},
		{kind: "ULID", pattern: `^[0-9a-z]{26}$`},
		{kind: "ksuid", pattern: `^[0-9A-Za-z]{27}$`},
		{kind: "snowflake", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			g, err := New(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			a, err := g.Generate()
			require.NoError(t, err)
			b, err := g.Generate()
			require.NoError(t, err)

			assert.Regexp(t, regexp.MustCompile(tt.pattern), a)
			assert.NotEqual(t, a, b)
		})
	}
}

type fixedGenerator struct {
	name string
	err  error
}

func (f fixedGenerator) Generate() (string, error) { return f.name, f.err }

func TestObjectKey(t *testing.T) {
	g := fixedGenerator{name: "abc"}

	tests := []struct {
		prefix, original, want string
	}{
		{"uploads", "cat.png", "uploads/abc.png"},
		{"uploads/", "photo.tar.gz", "uploads/abc.gz"},
		{"uploads", "noext", "uploads/abc"},
		{"", "x.JPG", "abc.JPG"},
		{"uploads", "../../evil.png", "uploads/abc.png"},
	}
	for _, tt := range tests {
		got, err := ObjectKey(g, tt.prefix, tt.original)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ObjectKey(fixedGenerator{err: errors.New("boom")}, "uploads", "a.png")
	assert.Error(t, err)
}
