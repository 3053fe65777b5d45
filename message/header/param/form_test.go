package param_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mimeframe/message/header/param"
)

func TestEncodeForm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b=2&a=x+y&b=%26%3D", param.EncodeForm([]param.Param{
		{"b", "2"},
		{"a", "x y"},
		{"b", "&="},
	}))
	assert.Equal(t, "", param.EncodeForm(nil))
}

func TestParseForm(t *testing.T) {
	t.Parallel()

	ps, err := param.ParseForm("b=2&a=x+y&&flag&b=%26%3D")
	require.NoError(t, err)
	assert.Equal(t, []param.Param{
		{"b", "2"},
		{"a", "x y"},
		{"flag", ""},
		{"b", "&="},
	}, ps)

	_, err = param.ParseForm("a=%zz")
	assert.Error(t, err)
}

func TestForm_RoundTrip(t *testing.T) {
	t.Parallel()

	lists := [][]param.Param{
		{},
		{{"", ""}},
		{{"name", "value"}},
		{{"a+b", "c d"}, {"a+b", "e&f=g"}, {"ünï", "cödé%"}},
		{{`user@"host"`, `it's "quoted"`}, {"'=@", `%"+'`}},
	}

	for _, ps := range lists {
		got, err := param.ParseForm(param.EncodeForm(ps))
		require.NoError(t, err)
		assert.Equal(t, ps, got)
	}
}
