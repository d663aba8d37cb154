package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectory_Defaults(t *testing.T) {
	d := NewDirectory()
	require.Equal(t, "en-IN", d.Reply())
	require.Equal(t, "hi-IN", d.Fallback())
	require.Equal(t, "en-IN", d.Default())
}

func TestDirectory_Options(t *testing.T) {
	d := NewDirectory(WithReply("en-US"), WithFallback("ta-IN"), WithDefault(""))
	require.Equal(t, "en-US", d.Reply())
	require.Equal(t, "ta-IN", d.Fallback())
	require.Equal(t, Default, d.Default())
}

func TestDirectory_Name(t *testing.T) {
	d := NewDirectory()
	require.Equal(t, "Hindi", d.Name("hi-IN"))
	require.Equal(t, "Hindi", d.Name("hi-in"))
	require.Equal(t, "xx-YY", d.Name("xx-YY"))
}

func TestDirectory_ListSorted(t *testing.T) {
	l := NewDirectory().List()
	require.NotEmpty(t, l)
	for i := 1; i < len(l); i++ {
		require.Less(t, l[i-1].Code, l[i].Code)
	}
}

func TestBase(t *testing.T) {
	require.Equal(t, "hi", Base("hi-IN"))
	require.Equal(t, "en", Base("en"))
	require.Equal(t, "zh-TW", Base("zh-TW"))
}

func TestDirectory_Canonical(t *testing.T) {
	d := NewDirectory()
	require.Equal(t, "hi-IN", d.Canonical("hi-in"))
	require.Equal(t, "zh-TW", d.Canonical(" ZH-tw "))
	require.Equal(t, "xx-YY", d.Canonical("xx-YY"))
	require.Empty(t, d.Canonical("  "))
}
