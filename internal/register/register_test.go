package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteChangeSmallDelete(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.WriteChange(Unnamed, Content{Text: "word"}))

	got, ok := s.Get(Unnamed)
	assert.True(t, ok)
	assert.Equal(t, Content{Text: "word"}, got)

	got, _ = s.Get(SmallDelete)
	assert.Equal(t, "word", got.Text)

	_, ok = s.Get('1')
	assert.False(t, ok, "charwise single-line change must not rotate numbered registers")
}

func TestWriteChangeRotatesNumbered(t *testing.T) {
	s := NewStore()

	for _, text := range []string{"one\n", "two\n", "three\n"} {
		require.NoError(t, s.WriteChange(0, Content{Text: text, Linewise: true}))
	}

	for name, want := range map[rune]string{'1': "three\n", '2': "two\n", '3': "one\n"} {
		got, ok := s.Get(name)
		require.True(t, ok, "register %c", name)
		assert.Equal(t, want, got.Text, "register %c", name)
	}
}

func TestWriteChangeRotationDropsTenth(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.WriteChange(Unnamed, Content{Text: string(rune('a'+i)) + "\n", Linewise: true}))
	}

	got, _ := s.Get('9')
	assert.Equal(t, "b\n", got.Text)
	got, _ = s.Get('1')
	assert.Equal(t, "j\n", got.Text)
}

func TestWriteChangeNamedAndAppend(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.WriteChange('a', Content{Text: "foo"}))
	require.NoError(t, s.WriteChange('A', Content{Text: "bar"}))

	got, _ := s.Get('a')
	assert.Equal(t, "foobar", got.Text)

	unnamed, _ := s.Get(Unnamed)
	assert.Equal(t, "bar", unnamed.Text)

	_, ok := s.Get(SmallDelete)
	assert.False(t, ok)
}

func TestWriteChangeBlackHole(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.WriteChange(Unnamed, Content{Text: "keep"}))

	require.NoError(t, s.WriteChange(BlackHole, Content{Text: "gone"}))

	got, _ := s.Get(Unnamed)
	assert.Equal(t, "keep", got.Text)
}

func TestWriteChangeRejectsReadOnlyAndInvalid(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.WriteChange(LastInserted, Content{Text: "x"}), ErrReadOnly)
	assert.ErrorIs(t, s.WriteChange('!', Content{Text: "x"}), ErrInvalidRegister)
}

func TestClipboardRegister(t *testing.T) {
	s := NewStore()
	cb := &MemoryClipboard{}
	s.SetClipboard(cb)

	require.NoError(t, s.WriteChange(Clipboard, Content{Text: "copied"}))
	assert.Equal(t, "copied", cb.Text)

	got, ok := s.Get(Selection)
	assert.True(t, ok)
	assert.Equal(t, "copied", got.Text)

	_, inSnapshot := s.Snapshot()[Clipboard]
	assert.False(t, inSnapshot)
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.WriteChange(Unnamed, Content{Text: "before"}))
	snap := s.Snapshot()

	require.NoError(t, s.WriteChange(Unnamed, Content{Text: "after\n", Linewise: true}))
	s.Restore(snap)

	got, _ := s.Get(Unnamed)
	assert.Equal(t, "before", got.Text)
	_, ok := s.Get('1')
	assert.False(t, ok)

	s.Restore(nil)
	_, ok = s.Get(Unnamed)
	assert.False(t, ok)
}

func TestSinkReportsErrors(t *testing.T) {
	s := NewStore()
	var got error
	sink := s.Sink(FileName, func(err error) { got = err })

	sink.WriteChange(Content{Text: "x"})
	assert.ErrorIs(t, got, ErrReadOnly)

	s.Sink('b', nil).WriteChange(Content{Text: "y"})
	c, _ := s.Get('b')
	assert.Equal(t, "y", c.Text)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name rune
		want Kind
	}{
		{'"', KindUnnamed},
		{'q', KindNamed},
		{'Q', KindNamed},
		{'4', KindNumbered},
		{'-', KindSmallDelete},
		{'_', KindBlackHole},
		{'+', KindClipboard},
		{'*', KindClipboard},
		{'?', KindInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.name), "KindOf(%q)", tt.name)
	}
}
