package kittyimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInTmux(t *testing.T) {
	wasForced := IsTmuxForced()
	defer ForceTmux(wasForced)

	ForceTmux(false)
	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "")
	assert.False(t, InTmux())

	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	assert.True(t, InTmux())

	t.Setenv("TMUX", "")
	t.Setenv("TERM_PROGRAM", "tmux")
	assert.True(t, InTmux())

	t.Setenv("TERM_PROGRAM", "")
	ForceTmux(true)
	assert.True(t, IsTmuxForced())
	assert.True(t, InTmux())
}

func TestWrapTmuxPassthrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "delete command",
			in:   "\x1b_Ga=d,d=I,i=1,q=2;\x1b\\",
			want: "\x1bPtmux;\x1b\x1b_Ga=d,d=I,i=1,q=2;\x1b\x1b\\\x1b\\",
		},
		{
			name: "plain text untouched",
			in:   "hello",
			want: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapTmuxPassthrough(tt.in))
		})
	}
}
