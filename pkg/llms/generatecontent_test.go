package llms_test

import (
	"testing"

	"github.com/effective-security/gvo/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParts(t *testing.T) {
	t.Parallel()
	type args struct {
		role  llms.Role
		parts []string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{"basics", args{llms.RoleHuman, []string{"a", "b", "c"}}, "a\nb\nc"},
		{"single", args{llms.RoleSystem, []string{"only"}}, "only"},
		{"empty", args{llms.RoleAI, nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mc := llms.MessageFromTextParts(tt.args.role, tt.args.parts...)
			assert.Equal(t, tt.args.role, mc.Role)
			assert.Len(t, mc.Parts, len(tt.args.parts))
			assert.Equal(t, tt.want, mc.GetContent())
		})
	}
}

func TestBinaryPart(t *testing.T) {
	bp := llms.BinaryPart("image/png", []byte("abc"))
	assert.Equal(t, "data:image/png;base64,YWJj", bp.String())

	m := llms.Message{Role: llms.RoleHuman, Parts: []llms.ContentPart{llms.TextPart("look"), bp}}
	assert.Equal(t, "look\nBinary: image/png", m.GetContent())
}

func TestFirstChoice(t *testing.T) {
	var resp *llms.ContentResponse
	_, err := resp.FirstChoice()
	assert.ErrorIs(t, err, llms.ErrNoContent)

	_, err = (&llms.ContentResponse{}).FirstChoice()
	assert.ErrorIs(t, err, llms.ErrNoContent)

	c, err := (&llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "x"}}}).FirstChoice()
	require.NoError(t, err)
	assert.Equal(t, "x", c.Content)
}
