package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestModerator_Flag
// The dictionary uses specific words to avoid partial collisions (e.g., "air" inside "airdrop")
func TestModerator_Flag(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"airdrop", "giveaway", "freecoins"}
	mod, err := NewModerator(dictionary)
	req.NoError(err)

	tests := []struct {
		name  string
		input string
		words []string
	}{
		{
			name:  "Simple word",
			input: "claim your airdrop now",
			words: []string{"airdrop"},
		},
		{
			name:  "Multiple occurrences",
			input: "airdrop airdrop airdrop",
			words: []string{"airdrop", "airdrop", "airdrop"},
		},
		{
			name:  "Leet speak and internal punctuation",
			input: "Look: 4.i.r.d.r.0.p !",
			words: []string{"airdrop"},
		},
		{
			name:  "Uppercase and extreme noise",
			input: "G-I-V-E-A-W-A-Y plus f.r.3.3.c.0.1.n.$",
			words: []string{"giveaway", "freecoins"},
		},
		{
			name:  "Accents around the match (UTF-8)",
			input: "Un été avec un airdrop",
			words: []string{"airdrop"},
		},
		{
			name:  "Nothing to flag",
			input: "gm, the board is quiet today",
			words: nil,
		},
		{
			name:  "Empty string",
			input: "",
			words: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := mod.Flag(tt.input)
			require.Equal(t, tt.words, found)
		})
	}
}

func TestModerator_Flag_DoesNotMutateInput(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"giveaway"})
	req.NoError(err)

	input := "huge giveaway today"
	_ = mod.Flag(input)
	req.Equal("huge giveaway today", input)
}
