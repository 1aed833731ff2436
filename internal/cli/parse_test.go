package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/cli"
	"github.com/tartampluch/go-addressbook/internal/config"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantCmd  string
		wantArgs []string
	}{
		{"Empty", "", "", nil},
		{"Blank", "   \t ", "", nil},
		{"CommandOnly", "hello", "hello", []string{}},
		{"CommandIsLowercased", "ADD-Phone Bob 0501234567", "add-phone", []string{"Bob", "0501234567"}},
		{"ArgumentsKeepCase", "add Alice 0501234567", "add", []string{"Alice", "0501234567"}},
		{"RepeatedSpaces", "  add   Alice    0501234567  ", "add", []string{"Alice", "0501234567"}},
		{"QuotedName", `add "Ann Lee" 0501234567`, "add", []string{"Ann Lee", "0501234567"}},
		{"SingleQuotedName", `add 'Ann Lee' 0501234567`, "add", []string{"Ann Lee", "0501234567"}},
		{"EscapedSpace", `add Ann\ Lee 0501234567`, "add", []string{"Ann Lee", "0501234567"}},
		{"EmptyQuotes", `add "" 0501234567`, "add", []string{"", "0501234567"}},
		{"QuoteInsideWord", `add Ann"a b"c 1`, "add", []string{"Anna bc", "1"}},
		{"Apostrophe", "add O'Neil 0501234567", "add", []string{"O'Neil", "0501234567"}},
		{"ApostropheInQuotes", `add "Мар'яна Коваль" 0501234567`, "add", []string{"Мар'яна Коваль", "0501234567"}},
		{"Cyrillic", "add Олена 0671112233", "add", []string{"Олена", "0671112233"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := cli.ParseInput(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestParseInput_Malformed(t *testing.T) {
	for _, line := range []string{
		`phone "Ann Lee`,
		`phone 'Ann Lee`,
		`phone Ann\`,
		`add Bob 0501234567; remove Bob`,
		`export contacts.vcf > out`,
	} {
		t.Run(line, func(t *testing.T) {
			cmd, args, err := cli.ParseInput(line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrParseInput)
			assert.Empty(t, cmd)
			assert.Nil(t, args)
		})
	}
}
