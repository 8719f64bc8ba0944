package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnquoteString(t *testing.T) {
	testCases := []struct {
		raw     string
		dialect Dialect
		want    string
		wantErr string
	}{
		{raw: `""`, dialect: Java, want: ""},
		{raw: `"abc"`, dialect: Java, want: "abc"},
		{raw: `"tab\there"`, dialect: Kotlin, want: "tab\there"},
		{raw: `"A\uu0042"`, dialect: Java, want: "AB"},
		{raw: `"\uu0042"`, dialect: Kotlin, wantErr: "invalid unicode escape"},
		{raw: `"\101\7\0"`, dialect: Java, want: "A\a\x00"},
		{raw: `"\101"`, dialect: Kotlin, wantErr: "invalid escape"},
		{raw: `"\s\f"`, dialect: Java, want: " \f"},
		{raw: `"cost: \$5"`, dialect: Kotlin, want: "cost: $5"},
		{raw: `"cost: \$5"`, dialect: Java, wantErr: "invalid escape"},
		{raw: `"a $b"`, dialect: Kotlin, wantErr: "string templates"},
		{raw: `"a $b"`, dialect: Java, want: "a $b"},
		{raw: `"$5"`, dialect: Kotlin, want: "$5"},
		{raw: `"""raw \n $"""`, dialect: Kotlin, want: `raw \n $`},
		{raw: `"""${x}"""`, dialect: Kotlin, wantErr: "string templates"},
		{raw: `"😀"`, dialect: Java, want: "\U0001F600"},
		{raw: `"\u12"`, dialect: Java, wantErr: "four hex digits"},
		{raw: `"\q"`, dialect: Java, wantErr: "invalid escape \\q"},
	}
	for _, tc := range testCases {
		t.Run(tc.dialect.String()+" "+tc.raw, func(t *testing.T) {
			s, err := unquoteString(tc.raw, tc.dialect)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}
}

func TestUnquoteChar(t *testing.T) {
	testCases := []struct {
		raw     string
		dialect Dialect
		want    uint16
		wantErr bool
	}{
		{raw: `'b'`, dialect: Kotlin, want: 'b'},
		{raw: `'\n'`, dialect: Java, want: '\n'},
		{raw: `'\''`, dialect: Java, want: '\''},
		{raw: `'é'`, dialect: Kotlin, want: 0xe9},
		{raw: `'é'`, dialect: Java, want: 0xe9},
		{raw: `'\uD83D'`, dialect: Java, want: 0xd83d},
		{raw: `'😀'`, dialect: Java, wantErr: true},
		{raw: `'ab'`, dialect: Kotlin, wantErr: true},
		{raw: `''`, dialect: Java, wantErr: true},
		{raw: `'\377'`, dialect: Java, want: 0xff},
	}
	for _, tc := range testCases {
		t.Run(tc.dialect.String()+" "+tc.raw, func(t *testing.T) {
			c, err := unquoteChar(tc.raw, tc.dialect)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c)
		})
	}
}
