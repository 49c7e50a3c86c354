package gogen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rxport/internal/batch"
	"rxport/internal/convert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct{ in, want string }{
		{"date", "Date"},
		{"user-email", "UserEmail"},
		{"ip_v4 address", "IpV4Address"},
		{"2fa code", "Pattern2faCode"},
		{"---", "Pattern"},
		{"日付", "Pattern日付"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Identifier(tt.in))
		})
	}
}

func runJobs(t *testing.T, body string) *batch.Report {
	t.Helper()
	f, err := batch.Parse(body)
	require.NoError(t, err)
	rep, err := batch.Run(context.Background(), f, batch.Options{Convert: convert.Options{MaxLength: 32}})
	require.NoError(t, err)
	return rep
}

const jobs = `
[[pattern]]
name = "date"
source = '(?P<y>\d{4})-(?P<m>\d{2})'
flags = "i"

[[pattern]]
name = "Date"
source = '(?>x)'

[[pattern]]
name = "huge"
source = 'aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa'
`

func TestRender(t *testing.T) {
	rep := runJobs(t, jobs)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rep, Options{Package: "patterns", Index: true}))
	out := buf.String()

	require.Contains(t, out, "// Code generated by rxport; DO NOT EDIT.")
	require.Contains(t, out, "package patterns")
	require.Contains(t, out, "const (")
	require.Contains(t, out, "\tDate = \"/(?<y>\\\\d{4})-(?<m>\\\\d{2})/i\"")
	require.Contains(t, out, "\tDate2 = \"/(?:x)/\"")
	require.Contains(t, out, "warning RW1005")
	require.Contains(t, out, "\t// huge was not converted:")
	require.NotContains(t, out, "Huge =")
	require.Contains(t, out, "var Literals = map[string]string{")
	require.Contains(t, out, "\"date\": Date,")
}

func TestFile_InvalidPackage(t *testing.T) {
	_, err := File(&batch.Report{}, Options{Package: "not a package"})
	require.Error(t, err)
}

func TestSave(t *testing.T) {
	rep := runJobs(t, jobs)
	path := filepath.Join(t.TempDir(), "regexes_gen.go")
	require.NoError(t, Save(path, rep, Options{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "package regexes")
}
