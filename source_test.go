package asnc

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func upload(t *testing.T, files map[string]string) {
	t.Helper()
	svc := afs.New()
	for URL, content := range files {
		err := svc.Upload(context.Background(), URL, file.DefaultFileOsMode, strings.NewReader(content))
		require.NoError(t, err, URL)
	}
}

func TestDirSource(t *testing.T) {
	base := "mem://localhost/asnc/dir"
	upload(t, map[string]string{
		base + "/App.asn":    appSource,
		base + "/Common.asn1": commonSource,
		base + "/notes.txt":   "App DEFINITIONS ::= BEGIN END",
		base + "/Empty.asn":   "just text",
	})
	ctx := context.Background()
	src := Dir(base)

	data, location, err := src.Find(ctx, "Common")
	require.NoError(t, err)
	require.Equal(t, commonSource, string(data))
	require.True(t, strings.HasSuffix(location, "Common.asn1"), location)

	_, _, err = src.Find(ctx, "Missing")
	require.ErrorIs(t, err, fs.ErrNotExist)

	inputs, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, inputs, 2, "wrong extension and non-schema content skipped")
	require.True(t, strings.HasSuffix(inputs[0].Location, "App.asn"), "sorted by location")

	res, err := Load(ctx, src, []string{"App"})
	require.NoError(t, err)
	require.Len(t, res.Models, 2)
}

func TestDirSourceOptions(t *testing.T) {
	base := "mem://localhost/asnc/options"
	upload(t, map[string]string{
		base + "/Common.mod": commonSource,
		base + "/Loose.mod":  "not a module",
	})
	ctx := context.Background()

	_, _, err := Dir(base).Find(ctx, "Common")
	require.ErrorIs(t, err, fs.ErrNotExist)

	src := Dir(base, WithExtensions(".mod"))
	_, _, err = src.Find(ctx, "Common")
	require.NoError(t, err)
	inputs, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, inputs, 1)

	inputs, err = Dir(base, WithExtensions(".mod"), WithNoHeuristic()).List(ctx)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
}

func TestInputsSource(t *testing.T) {
	ctx := context.Background()
	src := Inputs(testInputs())

	_, location, err := src.Find(ctx, "Common")
	require.NoError(t, err)
	require.Equal(t, "common/Common.asn", location)

	_, _, err = src.Find(ctx, "common")
	require.ErrorIs(t, err, fs.ErrNotExist, "names are case sensitive")
}

func TestMultiSource(t *testing.T) {
	ctx := context.Background()
	first := Inputs(testInputs()[:1])
	second := Inputs(testInputs()[1:])
	src := Multi(first, second)

	_, location, err := src.Find(ctx, "Common")
	require.NoError(t, err)
	require.Equal(t, "common/Common.asn", location)

	_, _, err = src.Find(ctx, "Nope")
	require.ErrorIs(t, err, fs.ErrNotExist)

	inputs, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
}

func TestLooksLikeSchema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"module", "M DEFINITIONS ::= BEGIN END", true},
		{"empty", "", false},
		{"binary", "M DEFINITIONS ::= \x00", false},
		{"no header", "T ::= INTEGER", false},
		{"no assignment", "DEFINITIONS", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, looksLikeSchema([]byte(tt.content)))
		})
	}
}

func TestModuleNameFromPath(t *testing.T) {
	require.Equal(t, "App", moduleNameFromPath("mem://localhost/x/App.asn"))
	require.Equal(t, "App", moduleNameFromPath("App"))
}
