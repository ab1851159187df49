// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/bookmatch/internal/auth"
	"github.com/tomtom215/bookmatch/internal/config"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// The commands share package-level flag variables, so these tests do not
// run in parallel.

const testCatalog = `"ISBN";"Book-Title";"Book-Author";"Year-Of-Publication";"Publisher";"Image-URL-S";"Image-URL-M";"Image-URL-L"
"0439136350";"Harry Potter and the Prisoner of Azkaban";"J. K. Rowling";"1999";"Scholastic";"";"";""
"0439064872";"Harry Potter and the Chamber of Secrets";"J. K. Rowling";"2000";"Scholastic";"";"";""
"0345339681";"The Hobbit : The Enchanting Prelude to The Lord of the Rings";"J.R.R. TOLKIEN";"1986";"Del Rey";"";"";""
"0425182908";"Murder on the Orient Express";"Agatha Christie";"2000";"Berkley Publishing Group";"";"";""
"0060928336";"Divine Secrets of the Ya-Ya Sisterhood: A Novel";"Rebecca Wells";"1997";"Perennial";"";"";""
`

const testSecret = "0123456789abcdef0123456789abcdef"

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "BX-Books.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	return path
}

// resetFlags restores every flag to its default. Cobra keeps parsed values
// between Execute calls.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmds := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSimilarCmd_Flags(t *testing.T) {
	assert.Equal(t, "similar [isbn]", similarCmd.Use)

	flag := similarCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)

	require.NotNil(t, similarCmd.Flags().Lookup("title"))
	for _, name := range []string{"catalog", "max-items", "stem", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestSimilarCmd_ByISBN(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "similar", "0439136350", "--catalog", path, "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, `Books similar to "Harry Potter and the Prisoner of Azkaban" by J. K. Rowling`)
	assert.Contains(t, out, "[1] Harry Potter and the Chamber of Secrets - J. K. Rowling")
	assert.Contains(t, out, "ISBN 0439064872, Scholastic 2000")
	assert.Contains(t, out, "[2] ")
	assert.NotContains(t, out, "[3] ")
	assert.NotContains(t, out, "[1] Harry Potter and the Prisoner of Azkaban")
}

func TestSimilarCmd_ByTitleJSON(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "similar", "--title", "Harry Potter and the Chamber of Secrets", "--catalog", path, "--json", "-n", "3")
	require.NoError(t, err)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "0439064872", resp.Query.ID)
	assert.Equal(t, recommend.LookupTitle, resp.Metadata.Lookup)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "0439136350", resp.Items[0].Item.ID)
	for i := 1; i < len(resp.Items); i++ {
		assert.GreaterOrEqual(t, resp.Items[i-1].Score, resp.Items[i].Score)
	}
}

func TestSimilarCmd_ZeroLimit(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "similar", "0439136350", "--catalog", path, "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No similar books found.")
}

func TestSimilarCmd_Stemming(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "similar", "0345339681", "--catalog", path, "--stem", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] ")
}

func TestSimilarCmd_Errors(t *testing.T) {
	path := writeCatalog(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no query", []string{"similar", "--catalog", path}, "an ISBN argument or --title is required"},
		{"both queries", []string{"similar", "0439136350", "--title", "The Hobbit", "--catalog", path}, "not both"},
		{"too many args", []string{"similar", "1", "2", "--catalog", path}, "accepts at most 1 arg(s)"},
		{"unknown isbn", []string{"similar", "0000000000", "--catalog", path}, `book "0000000000" not found`},
		{"unknown title", []string{"similar", "--title", "Dune", "--catalog", path}, `no book titled "Dune"`},
		{"missing catalog", []string{"similar", "0439136350", "--catalog", filepath.Join(t.TempDir(), "none.csv")}, "failed to index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSimilarCmd_UnknownISBNIsNotFound(t *testing.T) {
	path := writeCatalog(t)

	_, err := execute(t, "similar", "0000000000", "--catalog", path)
	assert.ErrorIs(t, err, recommend.ErrNotFound)
}

func TestSimilarCmd_EmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.SplitN(testCatalog, "\n", 2)[0]+"\n"), 0o600))

	_, err := execute(t, "similar", "0439136350", "--catalog", path)
	assert.ErrorIs(t, err, recommend.ErrEmptyCatalog)
}

func TestGenresCmd(t *testing.T) {
	out, err := execute(t, "genres")
	require.NoError(t, err)
	for _, g := range recommend.Genres() {
		assert.Contains(t, out, g.Name)
	}
	assert.Contains(t, out, "wizard")
}

func TestGenreCmd(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "genre", "fantasy", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Harry Potter and the Prisoner of Azkaban")
	assert.Contains(t, out, "[2] Harry Potter and the Chamber of Secrets")
	assert.Contains(t, out, "[3] The Hobbit")
	assert.NotContains(t, out, "Orient Express")
}

func TestGenreCmd_SeedIsDeterministic(t *testing.T) {
	path := writeCatalog(t)

	first, err := execute(t, "genre", "Fantasy", "--catalog", path, "-n", "2", "--seed", "7", "--json")
	require.NoError(t, err)
	second, err := execute(t, "genre", "Fantasy", "--catalog", path, "-n", "2", "--seed", "7", "--json")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var books []recommend.Item
	require.NoError(t, json.Unmarshal([]byte(first), &books))
	assert.Len(t, books, 2)
}

func TestGenreCmd_Unknown(t *testing.T) {
	_, err := execute(t, "genre", "westerns")
	require.Error(t, err)
	assert.ErrorIs(t, err, recommend.ErrUnknownGenre)
	assert.Contains(t, err.Error(), "Fantasy")
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "--user", "ops", "--secret", testSecret)
	require.NoError(t, err)

	manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	claims, err := manager.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCmd_SecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	out, err := execute(t, "token", "--user", "ops", "--role", "viewer", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "viewer", got["role"])
	assert.NotEmpty(t, got["token"])
	assert.NotEmpty(t, got["expires_at"])
}

func TestTokenCmd_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token", "--secret", testSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "user" not set`)

	_, err = execute(t, "token", "--user", "ops", "--secret", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bookmatch version dev\n", out)
}
