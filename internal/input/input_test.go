package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("case and trailing slash insensitive, first casing kept", func(t *testing.T) {
		t.Parallel()
		got := Dedupe([]string{
			"https://Example.com/",
			"https://example.com",
			"https://EXAMPLE.COM/",
			"https://other.com",
		})
		assert.Equal(t, []string{"https://Example.com/", "https://other.com"}, got)
	})

	t.Run("blank entries dropped", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"https://a.com"}, Dedupe([]string{"", "  ", "https://a.com"}))
	})
}

func TestResolvePriority(t *testing.T) {
	t.Parallel()

	t.Run("cli values beat everything", func(t *testing.T) {
		t.Parallel()
		got, err := Resolve(Sources{
			CLIValues:  []string{"https://cli.com"},
			CLIString:  "https://string.com",
			ConfigURLs: []string{"https://config.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cli.com"}, got)
	})

	t.Run("cli string splits on whitespace", func(t *testing.T) {
		t.Parallel()
		got, err := Resolve(Sources{CLIString: "https://a.com  https://b.com"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com", "https://b.com"}, got)
	})

	t.Run("config urls are the last resort", func(t *testing.T) {
		t.Parallel()
		got, err := Resolve(Sources{ConfigURLs: []string{"https://config.com"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://config.com"}, got)
	})

	t.Run("no sources is an error", func(t *testing.T) {
		t.Parallel()
		_, err := Resolve(Sources{})
		assert.Error(t, err)
	})
}

func TestResolveURLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# dealer list\nhttps://a.com\n\n  https://b.com  \n# trailing comment\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Resolve(Sources{URLFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, got)
}

func TestResolveCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dealers.csv")
	content := "name,website,city\nAcme Motors,https://acme.com,Chicago\nBravo Autos,https://bravo.com,Dallas\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("reads named column", func(t *testing.T) {
		t.Parallel()
		got, err := Resolve(Sources{CSVFile: path, CSVColumn: "website"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://acme.com", "https://bravo.com"}, got)
	})

	t.Run("missing column is an error", func(t *testing.T) {
		t.Parallel()
		_, err := Resolve(Sources{CSVFile: path, CSVColumn: "url"})
		assert.Error(t, err)
	})
}
