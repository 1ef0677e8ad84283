// Package input assembles the deduplicated target URL list from the
// configured sources, in override priority: explicit CLI values, a
// space-separated CLI string, a newline-delimited file, a CSV column, then
// the config file.
package input

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Sources holds every place a URL list can come from. The first non-empty
// source in priority order wins; sources are not merged.
type Sources struct {
	CLIValues  []string // --url flags
	CLIString  string   // --urls "a b c"
	URLFile    string   // newline-delimited, # comments
	CSVFile    string
	CSVColumn  string
	ConfigURLs []string
}

// Resolve produces the ordered, deduplicated URL list. An empty result is an
// error: a run with no targets is a misconfiguration, not a no-op.
func Resolve(src Sources) ([]string, error) {
	urls, err := collect(src)
	if err != nil {
		return nil, err
	}

	deduped := Dedupe(urls)
	if len(deduped) == 0 {
		return nil, eris.New("input: no target URLs provided")
	}
	return deduped, nil
}

func collect(src Sources) ([]string, error) {
	if len(src.CLIValues) > 0 {
		return src.CLIValues, nil
	}
	if strings.TrimSpace(src.CLIString) != "" {
		return strings.Fields(src.CLIString), nil
	}
	if src.URLFile != "" {
		return readURLFile(src.URLFile)
	}
	if src.CSVFile != "" {
		return readCSVColumn(src.CSVFile, src.CSVColumn)
	}
	return src.ConfigURLs, nil
}

// Dedupe removes duplicates keyed by lowercased URL with any trailing slash
// stripped, keeping the first-seen original casing and order.
func Dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		key := strings.ToLower(strings.TrimRight(u, "/"))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: read url file %s", path)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

// readCSVColumn reads the named column from a CSV file with a header row.
func readCSVColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open csv %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "input: read csv header %s", path)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, eris.Errorf("input: csv %s has no column %q", path, column)
	}

	var urls []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "input: read csv %s", path)
		}
		if col < len(record) {
			urls = append(urls, strings.TrimSpace(record[col]))
		}
	}
	return urls, nil
}
