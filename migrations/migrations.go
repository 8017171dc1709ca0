// Package migrations embeds the schema files applied by the migrate command.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed mysql/*.sql clickhouse/*.sql
var files embed.FS

// Script is one migration file.
type Script struct {
	Name string
	SQL  string
}

// MySQL returns the MySQL scripts in name order.
func MySQL() ([]Script, error) { return load("mysql") }

// ClickHouse returns the ClickHouse scripts in name order.
func ClickHouse() ([]Script, error) { return load("clickhouse") }

func load(dir string) ([]Script, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Script, 0, len(names))
	for _, n := range names {
		b, err := files.ReadFile(dir + "/" + n)
		if err != nil {
			return nil, err
		}
		out = append(out, Script{Name: dir + "/" + n, SQL: string(b)})
	}
	return out, nil
}

// Statements splits a script on ';' line ends for drivers that execute one
// statement per call (ClickHouse). Comment-only lines are dropped.
func Statements(sql string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			out = append(out, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
