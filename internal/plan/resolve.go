package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Source is raw EXPLAIN output together with the query it came from,
// ready to hand to the engine. Query is empty unless the input was SQL
// executed against a live database.
type Source struct {
	Text  string
	Query string
}

// Resolve turns a CLI input argument into EXPLAIN output. input names a
// file, "-" reads stdin, and "" prompts interactively. SQL inputs are
// executed against dbConn; text and JSON plans are passed through
// untouched. label prefixes messages when resolving one of several
// inputs ("old ", "new ").
func Resolve(input string, dbConn string, label string) (Source, error) {
	data, err := readInput(input, label)
	if err != nil {
		return Source{}, err
	}

	switch detectType(data, input) {
	case "json", "text":
		return Source{Text: string(data)}, nil
	case "sql":
		sql := strings.TrimSpace(string(data))
		if strings.HasPrefix(strings.ToUpper(sql), "EXPLAIN") {
			return Source{}, fmt.Errorf("input should not include EXPLAIN prefix - provide the raw query only")
		}
		if dbConn == "" {
			return Source{}, fmt.Errorf("SQL input requires a database connection")
		}
		text, err := Execute(dbConn, sql)
		if err != nil {
			return Source{}, err
		}
		return Source{Text: text, Query: sql}, nil
	default:
		return Source{}, fmt.Errorf("unable to detect %sinput type: expected EXPLAIN output (text or JSON), SQL query, or .txt/.json/.sql file", label)
	}
}

func readInput(input string, label string) ([]byte, error) {
	switch input {
	case "":
		return readInteractive(label)
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(input)
	}
}

func readInteractive(label string) ([]byte, error) {
	fmt.Printf("Paste %sEXPLAIN (ANALYZE) output or SQL query", label)
	if runtime.GOOS == "windows" {
		fmt.Print(" (Ctrl+Z, Enter to submit)\n")
	} else {
		fmt.Print(" (Ctrl+D to submit)\n")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))

	if (strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "{")) &&
		!json.Valid(data) {
		return nil, fmt.Errorf("input appears truncated; for large inputs use: planviz analyze <file>")
	}

	return data, nil
}

func detectType(data []byte, filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	}
	if strings.HasSuffix(filename, ".sql") {
		return "sql"
	}
	if strings.HasSuffix(filename, ".txt") {
		return "text"
	}

	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return "json"
	}

	if strings.Contains(trimmed, "(cost=") {
		return "text"
	}

	upper := strings.ToUpper(trimmed)
	for _, prefix := range []string{"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "EXPLAIN"} {
		if strings.HasPrefix(upper, prefix) {
			return "sql"
		}
	}

	return "unknown"
}
