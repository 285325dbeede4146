package pattern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/authzed/rpqplan/internal/logging"
)

// NumberedQuery is a query read from a query file along with its id and the
// original text.
type NumberedQuery struct {
	ID    int
	Text  string
	Query Query
}

// ReadQueries reads queries from lines of the form `<id>,<query>`.
// Malformed lines are skipped.
func ReadQueries(r io.Reader) ([]NumberedQuery, error) {
	var queries []NumberedQuery

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		idText, text, ok := strings.Cut(line, ",")
		if !ok {
			log.Debug().Int("line", lineNumber).Msg("skipping query line without an id")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(idText))
		if err != nil {
			log.Debug().Int("line", lineNumber).Str("id", idText).Msg("skipping query line with an invalid id")
			continue
		}

		text = strings.TrimSpace(text)
		query, err := Parse(text)
		if err != nil {
			log.Debug().Int("line", lineNumber).Err(err).Str("query", text).Msg("skipping unparsable query")
			continue
		}

		queries = append(queries, NumberedQuery{ID: id, Text: text, Query: query})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read queries: %w", err)
	}
	return queries, nil
}

// ReadQueriesFile reads queries from the file at the given path.
func ReadQueriesFile(path string) ([]NumberedQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load queries: %w", err)
	}
	defer f.Close()

	return ReadQueries(f)
}
