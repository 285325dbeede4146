// Package graph loads the labeled graphs that path queries run against.
//
// A graph directory holds:
//
//	edges.txt      one `<label> num` line per edge label
//	vertices.txt   one `<name> idx` line per vertex, idx being 1-based
//	<num>.txt      the MatrixMarket adjacency matrix of label num
package graph

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/matrix"
	"github.com/authzed/rpqplan/pkg/plan"
)

const (
	edgesFile    = "edges.txt"
	verticesFile = "vertices.txt"
)

// Graph is an immutable labeled graph. It is safe to share between
// goroutines.
type Graph struct {
	// Matrices maps a label to its adjacency matrix.
	Matrices map[string]*matrix.Matrix

	// LabelSizes maps a label to its entry count, as declared by its matrix
	// file.
	LabelSizes plan.LabelSizes

	// Vertices maps a vertex name to its 1-based index.
	Vertices map[string]uint

	// NumVertices is the dimension of the vertex selectors.
	NumVertices uint
}

// Labels returns the graph's labels in sorted order.
func (g *Graph) Labels() []string {
	labels := make([]string, 0, len(g.Matrices))
	for label := range g.Matrices {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// SuggestLabels returns the labels closest to an unknown one, best match
// first.
func (g *Graph) SuggestLabels(name string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, g.Labels())
	sort.Sort(ranks)

	suggestions := make([]string, 0, min(limit, len(ranks)))
	for _, r := range ranks {
		if len(suggestions) == limit {
			break
		}
		suggestions = append(suggestions, r.Target)
	}
	return suggestions
}

type labelFile struct {
	label string
	path  string
}

// LoadDir loads a graph directory. Matrices are read concurrently.
func LoadDir(ctx context.Context, dir string) (*Graph, error) {
	edges, err := readTable(filepath.Join(dir, edgesFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read edge labels: %w", err)
	}
	vertices, err := readTable(filepath.Join(dir, verticesFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read vertices: %w", err)
	}

	g := &Graph{
		Matrices:   make(map[string]*matrix.Matrix, len(edges)),
		LabelSizes: make(plan.LabelSizes, len(edges)),
		Vertices:   make(map[string]uint, len(vertices)),
	}
	for name, idx := range vertices {
		g.Vertices[name] = idx
		g.NumVertices = max(g.NumVertices, idx)
	}

	files, err := labelFiles(dir, edges)
	if err != nil {
		return nil, err
	}

	type loaded struct {
		m       *matrix.Matrix
		entries uint64
	}
	results := xsync.NewMap[string, loaded]()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, f := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			m, header, err := readMatrix(f.path, g.NumVertices)
			if err != nil {
				return fmt.Errorf("unable to load matrix for %s from %s: %w", f.label, f.path, err)
			}
			results.Store(f.label, loaded{m: m, entries: header.Entries})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Every label shares one vertex set, so all matrices and selectors take
	// the largest dimension any file declares.
	var total uint64
	results.Range(func(label string, l loaded) bool {
		g.NumVertices = max(g.NumVertices, l.m.Rows(), l.m.Cols())
		g.Matrices[label] = l.m
		g.LabelSizes[label] = l.entries
		total += l.entries
		return true
	})
	for label, m := range g.Matrices {
		if m.Rows() == g.NumVertices && m.Cols() == g.NumVertices {
			continue
		}
		grown, err := m.Grow(g.NumVertices, g.NumVertices)
		if err != nil {
			return nil, fmt.Errorf("unable to resize matrix for %s: %w", label, err)
		}
		g.Matrices[label] = grown
	}

	log.Ctx(ctx).Info().
		Str("dir", dir).
		Int("labels", len(g.Matrices)).
		Str("vertices", humanize.Comma(int64(len(g.Vertices)))).
		Str("edges", humanize.Comma(clampInt64(total))).
		Msg("loaded graph")
	return g, nil
}

func clampInt64(v uint64) int64 {
	i, err := safecast.Convert[int64](v)
	if err != nil {
		return int64(^uint64(0) >> 1)
	}
	return i
}

func readMatrix(path string, n uint) (*matrix.Matrix, matrix.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, matrix.Header{}, err
	}
	defer f.Close()
	return matrix.ReadMatrixMarket(bufio.NewReader(f), n)
}

// labelFiles returns the matrix file of every numbered label present in the
// directory, in label order.
func labelFiles(dir string, edges map[string]uint) ([]labelFile, error) {
	byNumber := make(map[uint]string, len(edges))
	for label, num := range edges {
		byNumber[num] = label
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list graph directory: %w", err)
	}

	var files []labelFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		num, err := strconv.ParseUint(stem, 10, 64)
		if err != nil {
			continue
		}
		n, err := safecast.Convert[uint](num)
		if err != nil {
			continue
		}
		label, ok := byNumber[n]
		if !ok {
			log.Debug().Str("file", entry.Name()).Msg("skipping matrix file without an edge label")
			continue
		}
		files = append(files, labelFile{label: label, path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].label < files[j].label })
	return files, nil
}

// readTable reads `<name> num` lines. Malformed lines are skipped.
func readTable(path string) (map[string]uint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := map[string]uint{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		name, num, ok := parseTableLine(scanner.Text())
		if !ok {
			log.Debug().Str("file", filepath.Base(path)).Int("line", lineNo).Msg("skipping malformed line")
			continue
		}
		table[name] = num
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func parseTableLine(line string) (string, uint, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, false
	}
	name := fields[0]
	if len(name) < 2 || !strings.HasPrefix(name, "<") || !strings.HasSuffix(name, ">") {
		return "", 0, false
	}
	num, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	n, err := safecast.Convert[uint](num)
	if err != nil {
		return "", 0, false
	}
	return name[1 : len(name)-1], n, true
}
