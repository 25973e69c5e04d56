// Package ingest turns node-link documents into validated graphs.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TFMV/forcegraph/models"
)

var (
	// ErrUnsupportedFormat indicates no processor exists for the requested format.
	ErrUnsupportedFormat = errors.New("ingest: unsupported format")
	// ErrMissingColumn indicates a CSV header without source and target columns.
	ErrMissingColumn = errors.New("ingest: CSV must contain source and target columns")
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a validated graph
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// label accepts a JSON string or number, as group and id fields commonly
// carry either.
type label string

func (l *label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*l = label(n.String())
	return nil
}

// JSONProcessor handles {"nodes": [...], "links": [...]} documents
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID    label `json:"id"`
			Group label `json:"group"`
		} `json:"nodes"`
		Links []struct {
			Source label    `json:"source"`
			Target label    `json:"target"`
			Value  *float64 `json:"value"`
		} `json:"links"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	nodes := make([]models.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = models.Node{ID: string(n.ID), Group: string(n.Group)}
	}

	links := make([]models.Link, len(doc.Links))
	for i, l := range doc.Links {
		value := 1.0
		if l.Value != nil {
			value = *l.Value
		}
		links[i] = models.Link{Source: string(l.Source), Target: string(l.Target), Value: value}
	}

	graph, err := models.Load(nodes, links)
	if err != nil {
		return nil, err
	}
	graph.Name = doc.Name
	if graph.Name == "" {
		graph.Name = "JSON Import"
	}
	return graph, nil
}

// CSVProcessor handles edge-list CSV data. Nodes are declared implicitly in
// order of first appearance.
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx := -1, -1
	weightIdx := -1
	groupIdx := -1

	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		case "group", "source_group":
			groupIdx = i
		}
	}

	if sourceIdx == -1 || targetIdx == -1 {
		return nil, ErrMissingColumn
	}

	b := newBuilder()
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		group := ""
		if groupIdx >= 0 && groupIdx < len(row) {
			group = row[groupIdx]
		}
		source := b.node(row[sourceIdx], group)
		target := b.node(row[targetIdx], "")

		weight := 1.0
		if weightIdx >= 0 && weightIdx < len(row) && row[weightIdx] != "" {
			weight, err = strconv.ParseFloat(row[weightIdx], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid weight %q: %w", line, row[weightIdx], err)
			}
		}
		b.link(source, target, weight)
	}

	return b.build("CSV Import")
}

// TextProcessor handles line-oriented relationship logs such as "A -> B" or
// "X connected to Y".
type TextProcessor struct{}

// NewTextProcessor creates a new text processor
func NewTextProcessor() *TextProcessor {
	return &TextProcessor{}
}

// GetName returns the name of the processor
func (p *TextProcessor) GetName() string {
	return "Text Processor"
}

// Common relationship separators, tried in order.
var separators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// ProcessData processes text data. Lines that match no separator are skipped.
func (p *TextProcessor) ProcessData(data []byte) (*models.Graph, error) {
	b := newBuilder()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, sep := range separators {
			parts := strings.Split(line, sep)
			if len(parts) == 2 {
				source := b.node(strings.TrimSpace(parts[0]), "")
				target := b.node(strings.TrimSpace(parts[1]), "")
				b.link(source, target, 1)
				break
			}
		}
	}
	return b.build("Text Import")
}

// builder collects implicitly declared nodes for the edge-list formats.
type builder struct {
	nodes []models.Node
	index map[string]int
	links []models.Link
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

// node declares id on first sight. A later non-empty group fills in a
// missing one.
func (b *builder) node(id, group string) string {
	if i, ok := b.index[id]; ok {
		if b.nodes[i].Group == "" {
			b.nodes[i].Group = group
		}
		return id
	}
	b.index[id] = len(b.nodes)
	b.nodes = append(b.nodes, models.Node{ID: id, Group: group})
	return id
}

func (b *builder) link(source, target string, value float64) {
	b.links = append(b.links, models.Link{Source: source, Target: target, Value: value})
}

func (b *builder) build(name string) (*models.Graph, error) {
	graph, err := models.Load(b.nodes, b.links)
	if err != nil {
		return nil, err
	}
	graph.Name = name
	return graph, nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	case "text", "txt", "log":
		return NewTextProcessor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// FormatOf guesses the format from a file extension.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ReadFile loads a graph from path. An empty format is inferred from the
// file extension.
func ReadFile(path, format string) (*models.Graph, error) {
	if format == "" {
		format = FormatOf(path)
	}
	processor, err := GetProcessor(format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}

	graph, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return graph, nil
}
