package clean

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Recipe ops.
const (
	OpNormalizeNames = "normalize_names"
	OpNormalizeText  = "normalize_text"
	OpRename         = "rename"
	OpReplace        = "replace"
	OpDrop           = "drop"
	OpDedupe         = "dedupe"
	OpParseDate      = "parse_date"
	OpToNumeric      = "to_numeric"
)

// Step is one recipe entry. Columns is a mapping for rename and a list for drop and to_numeric.
type Step struct {
	Op      string    `yaml:"op"`
	Column  string    `yaml:"column,omitempty"`
	Ignore  []string  `yaml:"ignore,omitempty"`
	Old     any       `yaml:"old,omitempty"`
	New     any       `yaml:"new,omitempty"`
	Columns yaml.Node `yaml:"columns,omitempty"`

	names   []string
	mapping map[string]string
}

// Recipe is an ordered list of cleaning steps loaded from YAML.
type Recipe struct {
	Steps []Step `yaml:"steps"`
}

// LoadRecipe reads and validates a YAML recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	r, err := ParseRecipe(b)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}
	return r, nil
}

// ParseRecipe decodes and validates recipe YAML.
func ParseRecipe(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	for i := range r.Steps {
		if err := r.Steps[i].validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, r.Steps[i].Op, err)
		}
	}
	return &r, nil
}

func (s *Step) validate() error {
	switch s.Op {
	case OpNormalizeNames, OpNormalizeText, OpDedupe:
		return nil
	case OpReplace, OpParseDate:
		if s.Column == "" {
			return fmt.Errorf("column is required")
		}
		return nil
	case OpRename:
		if s.Columns.Kind != yaml.MappingNode {
			return fmt.Errorf("columns must map old names to new names")
		}
		return s.Columns.Decode(&s.mapping)
	case OpDrop, OpToNumeric:
		if s.Columns.Kind != yaml.SequenceNode {
			return fmt.Errorf("columns must be a list of names")
		}
		return s.Columns.Decode(&s.names)
	case "":
		return fmt.Errorf("op is required")
	}
	return fmt.Errorf("unknown op %q", s.Op)
}

// Apply runs every step in order against ds and collects the results.
func (r *Recipe) Apply(c *Cleaner, ds *dataset.Dataset) []Result {
	var out []Result
	for _, s := range r.Steps {
		switch s.Op {
		case OpNormalizeNames:
			out = append(out, c.NormalizeColumnNames(ds))
		case OpNormalizeText:
			out = append(out, c.NormalizeText(ds, s.Ignore...)...)
		case OpRename:
			out = append(out, c.RenameColumns(ds, s.mapping)...)
		case OpReplace:
			out = append(out, c.ReplaceValue(ds, s.Column, literalFor(ds, s.Column, s.Old), literalFor(ds, s.Column, s.New)))
		case OpDrop:
			out = append(out, c.DropColumns(ds, s.names...)...)
		case OpDedupe:
			out = append(out, c.DropDuplicates(ds))
		case OpParseDate:
			out = append(out, c.ParseSpanishDate(ds, s.Column))
		case OpToNumeric:
			out = append(out, c.CoerceNumeric(ds, s.names...)...)
		}
	}
	return out
}

// literalFor keeps YAML scalars as decoded, except that text columns compare against text.
func literalFor(ds *dataset.Dataset, column string, v any) any {
	col, ok := ds.Column(column)
	if !ok || v == nil || col.Kind != dataset.Text {
		return v
	}
	return dataset.Format(v)
}

// ParseLiteral converts a command-line value to the storage type of kind. Values that do not
// fit stay text; an empty string is null.
func ParseLiteral(kind dataset.Kind, s string) any {
	if s == "" {
		return nil
	}
	switch kind {
	case dataset.Int:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case dataset.Float:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case dataset.Date:
		if d, err := time.Parse(dataset.DateLayout, s); err == nil {
			return d
		}
	case dataset.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
