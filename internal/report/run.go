// Package report keeps the manifest of one datalens run: the source dataset, the cleaning
// steps applied and every artifact written.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/datalens-cli/internal/clean"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

const manifestFileName = "manifest.json"

// Run is the manifest persisted as manifest.json in the output directory.
type Run struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Steps     []Step     `json:"steps,omitempty"`
	Artifacts []Artifact `json:"artifacts"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Not serialized: directory holding manifest.json
	dir string
}

// NewRun constructs an in-memory manifest for source. Call Save() to persist.
func NewRun(source, dir string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
		dir:       dir,
	}
}

// Load reads manifest.json from dir.
func Load(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	r.dir = dir
	return &r, nil
}

// Dir returns the output directory.
func (r *Run) Dir() string { return r.dir }

// Add records a written file. Paths inside the output directory are stored relative to it.
func (r *Run) Add(kind, path, title string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	rel := path
	if r.dir != "" {
		if p, err := filepath.Rel(r.dir, path); err == nil && filepath.IsLocal(p) {
			rel = p
		}
	}
	a := Artifact{
		ID:        uuid.NewString(),
		Kind:      kind,
		Path:      rel,
		Title:     title,
		Bytes:     info.Size(),
		CreatedAt: info.ModTime(),
	}
	r.Artifacts = append(r.Artifacts, a)
	r.UpdatedAt = time.Now()
	return &r.Artifacts[len(r.Artifacts)-1], nil
}

// RecordSteps appends cleaning results in the order they ran.
func (r *Run) RecordSteps(results []clean.Result) {
	for _, res := range results {
		s := Step{Op: res.Op, Column: res.Column, Status: res.Status.String(), Count: res.Count}
		if res.Err != nil {
			s.Error = res.Err.Error()
		}
		r.Steps = append(r.Steps, s)
	}
}

// ArtifactsByKind returns artifacts of one kind ordered by path.
func (r *Run) ArtifactsByKind(kind string) []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Save writes manifest.json using atomic write.
func (r *Run) Save() error {
	if r.dir == "" {
		return errors.New("run output directory not set")
	}
	if err := utils.EnsureDir(r.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	r.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.dir, manifestFileName), data)
}
