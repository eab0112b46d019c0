// Package script runs declarative sequences of bounded array operations.
//
// A script names a set of uint32 arrays with fixed capacities and lists
// the steps to run against them:
//
//	arrays:
//	  - name: a
//	    capacity: 10
//	    seed: [1, 2, 3]
//	  - name: b
//	    capacity: 4
//	steps:
//	  - {op: append, array: a, values: [4, 5]}
//	  - {op: resize, array: a, n: 8}
//	  - {op: slice, array: a, start: 1, end: 4, into: b}
//
// All arrays are carved from one Region sized for the script, so a run
// performs no allocation per array.
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/bounded"
)

var (
	// ErrUnknownOp is returned for a step whose op is not recognized.
	ErrUnknownOp = errors.New("script: unknown op")
	// ErrUnknownArray is returned when a step names an undeclared array.
	ErrUnknownArray = errors.New("script: unknown array")
	// ErrInvalid is returned for malformed array declarations.
	ErrInvalid = errors.New("script: invalid script")
)

// MaxElements bounds the total capacity of all arrays in one script.
const MaxElements = 1 << 24

// Ops lists the recognized step operations.
var Ops = []string{
	"append", "copy", "resize", "clear", "push", "pop",
	"get", "set", "append_array", "replace", "slice",
}

// Script is a parsed script file.
type Script struct {
	Arrays []ArraySpec `yaml:"arrays"`
	Steps  []StepSpec  `yaml:"steps"`
}

// ArraySpec declares one array.
type ArraySpec struct {
	Name     string   `yaml:"name"`
	Capacity int      `yaml:"capacity"`
	Seed     []uint32 `yaml:"seed"`
}

// StepSpec is one operation. Which fields matter depends on Op.
type StepSpec struct {
	Op     string   `yaml:"op"`
	Array  string   `yaml:"array"`
	From   string   `yaml:"from"`  // append_array, replace
	Into   string   `yaml:"into"`  // slice
	Index  int      `yaml:"index"` // copy, get, set
	N      int      `yaml:"n"`     // resize
	Start  int      `yaml:"start"` // slice
	End    int      `yaml:"end"`   // slice
	Value  uint32   `yaml:"value"` // push, set
	Values []uint32 `yaml:"values"`
}

// Step records the outcome of one executed step.
type Step struct {
	Index int    `json:"index"`
	Op    string `json:"op"`
	Array string `json:"array"`
	OK    bool   `json:"ok"`              // the step changed or found something
	Count int    `json:"count,omitempty"` // elements written or resulting length
	Value uint32 `json:"value"`           // get, pop
	Len   int    `json:"len"`             // length of Array after the step
}

// Load parses a script. Unknown fields are rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	return &s, nil
}

// LoadFile parses the script at path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Runner executes a Script against freshly initialized arrays.
type Runner struct {
	script *Script
	region *bounded.Region
	arrays map[string]*bounded.Array[uint32]
	names  []string
	logger *slog.Logger
}

// NewRunner validates s and sets up its arrays. A nil logger discards
// log output.
func NewRunner(s *Script, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	total := 0
	seen := make(map[string]bool, len(s.Arrays))
	for _, spec := range s.Arrays {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: array without a name", ErrInvalid)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: array %q declared twice", ErrInvalid, spec.Name)
		}
		if spec.Capacity < 0 {
			return nil, fmt.Errorf("%w: array %q has negative capacity", ErrInvalid, spec.Name)
		}
		if spec.Capacity > MaxElements-total {
			return nil, fmt.Errorf("%w: array %q takes the total capacity past %d elements",
				ErrInvalid, spec.Name, MaxElements)
		}
		seen[spec.Name] = true
		total += spec.Capacity
	}

	r := &Runner{
		script: s,
		// One alignment slot of slack per array.
		region: bounded.NewRegion(make([]byte, (total+len(s.Arrays))*4)),
		arrays: make(map[string]*bounded.Array[uint32], len(s.Arrays)),
		logger: logger,
	}
	for _, spec := range s.Arrays {
		backing := bounded.Carve[uint32](r.region, spec.Capacity)
		if spec.Capacity > 0 && backing == nil {
			return nil, fmt.Errorf("%w: no room for array %q", ErrInvalid, spec.Name)
		}
		a := new(bounded.Array[uint32])
		a.Init(backing, spec.Seed)
		if len(spec.Seed) > a.Len() {
			logger.Warn("seed clamped to capacity",
				"array", spec.Name, "seed", len(spec.Seed), "capacity", spec.Capacity)
		}
		r.arrays[spec.Name] = a
		r.names = append(r.names, spec.Name)
	}
	logger.Debug("arrays ready",
		"count", len(r.names), "bytes", r.region.SizeInUse())
	return r, nil
}

// Names returns the declared array names in declaration order.
func (r *Runner) Names() []string {
	return r.names
}

// Array returns the named array, or nil.
func (r *Runner) Array(name string) *bounded.Array[uint32] {
	return r.arrays[name]
}

// Run executes every step in order and returns their outcomes. It stops
// at the first step that names an unknown op or array; the steps run so
// far are returned with the error.
func (r *Runner) Run() ([]Step, error) {
	steps := make([]Step, 0, len(r.script.Steps))
	for i, spec := range r.script.Steps {
		st, err := r.exec(spec)
		if err != nil {
			return steps, fmt.Errorf("step %d (%s): %w", i, spec.Op, err)
		}
		st.Index = i
		r.logger.Debug("step",
			"index", i, "op", st.Op, "array", st.Array,
			"ok", st.OK, "count", st.Count, "len", st.Len)
		steps = append(steps, st)
	}
	r.logger.Info("script finished", "steps", len(steps), "arrays", len(r.names))
	return steps, nil
}

func (r *Runner) lookup(name string) (*bounded.Array[uint32], error) {
	a, ok := r.arrays[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArray, name)
	}
	return a, nil
}

func (r *Runner) exec(spec StepSpec) (Step, error) {
	st := Step{Op: spec.Op, Array: spec.Array}
	a, err := r.lookup(spec.Array)
	if err != nil {
		return st, err
	}

	switch spec.Op {
	case "append":
		st.Count = a.Append(spec.Values...)
		st.OK = st.Count > 0
	case "copy":
		st.Count = a.CopyAt(spec.Index, spec.Values)
		st.OK = st.Count > 0
	case "resize":
		st.Count = a.Resize(spec.N)
		st.OK = st.Count == spec.N
	case "clear":
		a.Clear()
		st.OK = true
	case "push":
		st.OK = a.Push(spec.Value)
	case "pop":
		st.Value, st.OK = a.Pop()
	case "get":
		st.Value, st.OK = a.At(spec.Index)
	case "set":
		st.OK = a.Set(spec.Index, spec.Value)
	case "append_array":
		from, err := r.lookup(spec.From)
		if err != nil {
			return st, err
		}
		st.OK = a.AppendArray(from)
	case "replace":
		from, err := r.lookup(spec.From)
		if err != nil {
			return st, err
		}
		st.Count = a.Replace(from)
		st.OK = st.Count == from.Len()
	case "slice":
		into, err := r.lookup(spec.Into)
		if err != nil {
			return st, err
		}
		st.OK = a.SliceInto(spec.Start, spec.End, into)
	default:
		return st, fmt.Errorf("%w: %q", ErrUnknownOp, spec.Op)
	}
	st.Len = a.Len()
	return st, nil
}
