// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// A timing experiment: generates inputs, times selections and summarizes the results
type Experiment interface {
	GetType() string
	NumTrials() int
	LargestInput() int
	Run(c *Context) (*Result, error)
}

// Upper bound on the elements an experiment processes: timed calls times the largest input length
func Work(e Experiment) int64 {
	return int64(e.NumTrials()) * int64(e.LargestInput())
}

// Base type for experiments, including type information for JSON serializing/deserializing
type ExpBase struct {
	Type string `json:"type" yaml:"type"`
}

func (e *ExpBase) GetType() string { return e.Type }

// Factory method for experiments. For JSON and YAML deserializing
type ExperimentFactory func() Experiment

// Mapping from experiment type strings to factory method for the type
var experimentFactories = map[string]ExperimentFactory{}

// Returns the experiment factory for a given type string
func GetExperimentFactory(t string) ExperimentFactory {
	return experimentFactories[t]
}

// Registers a given type string for a given type of experiment, identified via an exemplar generator
func SetExperimentFactory(f ExperimentFactory) {
	e := f()
	t := e.GetType()
	if GetExperimentFactory(t) != nil {
		panic(fmt.Sprintf("error: re-registering experiment key %s\n", t))
	}
	experimentFactories[t] = f
}

// Returns the registered experiment types in alphabetical order
func ExperimentTypes() []string {
	ts := make([]string, 0, len(experimentFactories))
	for t := range experimentFactories {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}

// Creates an experiment of the given type with default settings
func NewExperiment(t string) (Experiment, error) {
	factory := GetExperimentFactory(t)
	if factory == nil {
		return nil, errors.Errorf("unknown experiment type '%s', want one of %v", t, ExperimentTypes())
	}
	return factory(), nil
}

// Decodes a polymorphic experiment from JSON. Fields missing in the
// message keep the defaults of the experiment type.
func UnmarshalExperiment(b []byte) (Experiment, error) {
	var base ExpBase
	if err := json.Unmarshal(b, &base); err != nil {
		return nil, errors.Wrap(err, "decoding experiment type")
	}
	e, err := NewExperiment(base.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, errors.Wrapf(err, "decoding %s experiment", base.Type)
	}
	return e, nil
}

// Decodes a polymorphic experiment from YAML
func UnmarshalExperimentYAML(b []byte) (Experiment, error) {
	var base ExpBase
	if err := yaml.Unmarshal(b, &base); err != nil {
		return nil, errors.Wrap(err, "decoding experiment type")
	}
	e, err := NewExperiment(base.Type)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(b, e); err != nil {
		return nil, errors.Wrapf(err, "decoding %s experiment", base.Type)
	}
	return e, nil
}

// Loads an experiment plan from a .json, .yaml or .yml file
func LoadExperiment(fileName string) (Experiment, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "reading experiment plan")
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		return UnmarshalExperiment(b)
	case ".yaml", ".yml":
		return UnmarshalExperimentYAML(b)
	}
	return nil, errors.Errorf("unknown suffix for experiment plan %s", fileName)
}

func checkSizes(sizes []int, trials int) error {
	if len(sizes) == 0 {
		return errors.New("no input sizes given")
	}
	if trials < 1 {
		return errors.Errorf("%d trials per size, need at least 1", trials)
	}
	return nil
}

func largest(sizes []int) int {
	m := 0
	for _, n := range sizes {
		m = max(m, n)
	}
	return m
}
