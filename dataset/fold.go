// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"fmt"

	"github.com/gorse-io/experiment/base"
	"github.com/gorse-io/experiment/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const DefaultFolds = 10

// Folds is a partition of the records of a dataset into k disjoint folds.
type Folds struct {
	header string
	folds  [][]string
}

// Split assigns every record to one of k folds drawn uniformly from rng. Records keep
// their encounter order inside a fold.
func (d *Dataset) Split(k int, rng base.RandomGenerator) (*Folds, error) {
	if k < 2 {
		return nil, errors.NotValidf("number of folds %d", k)
	}
	folds := &Folds{
		header: d.Header,
		folds:  make([][]string, k),
	}
	for i, fold := range rng.Assign(len(d.Records), k) {
		folds.folds[fold] = append(folds.folds[fold], d.Records[i])
	}
	return folds, nil
}

// Header returns the header line shared by all output files.
func (f *Folds) Header() string {
	return f.header
}

// Len returns the number of folds.
func (f *Folds) Len() int {
	return len(f.folds)
}

// Test returns the records of fold i.
func (f *Folds) Test(i int) []string {
	return f.folds[i]
}

// Training returns the records of every fold except i, in increasing fold order.
func (f *Folds) Training(i int) []string {
	var records []string
	for j, fold := range f.folds {
		if j != i {
			records = append(records, fold...)
		}
	}
	return records
}

// Save writes a test file and a training file for every fold. Both start with the header.
func (f *Folds) Save(prefix string) error {
	for i := range f.folds {
		header := []string{f.header}
		if err := writeLines(TestPath(prefix, i), header, f.Test(i)); err != nil {
			return errors.Trace(err)
		}
		if err := writeLines(TrainingPath(prefix, i), header, f.Training(i)); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Debug("save fold",
			zap.Int("fold", i),
			zap.Int("n_test", len(f.folds[i])),
			zap.String("test", TestPath(prefix, i)),
			zap.String("training", TrainingPath(prefix, i)))
	}
	return nil
}

// TestPath returns the path of the test file of fold i.
func TestPath(prefix string, i int) string {
	return fmt.Sprintf("%s%d_test.csv", prefix, i)
}

// TrainingPath returns the path of the training file of fold i.
func TrainingPath(prefix string, i int) string {
	return fmt.Sprintf("%s%d_training.csv", prefix, i)
}

// SplitFile splits the dataset at input into k folds and saves 2k files under prefix.
func SplitFile(input, prefix string, k int, rng base.RandomGenerator) (*Folds, error) {
	dataset, err := LoadDataset(input)
	if err != nil {
		return nil, errors.Trace(err)
	}
	folds, err := dataset.Split(k, rng)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = folds.Save(prefix); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("split dataset",
		zap.String("dataset", input),
		zap.Int("n_records", dataset.Count()),
		zap.Int("n_folds", k))
	return folds, nil
}
