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
	"bufio"
	"os"

	"github.com/gorse-io/experiment/base"
	"github.com/gorse-io/experiment/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const maxLineSize = 1024 * 1024

// StripHeader copies every line of input except the first one to output. Stripping an
// empty file fails with ErrEmptyDataset.
func StripHeader(input, output string) error {
	dataset, err := LoadDataset(input)
	if err != nil {
		return errors.Trace(err)
	}
	if err = writeLines(output, dataset.Records); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("strip header",
		zap.String("dataset_in", input),
		zap.String("dataset_out", output),
		zap.String("header", dataset.Header))
	return nil
}

// ConvertDelimiter rewrites input with fields separated by to instead of from. Quoted
// fields are understood and fields are quoted again when they contain the new delimiter.
// It returns the number of rows written.
func ConvertDelimiter(input, output, from, to string) (count int, err error) {
	if from == "" {
		return 0, errors.NotValidf("empty input delimiter")
	}
	if to == "" {
		return 0, errors.NotValidf("empty output delimiter")
	}
	in, err := openInput(input)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	out, err := os.Create(output)
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = errors.Trace(closeErr)
		}
	}()

	writer := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var writeErr error
	if err = base.ReadLines(scanner, from, func(_ int, fields []string) bool {
		if _, writeErr = writer.WriteString(base.JoinFields(fields, to) + "\n"); writeErr != nil {
			return false
		}
		count++
		return true
	}); err != nil {
		return count, errors.Annotate(err, input)
	}
	if writeErr != nil {
		return count, errors.Trace(writeErr)
	}
	if err = writer.Flush(); err != nil {
		return count, errors.Trace(err)
	}
	log.Logger().Info("convert delimiter",
		zap.String("dataset_in", input),
		zap.String("dataset_out", output),
		zap.Int("n_rows", count))
	return count, nil
}
