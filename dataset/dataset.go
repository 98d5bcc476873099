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

// Package dataset splits delimited rating datasets into cross-validation folds and
// reformats them. Records are handled as opaque lines and never parsed into fields,
// except by ConvertDelimiter.
package dataset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
)

var ErrEmptyDataset = errors.NotValidf("dataset without header")

// Dataset is a header line followed by data records. Every line keeps its terminator.
type Dataset struct {
	Header  string
	Records []string
}

// Count returns the number of data records.
func (d *Dataset) Count() int {
	return len(d.Records)
}

// ReadDataset reads all lines from r. The first line becomes the header.
func ReadDataset(r io.Reader) (*Dataset, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(lines) == 0 {
		return nil, errors.Trace(ErrEmptyDataset)
	}
	return &Dataset{Header: lines[0], Records: lines[1:]}, nil
}

// LoadDataset reads the dataset stored at path.
func LoadDataset(path string) (*Dataset, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	dataset, err := ReadDataset(file)
	if err != nil {
		return nil, errors.Annotate(err, path)
	}
	return dataset, nil
}

// readLines splits r into lines, keeping "\n" or "\r\n" on each of them. A last line
// without terminator gets "\n" so lines can be concatenated safely.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		} else if err != nil {
			return nil, err
		}
	}
}

func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.NotFoundf("dataset %s", path)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	return file, nil
}

// writeLines creates path and writes the lines into it. The file is closed on every path
// and a failed close is reported.
func writeLines(path string, groups ...[]string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Trace(closeErr)
		}
	}()
	writer := bufio.NewWriter(file)
	for _, lines := range groups {
		for _, line := range lines {
			if _, err = writer.WriteString(line); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return errors.Trace(writer.Flush())
}
