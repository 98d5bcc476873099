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

// Package result scrapes experiment runs out of the console log of an evaluation engine.
// Every run spans four lines: the argument list, the start time, the metrics and the end
// time.
package result

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gorse-io/experiment/base/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const ChunkSize = 4

// RemainderPolicy decides what happens to lines left after the last complete chunk.
type RemainderPolicy string

const (
	RemainderDrop  RemainderPolicy = "drop"
	RemainderError RemainderPolicy = "error"
	RemainderPad   RemainderPolicy = "pad"
)

var RemainderPolicies = []RemainderPolicy{RemainderDrop, RemainderError, RemainderPad}

var ErrPartialChunk = errors.NotValidf("partial chunk")

// ParseRemainderPolicy validates a policy name.
func ParseRemainderPolicy(name string) (RemainderPolicy, error) {
	policy := RemainderPolicy(name)
	if !lo.Contains(RemainderPolicies, policy) {
		return "", errors.NotValidf("remainder policy %q", name)
	}
	return policy, nil
}

type Options struct {
	// NoisePrefixes lists prefixes of lines dropped before chunking.
	NoisePrefixes []string
	Remainder     RemainderPolicy
	// Strict makes extraction failures fatal instead of falling back to best effort.
	Strict bool
}

func DefaultOptions() Options {
	return Options{
		NoisePrefixes: []string{"log4j"},
		Remainder:     RemainderDrop,
	}
}

// Filter drops empty lines and lines starting with a noise prefix.
func Filter(lines []string, noisePrefixes []string) []string {
	return lo.Filter(lines, func(line string, _ int) bool {
		if len(line) == 0 {
			return false
		}
		return !lo.SomeBy(noisePrefixes, func(prefix string) bool {
			return strings.HasPrefix(line, prefix)
		})
	})
}

// Chunk groups lines into consecutive chunks of ChunkSize lines.
func Chunk(lines []string, policy RemainderPolicy) ([][]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	remainder := len(lines) % ChunkSize
	if remainder != 0 {
		log.Logger().Warn("number of lines is indivisible by chunk size",
			zap.Int("n_lines", len(lines)),
			zap.Int("chunk_size", ChunkSize),
			zap.String("remainder_policy", string(policy)))
	}
	chunks := lo.Chunk(lines, ChunkSize)
	if remainder == 0 {
		return chunks, nil
	}
	switch policy {
	case RemainderDrop, "":
		return chunks[:len(chunks)-1], nil
	case RemainderError:
		return nil, errors.Annotatef(ErrPartialChunk, "%d lines left after %d chunks of %d lines",
			remainder, len(chunks)-1, ChunkSize)
	case RemainderPad:
		last := chunks[len(chunks)-1]
		chunks[len(chunks)-1] = append(last, make([]string, ChunkSize-len(last))...)
		return chunks, nil
	default:
		return nil, errors.NotValidf("remainder policy %q", policy)
	}
}

// ParseChunk extracts a record from a chunk of ChunkSize lines.
func ParseChunk(chunk []string, strict bool) (Record, error) {
	if len(chunk) != ChunkSize {
		return Record{}, errors.Annotatef(ErrPartialChunk, "%d lines", len(chunk))
	}
	record := Record{Label: chunk[1], Trailer: chunk[3]}

	args, err := ExtractBracketedList(chunk[0])
	if err != nil {
		if strict {
			return Record{}, errors.Trace(err)
		}
		log.Logger().Warn("fall back to best effort argument list", zap.String("line", chunk[0]))
		args = stripEnclosing(chunk[0])
	}
	record.Args = args

	for _, token := range strings.Split(chunk[2], " ") {
		value, err := ExtractMetricValue(token)
		if err != nil {
			if strict {
				return Record{}, errors.Trace(err)
			}
			log.Logger().Warn("fall back to best effort metric", zap.String("token", token))
			value = localizeNumber(token)
		}
		record.Metrics = append(record.Metrics, value)
	}
	return record, nil
}

// Parse reads a log and returns one record per chunk.
func Parse(r io.Reader, opts Options) ([]Record, error) {
	if lo.Contains(opts.NoisePrefixes, "") {
		return nil, errors.NotValidf("empty noise prefix")
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	chunks, err := Chunk(Filter(lines, opts.NoisePrefixes), opts.Remainder)
	if err != nil {
		return nil, errors.Trace(err)
	}
	records := make([]Record, 0, len(chunks))
	for i, chunk := range chunks {
		record, err := ParseChunk(chunk, opts.Strict)
		if err != nil {
			return nil, errors.Annotatef(err, "chunk %d", i)
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseFile parses the log stored at path.
func ParseFile(path string, opts Options) ([]Record, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.NotFoundf("result file %s", path)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	records, err := Parse(file, opts)
	if err != nil {
		return nil, errors.Annotate(err, path)
	}
	return records, nil
}

// WriteRows writes the header and one delimited row per record.
func WriteRows(w io.Writer, records []Record, duration bool) error {
	if _, err := fmt.Fprintln(w, Header(duration)); err != nil {
		return errors.Trace(err)
	}
	for _, record := range records {
		if _, err := fmt.Fprintln(w, record.Format(duration)); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
