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

package result

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const Delimiter = ";"

// HeaderFields documents the expected shape of a row. It is not enforced.
var HeaderFields = []string{
	"-", "-", "-", "-",
	"jar", "main class", "task", "dataset", "model class", "algorithm class",
	"neighbourhood size", "relevant threshold",
	"start time", "-",
	"f1", "precision", "recall", "ndcg",
	"end time",
}

const durationField = "duration"

// Header returns the label row printed before any record.
func Header(duration bool) string {
	return strings.Join(headerFields(duration), Delimiter)
}

func headerFields(duration bool) []string {
	fields := append([]string(nil), HeaderFields...)
	if duration {
		fields = append(fields, durationField)
	}
	return fields
}

// Record is one experiment run rebuilt from a chunk of four lines.
type Record struct {
	Args    []string
	Label   string
	Metrics []string
	Trailer string
}

// Fields returns the output fields of the record in order. With duration, the time
// elapsed between the label and the trailer is appended in seconds.
func (r Record) Fields(duration bool) []string {
	fields := make([]string, 0, len(r.Args)+len(r.Metrics)+3)
	fields = append(fields, r.Args...)
	fields = append(fields, r.Label)
	fields = append(fields, r.Metrics...)
	fields = append(fields, r.Trailer)
	if duration {
		fields = append(fields, r.durationField())
	}
	return fields
}

// Format joins the fields of the record with Delimiter.
func (r Record) Format(duration bool) string {
	return strings.Join(r.Fields(duration), Delimiter)
}

// Duration parses the label and the trailer as timestamps and returns their difference.
func (r Record) Duration() (time.Duration, bool) {
	start, err := dateparse.ParseAny(strings.TrimSpace(r.Label))
	if err != nil {
		return 0, false
	}
	end, err := dateparse.ParseAny(strings.TrimSpace(r.Trailer))
	if err != nil {
		return 0, false
	}
	return end.Sub(start), true
}

func (r Record) durationField() string {
	d, ok := r.Duration()
	if !ok {
		return ""
	}
	return localizeNumber(strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
}
