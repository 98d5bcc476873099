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
	"io"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// WriteTable renders records as an aligned table. Rows are padded to the widest of the
// header and the records since the field count is not enforced.
func WriteTable(w io.Writer, records []Record, duration bool) error {
	header := headerFields(duration)
	rows := lo.Map(records, func(record Record, _ int) []string {
		return record.Fields(duration)
	})
	width := lo.Max(append(lo.Map(rows, func(row []string, _ int) int {
		return len(row)
	}), len(header)))
	pad := func(fields []string) []string {
		return append(fields, make([]string, width-len(fields))...)
	}

	table := tablewriter.NewWriter(w)
	table.Header(lo.ToAnySlice(pad(header))...)
	if err := table.Bulk(lo.Map(rows, func(row []string, _ int) []string {
		return pad(row)
	})); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(table.Render())
}
