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
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

var (
	ErrMalformedArguments = errors.NotValidf("argument list")
	ErrMalformedMetric    = errors.NotValidf("metric")
)

// ExtractBracketedList parses "[a, b, c]" into its trimmed elements.
func ExtractBracketedList(line string) ([]string, error) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return nil, errors.Annotate(ErrMalformedArguments, line)
	}
	return splitList(line[1 : len(line)-1]), nil
}

// ExtractMetricValue turns "precision=0.300" into "0,300". Thousands separators are
// removed and the decimal point becomes a comma.
func ExtractMetricValue(token string) (string, error) {
	pos := strings.LastIndex(token, "=")
	if pos < 0 {
		return "", errors.Annotate(ErrMalformedMetric, token)
	}
	return localizeNumber(token[pos+1:]), nil
}

// FormatList renders args the way ExtractBracketedList reads them.
func FormatList(args []string) string {
	return "[" + strings.Join(args, ", ") + "]"
}

// stripEnclosing drops the first and the last character whatever they are.
func stripEnclosing(line string) []string {
	if len(line) < 2 {
		return []string{""}
	}
	return splitList(line[1 : len(line)-1])
}

func splitList(text string) []string {
	return lo.Map(strings.Split(text, ","), func(token string, _ int) string {
		return strings.TrimSpace(token)
	})
}

func localizeNumber(text string) string {
	text = strings.ReplaceAll(text, ",", "")
	return strings.ReplaceAll(text, ".", ",")
}
