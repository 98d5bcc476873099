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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestExtractBracketedList(t *testing.T) {
	args, err := ExtractBracketedList("[java, -Xmx4096m, RecA]")
	assert.NoError(t, err)
	assert.Equal(t, []string{"java", "-Xmx4096m", "RecA"}, args)

	args, err = ExtractBracketedList("[]")
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, args)

	args, err = ExtractBracketedList("[ a ,b,, c ]")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, args)

	for _, line := range []string{"", "[", "java, RecA]", "[java, RecA", "(java)"} {
		_, err = ExtractBracketedList(line)
		assert.True(t, errors.Is(err, ErrMalformedArguments), line)
	}
}

func TestExtractMetricValue(t *testing.T) {
	cases := map[string]string{
		"f1=0.500":          "0,500",
		"precision=0.300":   "0,300",
		"time=1,234.5":      "1234,5",
		"a=b=0.1":           "0,1",
		"ndcg=":             "",
		"=7":                "7",
		"recall=0.25,":      "0,25",
		"LEARNING.time=3.0": "3,0",
	}
	for token, expected := range cases {
		value, err := ExtractMetricValue(token)
		assert.NoError(t, err, token)
		assert.Equal(t, expected, value, token)
	}

	_, err := ExtractMetricValue("0.5")
	assert.True(t, errors.Is(err, ErrMalformedMetric))
	_, err = ExtractMetricValue("")
	assert.True(t, errors.Is(err, ErrMalformedMetric))
}

func TestFormatList(t *testing.T) {
	args := []string{"java", "-Xmx4096m", "-cp", "./recommender.jar"}
	assert.Equal(t, "[java, -Xmx4096m, -cp, ./recommender.jar]", FormatList(args))
	parsed, err := ExtractBracketedList(FormatList(args))
	assert.NoError(t, err)
	assert.Equal(t, args, parsed)
}

func TestStripEnclosing(t *testing.T) {
	assert.Equal(t, []string{"java", "RecA"}, stripEnclosing("(java, RecA)"))
	assert.Equal(t, []string{""}, stripEnclosing("x"))
	assert.Equal(t, []string{""}, stripEnclosing(""))
}
