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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/experiment/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ratings.csv")
	var text strings.Builder
	text.WriteString("user,item,rating\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&text, "%d,%d,5\n", i, i*2)
	}
	require.NoError(t, os.WriteFile(input, []byte(text.String()), 0644))
	prefix := filepath.Join(dir, "ratings")

	cmd := newSplitCommand()
	cmd.SetArgs([]string{"--dataset-in", input, "--dataset_out_prefix", prefix, "--folds", "4", "--seed", "42"})
	require.NoError(t, cmd.Execute())

	var tests []string
	for i := 0; i < 4; i++ {
		test, err := dataset.LoadDataset(dataset.TestPath(prefix, i))
		require.NoError(t, err)
		training, err := dataset.LoadDataset(dataset.TrainingPath(prefix, i))
		require.NoError(t, err)
		assert.Equal(t, "user,item,rating\n", test.Header)
		assert.Equal(t, "user,item,rating\n", training.Header)
		assert.Equal(t, 20, test.Count()+training.Count())
		tests = append(tests, test.Records...)
	}
	assert.Len(t, tests, 20)
	_, err := os.Stat(dataset.TestPath(prefix, 4))
	assert.True(t, os.IsNotExist(err))

	// same seed, same folds
	first, err := os.ReadFile(dataset.TestPath(prefix, 0))
	require.NoError(t, err)
	cmd = newSplitCommand()
	cmd.SetArgs([]string{"--dataset_in", input, "--dataset_out_prefix", prefix, "-k", "4", "--seed", "42"})
	require.NoError(t, cmd.Execute())
	second, err := os.ReadFile(dataset.TestPath(prefix, 0))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	cmd := newSplitCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"--dataset_out_prefix", filepath.Join(dir, "x")})
	assert.Error(t, cmd.Execute())

	cmd = newSplitCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"--dataset_in", filepath.Join(dir, "missing.csv"), "--dataset_out_prefix", filepath.Join(dir, "x")})
	assert.Error(t, cmd.Execute())
}

func TestSplitCommand_Version(t *testing.T) {
	cmd := newSplitCommand()
	buf := bytes.NewBuffer(nil)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "gorse-split")
}
