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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHeaderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("user,item\n1,2\n3,4\n"), 0644))

	cmd := newDatasetCommand()
	cmd.SetArgs([]string{"strip-header", "--dataset-in", input, "--dataset_out", output})
	require.NoError(t, cmd.Execute())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n3,4\n", string(data))

	// empty input
	require.NoError(t, os.WriteFile(input, nil, 0644))
	cmd = newDatasetCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"strip-header", "--dataset_in", input, "--dataset_out", output})
	assert.Error(t, cmd.Execute())
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.dat")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("1\t2\t5\n3\t4\t1\n"), 0644))

	cmd := newDatasetCommand()
	cmd.SetArgs([]string{"convert", "--dataset_in", input, "--dataset_out", output,
		"--delimiter_in", `\t`, "--delimiter-out", ","})
	require.NoError(t, cmd.Execute())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,2,5\n3,4,1\n", string(data))
}

func TestDatasetCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	for _, args := range [][]string{
		{"strip-header", "--dataset_in", path},
		{"strip-header", "--dataset_in", path, "--dataset_out", path},
		{"convert", "--dataset_in", filepath.Join(dir, "missing.csv"), "--dataset_out", path},
	} {
		cmd := newDatasetCommand()
		cmd.SetOut(bytes.NewBuffer(nil))
		cmd.SetErr(bytes.NewBuffer(nil))
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}

func TestUnescapeDelimiter(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("delimiter", "", "")
	for text, expected := range map[string]string{`\t`: "\t", ",": ",", "::": "::", `\\`: `\`} {
		require.NoError(t, flags.Set("delimiter", text))
		delimiter, err := unescapeDelimiter(flags, "delimiter")
		assert.NoError(t, err)
		assert.Equal(t, expected, delimiter)
	}
	require.NoError(t, flags.Set("delimiter", `\q`))
	_, err := unescapeDelimiter(flags, "delimiter")
	assert.Error(t, err)
}

func TestDatasetCommand_Version(t *testing.T) {
	cmd := newDatasetCommand()
	buf := bytes.NewBuffer(nil)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-v"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "gorse-dataset")
}
