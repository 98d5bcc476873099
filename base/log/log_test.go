// Copyright 2022 gorse Project Authors
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

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gorse.log")
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	assert.NoError(t, flagSet.Parse([]string{"--log-path", path}))

	SetLogger(flagSet, false)
	Logger().Info("hello", zap.String("name", "gorse"))
	// stderr may be a pipe that cannot be synced
	_ = Logger().Sync()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"name":"gorse"`)
}

func TestRedirectLogger(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	RedirectLogger(buf, true)
	Logger().Debug("debug message")
	Logger().Warn("warn message", zap.Int("count", 7))
	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), "7")

	buf.Reset()
	RedirectLogger(buf, false)
	Logger().Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCloseLogger(t *testing.T) {
	CloseLogger()
	assert.False(t, Logger().Core().Enabled(zap.ErrorLevel))
	assert.True(t, Logger().Core().Enabled(zap.FatalLevel))
}
