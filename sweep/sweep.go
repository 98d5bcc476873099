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

package sweep

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/gorse-io/experiment/base/log"
	"github.com/gorse-io/experiment/result"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Failure is an invocation that exited non-zero or could not start.
type Failure struct {
	Index    int
	Command  []string
	ExitCode int
	Err      error
}

type Summary struct {
	ID uuid.UUID
	// Total counts invocations, skipped combinations excluded.
	Total     int
	Succeeded int
	Skipped   int
	Failures  []Failure
}

func (s *Summary) Failed() int {
	return len(s.Failures)
}

// ExitCodes returns the distinct exit codes of failed invocations.
func (s *Summary) ExitCodes() mapset.Set[int] {
	return mapset.NewSet(lo.Map(s.Failures, func(f Failure, _ int) int {
		return f.ExitCode
	})...)
}

// WriteFailures renders failed invocations as a table.
func (s *Summary) WriteFailures(w io.Writer) error {
	rows := lo.Map(s.Failures, func(failure Failure, _ int) []string {
		message := ""
		if failure.Err != nil {
			message = failure.Err.Error()
		}
		return []string{
			strconv.Itoa(failure.Index),
			strconv.Itoa(failure.ExitCode),
			message,
			result.FormatList(failure.Command),
		}
	})
	table := tablewriter.NewWriter(w)
	table.Header("#", "exit code", "error", "command")
	if err := table.Bulk(rows); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(table.Render())
}

// Sweep invokes the engine once per accepted combination of a plan, sequentially.
type Sweep struct {
	plan     *Plan
	runner   Runner
	echo     io.Writer
	failFast bool
	progress io.Writer
}

// NewSweep creates a sweep. The argument list of every invocation is written to echo
// before it starts, in the format gorse-parse reads back.
func NewSweep(plan *Plan, runner Runner, echo io.Writer) *Sweep {
	return &Sweep{plan: plan, runner: runner, echo: echo}
}

// SetFailFast stops the sweep at the first failed invocation.
func (s *Sweep) SetFailFast(failFast bool) {
	s.failFast = failFast
}

// SetProgress draws a progress bar on w.
func (s *Sweep) SetProgress(w io.Writer) {
	s.progress = w
}

func (s *Sweep) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{ID: uuid.New()}
	logger := log.Logger().With(zap.String("sweep_id", summary.ID.String()))
	combinations := s.plan.Enumerate()
	logger.Info("start sweep", zap.Int("n_combinations", len(combinations)))

	var bar *progressbar.ProgressBar
	if s.progress != nil {
		bar = progressbar.NewOptions(len(combinations),
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription("sweep"),
			progressbar.OptionShowCount())
		defer bar.Finish()
	}
	advance := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	for i, c := range combinations {
		if err := ctx.Err(); err != nil {
			return summary, errors.Trace(err)
		}
		accepted, err := s.plan.Accept(c)
		if err != nil {
			return summary, errors.Annotatef(err, "combination %d", i)
		}
		if !accepted {
			summary.Skipped++
			advance()
			continue
		}

		command := s.plan.Command(c)
		if _, err = fmt.Fprintln(s.echo, result.FormatList(command)); err != nil {
			return summary, errors.Trace(err)
		}
		summary.Total++
		exitCode, err := s.runner.Run(ctx, command[0], command[1:]...)
		advance()
		if exitCode == 0 && err == nil {
			summary.Succeeded++
			continue
		}
		summary.Failures = append(summary.Failures, Failure{
			Index:    i,
			Command:  command,
			ExitCode: exitCode,
			Err:      err,
		})
		logger.Warn("invocation failed",
			zap.Int("index", i),
			zap.Strings("command", command),
			zap.Int("exit_code", exitCode),
			zap.Error(err))
		if s.failFast {
			break
		}
	}

	exitCodes := summary.ExitCodes().ToSlice()
	slices.Sort(exitCodes)
	logger.Info("complete sweep",
		zap.Int("n_invoked", summary.Total),
		zap.Int("n_succeeded", summary.Succeeded),
		zap.Int("n_failed", summary.Failed()),
		zap.Int("n_skipped", summary.Skipped),
		zap.Ints("exit_codes", exitCodes))
	return summary, nil
}

// DryRun writes the argument list of every accepted combination to w and returns how
// many there are.
func (s *Sweep) DryRun(w io.Writer) (int, error) {
	count := 0
	for i, c := range s.plan.Enumerate() {
		accepted, err := s.plan.Accept(c)
		if err != nil {
			return count, errors.Annotatef(err, "combination %d", i)
		}
		if !accepted {
			continue
		}
		if _, err = fmt.Fprintln(w, result.FormatList(s.plan.Command(c))); err != nil {
			return count, errors.Trace(err)
		}
		count++
	}
	return count, nil
}
