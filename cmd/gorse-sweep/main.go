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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gorse-io/experiment/base/log"
	"github.com/gorse-io/experiment/cmd/version"
	"github.com/gorse-io/experiment/config"
	"github.com/gorse-io/experiment/sweep"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSweepCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "gorse-sweep",
		Short: "Run an evaluation engine over a grid of hyper-parameters and folds.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			flags := cmd.Flags()
			// Show version
			if showVersion, _ := flags.GetBool("version"); showVersion {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo(cmd.Name()))
				return err
			}
			// setup logger
			debug, _ := flags.GetBool("debug")
			log.SetLogger(flags, debug)

			// Load config
			configPath, _ := flags.GetString("config")
			if configPath == "" {
				return errors.NotValidf("empty --config")
			}
			log.Logger().Info("load config", zap.String("config", configPath))
			conf, err := config.LoadConfig(configPath)
			if err != nil {
				return errors.Trace(err)
			}
			plan, err := sweep.NewPlan(conf)
			if err != nil {
				return errors.Trace(err)
			}

			if dryRun, _ := flags.GetBool("dry-run"); dryRun {
				count, err := sweep.NewSweep(plan, nil, nil).DryRun(cmd.OutOrStdout())
				if err != nil {
					return errors.Trace(err)
				}
				log.Logger().Info("dry run", zap.Int("n_invocations", count))
				return nil
			}

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if conf.LogOutput != "" {
				var file *os.File
				file, err = os.OpenFile(conf.LogOutput, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
				if err != nil {
					return errors.Trace(err)
				}
				defer func() {
					if closeErr := file.Close(); closeErr != nil && err == nil {
						err = errors.Trace(closeErr)
					}
				}()
				stdout, stderr = io.MultiWriter(stdout, file), io.MultiWriter(stderr, file)
			}
			s := sweep.NewSweep(plan, sweep.ExecRunner{Stdout: stdout, Stderr: stderr}, stdout)
			s.SetFailFast(conf.FailFast)
			if progress, _ := flags.GetBool("progress"); progress {
				s.SetProgress(cmd.ErrOrStderr())
			}
			summary, err := s.Run(cmd.Context())
			if err != nil {
				return errors.Trace(err)
			}
			if summary.Failed() > 0 {
				if err = summary.WriteFailures(cmd.ErrOrStderr()); err != nil {
					return errors.Trace(err)
				}
				return errors.Errorf("%d of %d invocations failed", summary.Failed(), summary.Total)
			}
			return nil
		},
	}
	log.AddFlags(command.PersistentFlags())
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().BoolP("version", "v", false, "gorse-sweep version")
	command.PersistentFlags().StringP("config", "c", "", "configuration file path")
	command.Flags().Bool("dry-run", false, "print argument lists without running them")
	command.Flags().Bool("progress", false, "show a progress bar")
	return command
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newSweepCommand().ExecuteContext(ctx); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
