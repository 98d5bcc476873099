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
	"fmt"

	"github.com/gorse-io/experiment/base/log"
	"github.com/gorse-io/experiment/cmd/version"
	"github.com/gorse-io/experiment/result"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newParseCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "gorse-parse <result-file>",
		Short: "Convert an evaluation log into semicolon separated rows.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			// Show version
			if showVersion, _ := flags.GetBool("version"); showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo(cmd.Name()))
				return err
			}
			if len(args) != 1 {
				return errors.NotValidf("missing result file")
			}
			// setup logger
			debug, _ := flags.GetBool("debug")
			log.SetLogger(flags, debug)

			opts := result.DefaultOptions()
			opts.Strict, _ = flags.GetBool("strict")
			opts.NoisePrefixes, _ = flags.GetStringSlice("noise-prefix")
			remainder, _ := flags.GetString("remainder")
			var err error
			if opts.Remainder, err = result.ParseRemainderPolicy(remainder); err != nil {
				return errors.Trace(err)
			}
			duration, _ := flags.GetBool("duration")
			format, _ := flags.GetString("format")

			records, err := result.ParseFile(args[0], opts)
			if err != nil {
				return errors.Trace(err)
			}
			log.Logger().Debug("parse result", zap.String("path", args[0]), zap.Int("n_records", len(records)))
			switch format {
			case "rows":
				return errors.Trace(result.WriteRows(cmd.OutOrStdout(), records, duration))
			case "table":
				return errors.Trace(result.WriteTable(cmd.OutOrStdout(), records, duration))
			default:
				return errors.NotValidf("format %q", format)
			}
		},
	}
	log.AddFlags(command.PersistentFlags())
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().BoolP("version", "v", false, "gorse-parse version")
	command.Flags().Bool("strict", false, "fail on malformed argument lists and metrics")
	command.Flags().String("remainder", string(result.RemainderDrop), "trailing partial chunk policy (drop, error, pad)")
	command.Flags().StringSlice("noise-prefix", result.DefaultOptions().NoisePrefixes, "prefixes of lines to ignore")
	command.Flags().Bool("duration", false, "append the run duration in seconds")
	command.Flags().String("format", "rows", "output format (rows, table)")
	return command
}

func main() {
	if err := newParseCommand().Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
