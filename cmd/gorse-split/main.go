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
	"strings"

	"github.com/gorse-io/experiment/base"
	"github.com/gorse-io/experiment/base/log"
	"github.com/gorse-io/experiment/cmd/version"
	"github.com/gorse-io/experiment/dataset"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newSplitCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "gorse-split",
		Short: "Split a dataset into folds for cross-validation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			// Show version
			if showVersion, _ := flags.GetBool("version"); showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo(cmd.Name()))
				return err
			}
			// setup logger
			debug, _ := flags.GetBool("debug")
			log.SetLogger(flags, debug)

			input, _ := flags.GetString("dataset_in")
			prefix, _ := flags.GetString("dataset_out_prefix")
			if input == "" || prefix == "" {
				return errors.NotValidf("empty --dataset_in or --dataset_out_prefix")
			}
			k, _ := flags.GetInt("folds")
			seed := base.NewSeed()
			if flags.Changed("seed") {
				seed, _ = flags.GetInt64("seed")
			}
			log.Logger().Info("start split",
				zap.String("dataset_in", input),
				zap.String("dataset_out_prefix", prefix),
				zap.Int("folds", k),
				zap.Int64("seed", seed))
			if _, err := dataset.SplitFile(input, prefix, k, base.NewRandomGenerator(seed)); err != nil {
				return errors.Trace(err)
			}
			return nil
		},
	}
	command.SetGlobalNormalizationFunc(normalizeFlagName)
	log.AddFlags(command.PersistentFlags())
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().BoolP("version", "v", false, "gorse-split version")
	command.Flags().String("dataset_in", "", "path of the dataset, first line is the header")
	command.Flags().String("dataset_out_prefix", "", "prefix of the fold files")
	command.Flags().IntP("folds", "k", dataset.DefaultFolds, "number of folds")
	command.Flags().Int64("seed", 0, "random seed (default: current time)")
	return command
}

// normalizeFlagName accepts both --dataset-in and --dataset_in.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func main() {
	if err := newSplitCommand().Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
