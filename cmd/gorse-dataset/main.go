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
	"strconv"
	"strings"

	"github.com/gorse-io/experiment/base/log"
	"github.com/gorse-io/experiment/cmd/version"
	"github.com/gorse-io/experiment/dataset"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newDatasetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "gorse-dataset",
		Short: "Prepare datasets for evaluation engines.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo(cmd.Name()))
				return err
			}
			return cmd.Help()
		},
	}
	command.SetGlobalNormalizationFunc(normalizeFlagName)
	log.AddFlags(command.PersistentFlags())
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().BoolP("version", "v", false, "gorse-dataset version")
	command.PersistentFlags().String("dataset_in", "", "path of the input dataset")
	command.PersistentFlags().String("dataset_out", "", "path of the output dataset")
	command.AddCommand(newStripHeaderCommand(), newConvertCommand())
	return command
}

func newStripHeaderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strip-header",
		Short: "Remove the first line of a dataset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output, err := setup(cmd.Flags())
			if err != nil {
				return errors.Trace(err)
			}
			return errors.Trace(dataset.StripHeader(input, output))
		},
	}
}

func newConvertCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "convert",
		Short: "Change the field delimiter of a dataset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output, err := setup(cmd.Flags())
			if err != nil {
				return errors.Trace(err)
			}
			from, err := unescapeDelimiter(cmd.Flags(), "delimiter_in")
			if err != nil {
				return errors.Trace(err)
			}
			to, err := unescapeDelimiter(cmd.Flags(), "delimiter_out")
			if err != nil {
				return errors.Trace(err)
			}
			_, err = dataset.ConvertDelimiter(input, output, from, to)
			return errors.Trace(err)
		},
	}
	command.Flags().String("delimiter_in", ",", `field delimiter of the input, escapes such as "\t" are understood`)
	command.Flags().String("delimiter_out", ";", "field delimiter of the output")
	return command
}

// setup configures logging and returns the input and output paths.
func setup(flags *pflag.FlagSet) (string, string, error) {
	debug, _ := flags.GetBool("debug")
	log.SetLogger(flags, debug)
	input, _ := flags.GetString("dataset_in")
	output, _ := flags.GetString("dataset_out")
	if input == "" || output == "" {
		return "", "", errors.NotValidf("empty --dataset_in or --dataset_out")
	}
	if input == output {
		return "", "", errors.NotValidf("--dataset_out same as --dataset_in")
	}
	log.Logger().Debug("prepare dataset", zap.String("dataset_in", input), zap.String("dataset_out", output))
	return input, output, nil
}

func unescapeDelimiter(flags *pflag.FlagSet, name string) (string, error) {
	text, _ := flags.GetString(name)
	if !strings.Contains(text, `\`) {
		return text, nil
	}
	delimiter, err := strconv.Unquote(`"` + text + `"`)
	if err != nil {
		return "", errors.NotValidf("delimiter %q", text)
	}
	return delimiter, nil
}

// normalizeFlagName accepts both --dataset-in and --dataset_in.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func main() {
	if err := newDatasetCommand().Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
