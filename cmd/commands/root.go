/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commands

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	CLIName = "sessionize"
)

var rootCmd = &cobra.Command{
	Use:   CLIName,
	Short: "Segment per-key event streams into sessions",
	Long: `sessionize partitions time ordered events of every key into sessions separated by an idle gap.
Events are read as JSON lines, one JSON array per line whose first element is the event timestamp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.HelpFunc()(cmd, args)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(NewTagCommand())
	rootCmd.AddCommand(NewCountCommand())
	rootCmd.AddCommand(NewVersionCommand())
}
