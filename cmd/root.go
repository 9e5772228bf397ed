// Package cmd provides command-line interface functionality for vmctool.
// vmctool inspects, lists, and extracts saves from Sony PlayStation 2
// Virtual Memory Card images.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vmctool",
	Short: "Inspect and extract saves from PS2 Virtual Memory Card images",
	Long: `vmctool - inspect, list, and extract saves from Sony PlayStation 2
Virtual Memory Card (.ps2/.vmc) images.

Commands:
  vmc info      Print superblock and free-space info for an image
  vmc list      List the root directory's saves
  vmc extract   Extract every save to an output directory

Examples:
  vmctool vmc info card.ps2
  vmctool vmc list card.ps2 --format yaml
  vmctool vmc extract card.ps2 ./extracted_saves/
  vmctool vmc extract -v card.ps2 ./my_saves/

Use 'vmctool [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
