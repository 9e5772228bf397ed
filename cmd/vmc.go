// Package cmd: VMC image inspection, listing, and save extraction.
package cmd

import (
	"fmt"

	"github.com/hansbonini/vmctool/pkg/common"
	"github.com/hansbonini/vmctool/pkg/titledb"
	"github.com/hansbonini/vmctool/pkg/vmc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// vmcCmd represents the parent command for all VMC image operations.
var vmcCmd = &cobra.Command{
	Use:   "vmc",
	Short: "Work with Sony PS2 Virtual Memory Card images",
	Long: `Work with Sony PlayStation 2 Virtual Memory Card images.

Commands:
  info      Print superblock and free-space info
  list      List the root directory's saves
  extract   Extract every save to an output directory

Examples:
  vmctool vmc info card.ps2
  vmctool vmc list card.ps2
  vmctool vmc extract card.ps2 ./extracted_saves/`,
}

var vmcInfoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Print version, geometry, and free-space info for an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		common.SetVerboseMode(verbose)

		img, err := vmc.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open VMC image: %w", err)
		}

		sb := img.Superblock()
		free := img.FreeClusters()

		fmt.Printf("Version: %s\n", sb.Version)
		fmt.Printf("Cluster size: %d bytes\n", sb.ClusterSize)
		fmt.Printf("Clusters per card: %d\n", sb.ClustersPerCard)
		fmt.Printf("Max allocatable clusters: %d\n", sb.MaxAllocatableClusters)
		fmt.Printf("Free clusters: %d (%.2f MB)\n", free, float64(free)*float64(sb.ClusterSize)/(1024*1024))

		return nil
	},
}

type listEntry struct {
	Name      string `yaml:"name"`
	Directory bool   `yaml:"directory"`
	Title     string `yaml:"title,omitempty"`
	Length    uint32 `yaml:"length"`
}

var vmcListCmd = &cobra.Command{
	Use:   "list [image]",
	Short: "List the root directory's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		common.SetVerboseMode(verbose)

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("error getting format flag: %w", err)
		}
		titleDBPath, err := cmd.Flags().GetString("titledb")
		if err != nil {
			return fmt.Errorf("error getting titledb flag: %w", err)
		}

		lookup := (*titledb.DB)(nil).LookupFunc()
		if titleDBPath != "" {
			db, err := titledb.Load(titleDBPath)
			if err != nil {
				return fmt.Errorf("failed to load title database: %w", err)
			}
			lookup = db.LookupFunc()
		}

		img, err := vmc.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open VMC image: %w", err)
		}

		roots, err := img.ListRoot()
		if err != nil {
			return fmt.Errorf("failed to list root directory: %w", err)
		}

		var listing []listEntry
		for _, e := range roots {
			if e.IsDot() {
				continue
			}
			entry := listEntry{Name: e.Name, Directory: e.IsDirectory(), Length: e.Length}
			if e.IsDirectory() && lookup != nil {
				entry.Title = titledb.RenderTitle(lookup, e.Name)
			}
			listing = append(listing, entry)
		}

		if format == "yaml" {
			out, err := yaml.Marshal(listing)
			if err != nil {
				return fmt.Errorf("failed to render YAML: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		for _, e := range listing {
			if e.Title != "" {
				fmt.Printf("%-32s %8d  %s\n", e.Name, e.Length, e.Title)
			} else {
				fmt.Printf("%-32s %8d\n", e.Name, e.Length)
			}
		}
		return nil
	},
}

var vmcExtractCmd = &cobra.Command{
	Use:   "extract [image] [dir]",
	Short: "Extract every save to an output directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		common.SetVerboseMode(verbose)

		outputDir := "./extracted_saves/"
		if len(args) == 2 {
			outputDir = args[1]
		}

		img, err := vmc.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open VMC image: %w", err)
		}

		extractor := vmc.NewExtractor(img, outputDir)
		fmt.Printf("Extracting saves from %s to %s\n", args[0], outputDir)
		if err := extractor.Extract(); err != nil {
			return fmt.Errorf("failed to extract saves: %w", err)
		}
		fmt.Println("Extraction complete!")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(vmcCmd)

	vmcCmd.AddCommand(vmcInfoCmd)
	vmcCmd.AddCommand(vmcListCmd)
	vmcCmd.AddCommand(vmcExtractCmd)

	vmcInfoCmd.Flags().BoolP("verbose", "v", false, "Enable verbose debug output")
	vmcListCmd.Flags().BoolP("verbose", "v", false, "Enable verbose debug output")
	vmcListCmd.Flags().String("format", "table", "Output format: table or yaml")
	vmcListCmd.Flags().String("titledb", "", "Path to a TSV title database")
	vmcExtractCmd.Flags().BoolP("verbose", "v", false, "Enable verbose debug output")
}
