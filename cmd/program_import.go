package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poultry.GO/config"
	feedService "poultry.GO/service/feed"
)

var programImportFile string

var programImportCmd = &cobra.Command{
	Use:   "feedprogram:import",
	Short: "Import the feed program curve from CSV",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(programImportFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		res, err := feedService.ImportPrograms(db, f)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		fmt.Printf(`
=== Import Report ===
Imported:  %d
Skipped:   %d
=====================
`, res.Imported, res.Skipped)
	},
}

func init() {
	programImportCmd.Flags().StringVarP(&programImportFile, "file", "f", "feed_program.csv", "CSV file with the program curve")
	rootCmd.AddCommand(programImportCmd)
}
