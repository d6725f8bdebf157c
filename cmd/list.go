package cmd

import (
	"github.com/KaramelBytes/regionstats/internal/dataset"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions <file>",
	Short: "List the distinct regions of a CSV file with their indices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listFromFile(cmd, args[0], "Region", func(ds *dataset.Dataset) []string {
			return ds.Categories()
		})
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List the header columns of a CSV file with their indices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listFromFile(cmd, args[0], "Column", func(ds *dataset.Dataset) []string {
			return ds.Header
		})
	},
}

func listFromFile(cmd *cobra.Command, path, title string, items func(*dataset.Dataset) []string) error {
	c, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := dataset.LoadFile(path, dataset.MaxBytes(c.MaxFileSizeMB))
	if err != nil {
		return &sessionError{err: err}
	}
	r, err := newRenderer(cmd, c.OutputFormat)
	if err != nil {
		return err
	}
	defer closeRenderer(r)
	r.Listing(title, items(ds))
	return nil
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(columnsCmd)
}
