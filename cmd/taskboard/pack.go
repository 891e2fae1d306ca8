package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"task-board/internal/packing"
)

var (
	packLength    float64
	packWidth     float64
	packHeight    float64
	packContainer string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Estimate how many boxes fit in a shipping container",
	Long: `Estimate how many boxes of the given size (cm) fit in a 20ft or 40ft
container when all boxes share one orientation.

Examples:
  # Both containers
  taskboard pack --length 60 --width 40 --height 50

  # One container
  taskboard pack -l 60 -w 40 -H 50 --container 40ft`,
	Args: cobra.NoArgs,
	RunE: runPack,
}

func init() {
	packCmd.Flags().Float64VarP(&packLength, "length", "l", 0, "box length in cm")
	packCmd.Flags().Float64VarP(&packWidth, "width", "w", 0, "box width in cm")
	packCmd.Flags().Float64VarP(&packHeight, "height", "H", 0, "box height in cm")
	packCmd.Flags().StringVar(&packContainer, "container", "", "container size (20ft or 40ft); all when empty")
	_ = packCmd.MarkFlagRequired("length")
	_ = packCmd.MarkFlagRequired("width")
	_ = packCmd.MarkFlagRequired("height")
}

func runPack(cmd *cobra.Command, args []string) error {
	var results []packing.Result
	if packContainer != "" {
		r, err := packing.Calculate(packLength, packWidth, packHeight, packing.Size(packContainer))
		if err != nil {
			return err
		}
		results = append(results, r)
	} else {
		all, err := packing.CalculateAll(packLength, packWidth, packHeight)
		if err != nil {
			return err
		}
		results = all
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%s: %d boxes (%s)\n", r.Container, r.Count, r.Orientation)
	}
	return nil
}
