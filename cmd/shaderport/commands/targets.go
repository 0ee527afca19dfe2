package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectralabs/shaderport/pipeline"
)

// TargetsCmd lists the supported target formats
var TargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported target formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range pipeline.Targets() {
			kind := "text"
			if t.Binary() {
				kind = "binary"
			}
			fmt.Printf("%-12s %s\n", t, kind)
		}
	},
}
