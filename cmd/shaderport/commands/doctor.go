package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spectralabs/shaderport/config"
	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/toolchain"
)

// DoctorCmd checks that the external compiler tools are installed
var DoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external compiler tools are installed",
	Long:  `Probe slangc, glslangValidator and spirv-cross at their configured paths and report what was found. A missing tool disables the targets that depend on it.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	tools := cfg.Toolchain()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner := toolchain.NewExecRunner(tools.OutputLimit)
	status := toolchain.ProbeAll(ctx, runner, tools)

	rows := pterm.TableData{{"Tool", "Path", "Status", "Version"}}
	healthy := true
	for _, st := range status {
		state := pterm.Green("ok")
		if !st.Available {
			state = pterm.Red("missing")
			healthy = false
		}
		rows = append(rows, []string{string(st.Tool), st.Path, state, st.Version})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	if !healthy {
		pterm.Warning.Println("Some tools are missing. Set paths in shaderport.toml or SHADERPORT_TOOLS_* environment variables.")
		return errors.New("toolchain incomplete")
	}
	pterm.Success.Println("All compiler tools are available.")
	return nil
}
