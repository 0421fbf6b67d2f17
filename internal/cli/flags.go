package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// mustGetString gets a string flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined with the command - errors indicate programming bugs.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetFloat64 gets a float64 flag value or panics if the flag doesn't exist.
func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// tolerance returns --tolerance when given, the configured default otherwise.
func tolerance(cmd *cobra.Command, app *App) (float64, error) {
	if !cmd.Flags().Changed("tolerance") {
		return app.Config.Tolerance, nil
	}
	v := mustGetFloat64(cmd, "tolerance")
	if !domain.ValidTolerance(v) {
		return 0, domain.ErrInvalidTolerance.WithError(fmt.Errorf("--tolerance %v", v))
	}
	return v, nil
}
