package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain.",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) error {
	var resp struct {
		Valid  bool   `json:"valid"`
		Length uint64 `json:"length"`
		Error  string `json:"error"`
	}
	if err := call(http.MethodGet, "/v1/chain/validate", nil, &resp); err != nil {
		return err
	}

	fmt.Printf("blocks[%d] valid[%t]\n", resp.Length, resp.Valid)
	if resp.Error != "" {
		fmt.Println(resp.Error)
	}

	return nil
}
