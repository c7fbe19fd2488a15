package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	from  string
	to    string
	value uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction to the node.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Account sending the value.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the value.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	req := struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Value uint64 `json:"value"`
	}{
		From:  from,
		To:    to,
		Value: value,
	}

	var resp struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", req, &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)
	fmt.Println("hash:", resp.Hash)

	return nil
}
