// internal/cli/status.go
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnnspaul/paulander/internal/history"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent refreshes from the journal",
		Run:   runStatus,
	}
	cmd.Flags().IntP("limit", "n", 10, "Number of entries to show")
	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	path := cfg.Paulander.History.Path
	if path == "" {
		exitErr("status", fmt.Errorf("no journal configured (history.path)"))
	}

	journal, err := history.Open(path)
	if err != nil {
		exitErr("open journal", err)
	}
	defer journal.Close()

	entries, err := journal.Recent(cmd.Context(), limit)
	if err != nil {
		exitErr("read journal", err)
	}
	if len(entries) == 0 {
		fmt.Println("journal is empty")
		return
	}

	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "FAILED"
		}
		fmt.Printf("%s  %-6s  %016x  %s\n",
			e.At.Local().Format(time.RFC3339), e.Trigger, e.Fingerprint, result)
	}
}
