package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/emoji"
)

var healthTimeout time.Duration

func newHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis backend is reachable",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}

	cmd.Flags().DurationVar(&healthTimeout, "timeout", 10*time.Second, "request timeout")

	return cmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	clientCfg := resolveClientConfig(cfg, newLogger("health"))

	c, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
	defer cancel()

	status, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend %s is unreachable: %s", clientCfg.BaseURL, client.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	if getOutputFormat() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprintf(out, "%s Backend %s is %s\n", emoji.GetEmoji("success"), clientCfg.BaseURL, status.Status)
	if status.Model != "" {
		fmt.Fprintf(out, "   Model: %s\n", status.Model)
	}
	return nil
}
