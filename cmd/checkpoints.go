package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/dealer-scout/internal/checkpoint"
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "List checkpoint sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := checkpoint.ListSessions(cfg.Checkpoint.Dir)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			cmd.Println("No checkpoint sessions found.")
			return nil
		}

		for _, s := range sessions {
			cmd.Printf("%s  started %s  completed=%d failed=%d pending=%d\n",
				s.SessionID,
				s.Started.Format("2006-01-02 15:04:05"),
				s.Completed, s.Failed, s.Pending,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
}
