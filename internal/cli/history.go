package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/convsearch/internal/db"
	dbBolt "github.com/kailas-cloud/convsearch/internal/db/bolt"
	dbRedis "github.com/kailas-cloud/convsearch/internal/db/redis"
	interactionrepo "github.com/kailas-cloud/convsearch/internal/repository/interaction"
)

var (
	historyUser  string
	historyLimit int64
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's recorded conversation",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "user id (required)")
	historyCmd.Flags().Int64VarP(&historyLimit, "limit", "l", 0, "most recent messages to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	_ = historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var store db.Store
	var err error
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "bolt":
		store, err = dbBolt.NewStore(cfg.Database.Path)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	repo := interactionrepo.New(store)
	msgs, err := repo.History(cmd.Context(), historyUser, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if historyJSON {
		output, _ := json.MarshalIndent(msgs, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(msgs) == 0 {
		fmt.Println("No messages recorded.")
		return nil
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.Time.Format("2006-01-02 15:04:05"), m.UserID, m.Text)
	}
	return nil
}
