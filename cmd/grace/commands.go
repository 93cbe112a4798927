package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/grace/internal/assistant"
	"github.com/sandeepkv93/grace/internal/storage"
	"github.com/sandeepkv93/grace/internal/views"
)

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask <task...>",
	Short: "Send one task to the assistant and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		task := strings.TrimSpace(strings.Join(args, " "))
		if task == "" {
			return fmt.Errorf("task is empty")
		}
		reply, err := assistant.NewMockResponder(cfg.ResponseDelay()).Respond(cmd.Context(), task)
		if err != nil {
			reply = assistant.ApologyMessage
		}
		if !askPlain {
			reply = views.RenderMarkdown(reply)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the reply without markdown styling")
	rootCmd.AddCommand(askCmd)
}

var (
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived conversations in archive order",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		total, err := repo.CountConversations(cmd.Context())
		if err != nil {
			return err
		}
		convs, err := repo.ListConversations(cmd.Context(), storage.ConversationListFilter{Limit: historyLimit, Offset: historyOffset})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d archived conversation(s)\n", total)
		for _, conv := range convs {
			first := ""
			if len(conv.Messages) > 0 {
				first = conv.Messages[0].Content
			}
			fmt.Fprintf(out, "%s  %s  %d messages  %s\n", conv.ID, conv.ArchivedAt.Local().Format("2006-01-02 15:04"), len(conv.Messages), first)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		conv, err := repo.GetConversation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, msg := range conv.Messages {
			fmt.Fprintf(out, "[%s] %s: %s\n", msg.Timestamp.Local().Format("15:04"), msg.Role, msg.Content)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one archived conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.DeleteConversation(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all archived conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
		return nil
	},
}

func openHistory() (*storage.SQLiteRepository, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	repo, err := storage.OpenSQLite(cfg.History.DSN)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return repo, nil
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum conversations to list")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "conversations to skip")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "grace %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
