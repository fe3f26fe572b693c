package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shohag/countboard/internal/client"
	"github.com/shohag/countboard/internal/config"
	"github.com/shohag/countboard/internal/models"
)

func clientFromConfig(flags *globalFlags) (*client.Client, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newClient(cfg, flags.apiURL, setupLogger(cfg.Logging)), nil
}

func printJSON(w io.Writer, v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(out))
}

func healthCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func counterCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Read or change the counter",
	}

	run := func(call func(*client.Client, context.Context, []string) (*models.CounterResponse, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := call(c, cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Value)
			return nil
		}
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the counter value",
		RunE: run(func(c *client.Client, ctx context.Context, _ []string) (*models.CounterResponse, error) {
			return c.GetCounter(ctx)
		}),
	}
	setCmd := &cobra.Command{
		Use:   "set <value>",
		Short: "Set the counter to value",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(c *client.Client, ctx context.Context, args []string) (*models.CounterResponse, error) {
			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			return c.UpdateCounter(ctx, value)
		}),
	}
	incCmd := &cobra.Command{
		Use:   "inc",
		Short: "Increment the counter",
		RunE: run(func(c *client.Client, ctx context.Context, _ []string) (*models.CounterResponse, error) {
			return c.IncrementCounter(ctx)
		}),
	}
	decCmd := &cobra.Command{
		Use:   "dec",
		Short: "Decrement the counter",
		RunE: run(func(c *client.Client, ctx context.Context, _ []string) (*models.CounterResponse, error) {
			return c.DecrementCounter(ctx)
		}),
	}
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the counter to zero",
		RunE: run(func(c *client.Client, ctx context.Context, _ []string) (*models.CounterResponse, error) {
			return c.ResetCounter(ctx)
		}),
	}

	cmd.AddCommand(getCmd, setCmd, incCmd, decCmd, resetCmd)
	return cmd
}

func messagesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Manage messages",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := c.GetMessages(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Messages) == 0 {
				fmt.Fprintln(w, "No messages found.")
				return nil
			}
			for _, m := range out.Messages {
				fmt.Fprintf(w, "  %d  %s  (created %s)\n", m.ID, m.Content, m.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Post a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("message text is required")
			}
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := c.CreateMessage(cmd.Context(), content)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid message id %q: %w", args[0], err)
			}
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := c.DeleteMessage(cmd.Context(), id)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromConfig(flags)
			if err != nil {
				return err
			}
			out, err := c.DeleteAllMessages(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, deleteCmd, clearCmd)
	return cmd
}
