package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"opsflow/internal/models"
)

func newInvoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoice FILE",
		Short: "Extract invoice data from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			if len(image) == 0 {
				return fmt.Errorf("image %s is empty", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, cleanup := newDispatcher(cfg, newCLILogger(cfg))
			defer cleanup()

			out := d.AnalyzeDocument(cmd.Context(), image)
			return printResult(cmd, d.Status().Mode, out)
		},
	}
}

func newMarketingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marketing BRIEF...",
		Short: "Generate Instagram, email and Twitter copy for a brief",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brief := strings.TrimSpace(strings.Join(args, " "))
			if brief == "" {
				return fmt.Errorf("brief must not be empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, cleanup := newDispatcher(cfg, newCLILogger(cfg))
			defer cleanup()

			content := d.GenerateMarketing(cmd.Context(), brief)
			data, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				return err
			}
			return printResult(cmd, d.Status().Mode, string(data))
		},
	}
}

func newInventoryCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Suggest restock actions for the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := models.SeedInventory()
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read inventory: %w", err)
				}
				items = nil
				if err := json.Unmarshal(data, &items); err != nil {
					return fmt.Errorf("parse inventory: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, cleanup := newDispatcher(cfg, newCLILogger(cfg))
			defer cleanup()

			out := d.SuggestInventoryActions(cmd.Context(), items)
			return printResult(cmd, d.Status().Mode, out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with inventory records (defaults to the seeded inventory)")
	return cmd
}

func printResult(cmd *cobra.Command, mode, out string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "System: %s\n\n%s\n", mode, out)
	return err
}
