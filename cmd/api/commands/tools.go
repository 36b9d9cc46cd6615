package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noruno/platform/internal/adapters/filestore"
	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/config"
)

// NewImportCommand creates the import-json command
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-json",
		Short: "Copy JSON data files into the database once",
		Long: `Copy every JSON data file in the data directory into the configured database.
The import runs once: a .db_migrated marker is written afterwards and the JSON files are renamed to *.json.bak.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.cfg.Storage.Backend == config.BackendJSON {
				return errors.New("storage backend is json, nothing to import into")
			}

			src := filestore.NewRepositories(rt.cfg.Storage.DataDir)
			result, err := services.ImportJSON(cmd.Context(), rt.cfg.Storage.DataDir, src, rt.repos, rt.log)
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printImport(w io.Writer, result services.ImportResult) {
	if result.Skipped {
		fmt.Fprintln(w, "JSON data already imported, nothing to do")
		return
	}

	kinds := make([]string, 0, len(result.Imported))
	for kind := range result.Imported {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		k := entities.Kind(kind)
		fmt.Fprintf(w, "%-16s imported %d, failed %d\n", kind, result.Imported[k], result.Failed[k])
	}
}

// NewNotifyCommand creates the notify command
func NewNotifyCommand() *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Reminder commands",
	}

	notifyCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Run one reminder pass and print the diagnostic report",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := app.Notifications.CheckNotifications(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	})

	return notifyCmd
}

// NewMailCommand creates the mail command
func NewMailCommand() *cobra.Command {
	mailCmd := &cobra.Command{
		Use:   "mail",
		Short: "Mail commands",
	}

	mailCmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Send a test email to the configured address",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			msg, err := app.Notifications.SendTestEmail(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	})

	return mailCmd
}

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "API token commands",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for the local API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _ := cmd.Flags().GetString("client")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load(ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if ttl > 0 {
				cfg.Security.APITokenTTL = ttl
			}

			token, expiresAt, err := services.NewTokenService(cfg.Security).Issue(client)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "Expires at: %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	issueCmd.Flags().String("client", "cli", "client name recorded in the token")
	issueCmd.Flags().Duration("ttl", 0, "token lifetime (default security.api_token_ttl)")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var format string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print every collection as one YAML or JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, app, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.close()

			return writeSnapshot(cmd.OutOrStdout(), app.Export(), format)
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return exportCmd
}

func writeSnapshot(w io.Writer, snapshot services.Snapshot, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
