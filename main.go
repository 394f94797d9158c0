package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	DBPath     string
	Restore    string
	Resume     bool
	Category   string
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "picker",
		Short:        "Pick NIGP categories and subcategories",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive picker
  picker

  # Reopen the last saved selection for review
  picker --resume

  # Load categories from an NIGP export
  picker import nigp.csv
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $PICKER_CONFIG or ~/.config/category-picker/config.toml)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the SQLite database (overrides database.path)")
	cmd.Flags().StringVar(&app.Restore, "restore", "", "Comma-separated subcategory ids to redisplay as a prior selection")
	cmd.Flags().BoolVar(&app.Resume, "resume", false, "Redisplay the most recently saved selection")
	cmd.Flags().StringVar(&app.Category, "category", "", "Category preselected in the first row (overrides ui.default_category)")

	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newSelectionsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func (app *App) loadConfig() (Config, error) {
	cfg, err := LoadConfig(app.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	if app.DBPath != "" {
		cfg.Database.Path = app.DBPath
	}
	if app.Category != "" {
		cfg.UI.DefaultCategory = app.Category
	}
	return cfg, nil
}

func runTUI(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := OpenStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := newAppModel(ctx, cfg, st, app)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newAppModel loads the lookup and restore set from st and builds the
// initial picker model.
func newAppModel(ctx context.Context, cfg Config, st *Store, app *App) (model, error) {
	lookup, err := st.Lookup(ctx)
	if err != nil {
		return model{}, err
	}
	restore, err := resolveRestoreSet(ctx, st, app)
	if err != nil {
		return model{}, err
	}
	log.Info("starting picker", "categories", len(lookup.Categories), "restore", len(restore))
	return NewModel(ctx, st, lookup, restore, cfg.UI), nil
}

// resolveRestoreSet returns the explicit --restore ids, else the latest
// saved selection when --resume is set, else an empty set.
func resolveRestoreSet(ctx context.Context, st *Store, app *App) (RestoreSet, error) {
	if strings.TrimSpace(app.Restore) != "" {
		var ids []string
		for _, id := range strings.Split(app.Restore, ",") {
			ids = append(ids, strings.TrimSpace(id))
		}
		return NewRestoreSet(ids...), nil
	}
	if !app.Resume {
		return NewRestoreSet(), nil
	}
	sel, ok, err := st.LatestSelection(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewRestoreSet(), nil
	}
	return NewRestoreSet(sel.SubcategoryIDs...), nil
}

func withStore(app *App, fn func(st *Store) error) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	st, err := OpenStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import categories from an NIGP CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *Store) error {
				added, err := st.ImportCategoriesFromCSV(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d new subcategories from %s\n", added, args[0])
				return nil
			})
		},
	}
}

func newCategoriesCmd(app *App) *cobra.Command {
	var records bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the category lookup tables as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *Store) error {
				if records {
					recs, err := st.CategoryRecords(cmd.Context())
					if err != nil {
						return err
					}
					if recs == nil {
						recs = []CategoryRecord{}
					}
					return writeJSON(cmd.OutOrStdout(), recs)
				}
				lookup, err := st.Lookup(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), lookup)
			})
		},
	}
	cmd.Flags().BoolVar(&records, "records", false, "Print stored NIGP records with codes and examples instead")
	return cmd
}

func newSelectionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "selections",
		Short: "Print saved selections as JSON, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *Store) error {
				sels, err := st.Selections(cmd.Context())
				if err != nil {
					return err
				}
				if sels == nil {
					sels = []Selection{}
				}
				return writeJSON(cmd.OutOrStdout(), sels)
			})
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := WriteDefaultConfig(app.ConfigPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
