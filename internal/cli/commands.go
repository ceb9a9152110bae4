package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/nutricalc/internal/conversation"
	"github.com/hammamikhairi/nutricalc/internal/db"
	"github.com/hammamikhairi/nutricalc/internal/display"
	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/engine"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every raw material, product, recipe and menu",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, a.render.Listing(c))
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the nutritional report of one element",
		Long:  "Show the nutritional report of one element. Without a name, pick one interactively.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			} else {
				var items []string
				for _, el := range c.RawMaterials() {
					items = append(items, el.Name())
				}
				for _, el := range c.Products() {
					items = append(items, el.Name())
				}
				for _, el := range c.Recipes() {
					items = append(items, el.Name())
				}
				for _, el := range c.Menus() {
					items = append(items, el.Name())
				}
				if len(items) == 0 {
					return errors.New("catalog is empty")
				}
				prompt := promptui.Select{
					Label:             "Select element",
					Items:             items,
					StartInSearchMode: true,
					Searcher: func(input string, index int) bool {
						return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
					},
				}
				_, picked, err := prompt.Run()
				if err != nil {
					return err
				}
				name = picked
			}

			el, err := c.Lookup(name)
			if err != nil {
				return err
			}
			out, err := a.render.Report(el)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, out)
			return nil
		},
	}
}

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Build recipes and menus interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}

			ui := display.NewUI("nutricalc")
			parser := conversation.NewKeywordParser(a.log)
			notifier := conversation.NewCLINotifier(a.log, ui.Printf)
			eng := engine.New(c, a.render, a.log)

			go func() {
				select {
				case <-ui.Ready():
				case <-ui.QuitChan():
					return
				}
				if err := runShell(ctx, ui, eng, parser, notifier); err != nil {
					a.log.Warn("shell stopped: %v", err)
				}
				ui.Quit()
			}()
			return ui.Run()
		},
	}
}

// console is the terminal surface the shell loop reads from.
type console interface {
	InputChan() <-chan string
	QuitChan() <-chan struct{}
	SetStatus(text string)
}

// runShell feeds input lines through parser and eng until the user quits,
// the console closes or ctx ends.
func runShell(ctx context.Context, con console, eng *engine.Engine, parser domain.CommandParser, notifier domain.Notifier) error {
	notifier.Notify(ctx, `nutricalc shell, type "help" for commands`)
	con.SetStatus(statusLine(eng))

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-con.QuitChan():
			return nil
		case line = <-con.InputChan():
		}

		intent, err := parser.Parse(ctx, line)
		if err != nil {
			notifier.NotifyUrgent(ctx, err.Error())
			continue
		}
		resp, err := eng.Handle(ctx, intent)
		if err != nil {
			notifier.NotifyUrgent(ctx, err.Error())
			continue
		}
		if resp.Message != "" {
			notifier.Notify(ctx, strings.TrimRight(resp.Message, "\n"))
		}
		if resp.Quit {
			return nil
		}
		con.SetStatus(statusLine(eng))
	}
}

func statusLine(eng *engine.Engine) string {
	cur, ok := eng.Current().(interface {
		Name() string
		Kind() domain.ElementKind
	})
	if !ok {
		return ""
	}
	return fmt.Sprintf("editing %s %s", cur.Kind(), cur.Name())
}

func newExportCommand(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if outFile == "" || outFile == "-" {
				return c.WriteYAML(a.out)
			}
			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outFile, err)
			}
			defer f.Close()
			if err := c.WriteYAML(f); err != nil {
				return err
			}
			color.Green("Exported %d elements to %s", c.Size(), outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newInitDBCommand(a *app) *cobra.Command {
	var importCatalog bool
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the PostgreSQL catalog tables",
		Long: `Create the PostgreSQL catalog tables. With --import, the YAML catalog
(or the built-in sample set) is written into them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := db.Connect(ctx, a.cfg.DatabaseURL, a.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.InitSchema(ctx, pool, a.log); err != nil {
				return err
			}
			if !importCatalog {
				color.Green("Schema ready.")
				return nil
			}

			c, err := a.loadLocalCatalog()
			if err != nil {
				return err
			}
			if err := c.SavePostgres(ctx, pool); err != nil {
				return err
			}
			color.Green("Schema ready, imported %d elements.", c.Size())
			return nil
		},
	}
	cmd.Flags().BoolVar(&importCatalog, "import", false, "import the local catalog into the database")
	return cmd
}
