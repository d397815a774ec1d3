// Command invoicectl renders invoice payloads from the command line without a
// database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/config"
	"github.com/garyjia/invoice-studio/internal/container"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/preview"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

func main() {
	app := &cli.App{
		Name:  "invoicectl",
		Usage: "render, total and export invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "configs/config.yaml", Usage: "configuration file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "render an invoice payload to PDF",
				Flags:  ioFlags("invoice.pdf"),
				Action: withApp(render),
			},
			{
				Name:   "totals",
				Usage:  "print the derived totals of an invoice payload as JSON",
				Flags:  ioFlags("-"),
				Action: withApp(totals),
			},
			{
				Name:   "export",
				Usage:  "export an invoice payload to XLSX",
				Flags:  ioFlags("invoice.xlsx"),
				Action: withApp(exportXLSX),
			},
			{
				Name:  "thumbnail",
				Usage: "render an invoice payload and rasterize one page",
				Flags: append(ioFlags("thumbnail.png"),
					&cli.IntFlag{Name: "page", Value: 0, Usage: "zero-based page number"},
					&cli.BoolFlag{Name: "all", Usage: "write every page as <out>-<n>.png"},
				),
				Action: withApp(thumbnail),
			},
			{
				Name:      "inspect",
				Usage:     "print the page count and text of a PDF",
				ArgsUsage: "<file.pdf>",
				Action:    inspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicectl:", err)
		os.Exit(1)
	}
}

func ioFlags(defaultOut string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"in", "i"}, Value: "-", Usage: "invoice JSON file, - for stdin"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: defaultOut, Usage: "output file, - for stdout"},
	}
}

type action func(c *cli.Context, app *container.Container, rec *entity.InvoiceRecord) error

// withApp loads configuration, starts a stateless container and decodes the input payload
func withApp(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger, err := utils.NewCLILogger(c.Bool("verbose"))
		if err != nil {
			return err
		}
		defer logger.Sync()

		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		// Documents are written where the user asks, never archived
		cfg.Storage.OutputDir = ""

		app, err := container.NewContainer(cfg, logger, container.Stateless())
		if err != nil {
			return err
		}
		if err := app.Start(c.Context); err != nil {
			return err
		}
		defer app.Close()

		rec, err := readInvoice(c.String("input"))
		if err != nil {
			return err
		}
		logger.Debug("Invoice payload loaded", zap.String("invoice_number", rec.Number), zap.Int("items", len(rec.Items)))
		return fn(c, app, rec)
	}
}

func render(c *cli.Context, app *container.Container, rec *entity.InvoiceRecord) error {
	doc, err := app.InvoiceService().Render(c.Context, rec)
	if err != nil {
		return err
	}
	return writeOutput(c.String("out"), doc.Bytes)
}

func totals(c *cli.Context, app *container.Container, rec *entity.InvoiceRecord) error {
	result, err := app.InvoiceService().Totals(c.Context, rec)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(c.String("out"), append(data, '\n'))
}

func exportXLSX(c *cli.Context, app *container.Container, rec *entity.InvoiceRecord) error {
	data, err := app.InvoiceService().Export(c.Context, rec)
	if err != nil {
		return err
	}
	return writeOutput(c.String("out"), data)
}

func thumbnail(c *cli.Context, app *container.Container, rec *entity.InvoiceRecord) error {
	doc, err := app.InvoiceService().Render(c.Context, rec)
	if err != nil {
		return err
	}
	previewer := app.Rendering().Previewer
	if !c.Bool("all") {
		img, err := previewer.Page(doc.Bytes, c.Int("page"))
		if err != nil {
			return err
		}
		return writeOutput(c.String("out"), img.Data)
	}

	out := c.String("out")
	if out == "-" {
		return cli.Exit("--all needs a file name for --out", 2)
	}
	images, err := previewer.Pages(doc.Bytes)
	if err != nil {
		return err
	}
	stem := strings.TrimSuffix(out, filepath.Ext(out))
	for i, img := range images {
		if err := writeOutput(fmt.Sprintf("%s-%d%s", stem, i+1, filepath.Ext(out)), img.Data); err != nil {
			return err
		}
	}
	return nil
}

func inspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("inspect takes exactly one PDF file", 2)
	}
	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	pages, err := preview.PageCount(data)
	if err != nil {
		return err
	}
	text, err := preview.ExtractText(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "pages: %d\n\n%s\n", pages, text)
	return nil
}

func readInvoice(path string) (*entity.InvoiceRecord, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var rec entity.InvoiceRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}
	return &rec, nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
