package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/sokopack"
	"github.com/bodgit/sokopack/sprite"
	"github.com/urfave/cli/v2"
)

const defaultDB = "sokopack.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (sokopack.Config, error) {
	if file := c.String("config"); file != "" {
		return sokopack.LoadConfig(file)
	}
	return sokopack.DefaultConfig(), nil
}

func withPacker(c *cli.Context, fn func(*sokopack.Packer, *sokopack.LevelDB) error) error {
	config, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	db, err := sokopack.NewLevelDB(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	p, err := sokopack.New(db, config, newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := fn(p, db); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func convertSprite(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := sprite.Encode(w, m); err != nil {
		return err
	}

	return w.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "sokopack"
	app.Usage = "Sokoban level packing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SOKOPACK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"SOKOPACK_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import level grids",
			Description: "Each .txt file found beneath DIRECTORY holds a single level",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withPacker(c, func(p *sokopack.Packer, _ *sokopack.LevelDB) error {
					return p.Import(context.Background(), c.Args().First())
				})
			},
		},
		{
			Name:  "list",
			Usage: "List imported levels in pack order",
			Action: func(c *cli.Context) error {
				return withPacker(c, func(_ *sokopack.Packer, db *sokopack.LevelDB) error {
					entries, err := db.Levels()
					if err != nil {
						return err
					}
					for i, e := range entries {
						fmt.Fprintf(c.App.Writer, "%d\t%s\t%dx%d\n", i, e.Name, e.Level.Width(), e.Level.Height())
					}
					return nil
				})
			},
		},
		{
			Name:        "pack",
			Usage:       "Pack imported levels",
			Description: "Writes the level blob, offset table and metadata into DIRECTORY",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withPacker(c, func(p *sokopack.Packer, _ *sokopack.LevelDB) error {
					pack, err := p.Pack(context.Background())
					if err != nil {
						return err
					}
					return p.WriteFiles(c.Args().First(), pack)
				})
			},
		},
		{
			Name:        "show",
			Usage:       "Decode a packed level",
			Description: "Reads the files written by pack from DIRECTORY and prints level INDEX",
			ArgsUsage:   "DIRECTORY INDEX",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				index, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}

				config, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				pack, err := sokopack.Open(c.Args().First(), config)
				if err != nil {
					return cli.Exit(err, 1)
				}

				h, err := pack.Header(index)
				if err != nil {
					return cli.Exit(err, 1)
				}

				l, err := pack.Level(index)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "Level %d: %dx%d, player at (%d, %d), %d byte payload at offset %d\n", index, h.Width, h.Height, h.PlayerX, h.PlayerY, h.PayloadLen, pack.Table()[index])
				fmt.Fprintln(c.App.Writer, l)

				return nil
			},
		},
		{
			Name:      "sprite",
			Usage:     "Convert an image to a 4bpp sprite",
			ArgsUsage: "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := convertSprite(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
