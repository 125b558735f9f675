/*
Copyright © 2024 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	kittyimg "github.com/blacktop/go-kittyimg"
	"github.com/blacktop/go-kittyimg/internal/cellsize"
	"github.com/blacktop/go-kittyimg/internal/config"
	"github.com/blacktop/go-kittyimg/tui"
)

var (
	verbose    bool
	clear      bool
	detect     bool
	useTUI     bool
	configPath string

	imageID  uint32
	columns  int
	rows     int
	width    int
	height   int
	color    string
	protocol string
	tmux     bool
)

func init() {
	log.SetHandler(clihander.Default)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.Flags().BoolVar(&clear, "clear", false, "Delete the image from terminal memory after displaying it")
	rootCmd.Flags().BoolVar(&detect, "detect", false, "Print the detected graphics protocol and exit")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Show the image inside an interactive TUI")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/kittyimg/config.toml)")

	rootCmd.Flags().Uint32Var(&imageID, "id", 0, "Image id (1 to 16777215)")
	rootCmd.Flags().IntVarP(&columns, "cols", "c", 0, "Placement width in cells (0 derives it from the pixel width)")
	rootCmd.Flags().IntVarP(&rows, "rows", "r", 0, "Placement height in cells, at most 8 (0 derives it from the pixel height)")
	rootCmd.Flags().IntVarP(&width, "width", "W", 0, "Image width in pixels")
	rootCmd.Flags().IntVarP(&height, "height", "H", 0, "Image height in pixels")
	rootCmd.Flags().StringVar(&color, "color", "", "Fill color as #rrggbb or a CSS color name")
	rootCmd.Flags().StringVarP(&protocol, "protocol", "p", "", "Protocol: auto, kitty, sixel or halfblocks")
	rootCmd.Flags().BoolVar(&tmux, "tmux", false, "Force tmux passthrough")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kittyimg",
	Short: "Draw a solid color image with Kitty graphics Unicode placeholders",
	Args:  cobra.NoArgs,

	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		if detect {
			fmt.Printf("Best protocol: %s\n", kittyimg.DetectProtocol())
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if cfg.Tmux {
			kittyimg.ForceTmux(true)
		}
		if kittyimg.InTmux() && !kittyimg.EnableTmuxPassthrough() {
			log.Warn("could not enable tmux allow-passthrough; graphics may be dropped")
		}

		img, err := buildImage(cfg, cellsize.Get)
		if err != nil {
			return err
		}
		grid := img.Grid()
		log.WithFields(log.Fields{
			"id":       grid.ImageID,
			"cols":     grid.Columns,
			"rows":     grid.Rows,
			"protocol": img.ResolvedProtocol(),
		}).Debug("Image")

		if term.IsTerminal(int(os.Stdout.Fd())) {
			if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && grid.Columns > tw {
				log.Warnf("placement is %d columns but the terminal is %d wide", grid.Columns, tw)
			}
		}

		if useTUI {
			return runTUI(img)
		}
		return display(os.Stdout, img, clear)
	},
}

// loadConfig reads the config file and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.WithField("path", path).Debug("Loaded config")

	flags := cmd.Flags()
	if flags.Changed("id") {
		cfg.ImageID = imageID
	}
	if flags.Changed("cols") {
		cfg.Columns = columns
	}
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("color") {
		cfg.Color = color
	}
	if flags.Changed("protocol") {
		cfg.Protocol = protocol
	}
	if flags.Changed("tmux") {
		cfg.Tmux = tmux
	}
	return cfg, nil
}

// buildImage turns a config into a ready to print image. cellSize is only
// called when the grid has to be derived from the pixel size.
func buildImage(cfg *config.Config, cellSize func() (int, int)) (*kittyimg.Image, error) {
	p, err := kittyimg.ParseProtocol(cfg.Protocol)
	if err != nil {
		return nil, err
	}
	r, g, b, err := cfg.RGB()
	if err != nil {
		return nil, err
	}
	raster, err := kittyimg.NewSolid(cfg.Width, cfg.Height, r, g, b)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	cols, rws := cfg.Columns, cfg.Rows
	if cols <= 0 || rws <= 0 {
		cw, ch := cellSize()
		dc, dr := cellsize.Cells(cfg.Width, cfg.Height, cw, ch)
		if cols <= 0 {
			cols = dc
		}
		if rws <= 0 {
			rws = dr
		}
		log.Debugf("Derived %dx%d cell grid from %dx%d px cells", cols, rws, cw, ch)
	}

	grid := kittyimg.Grid{ImageID: cfg.ImageID, Columns: cols, Rows: rws}
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	return kittyimg.New(raster).
		ID(cfg.ImageID).
		Size(cols, rws).
		Protocol(p).
		Tmux(kittyimg.InTmux()), nil
}

// validateGrid rejects grids the placeholder encoding cannot address
func validateGrid(g kittyimg.Grid) error {
	if g.ImageID == 0 {
		return fmt.Errorf("image id must be non-zero")
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Rows > kittyimg.MaxRows {
		return fmt.Errorf("%w: %d rows requested, at most %d are supported", kittyimg.ErrUnsupportedRowIndex, g.Rows, kittyimg.MaxRows)
	}
	return nil
}

// display writes the image between two lines of plain text
func display(w io.Writer, img *kittyimg.Image, clearAfter bool) error {
	log.Info("Transmitting...")
	if err := img.Transmit(w); err != nil {
		return fmt.Errorf("failed to transmit image: %w", err)
	}

	lines, err := img.Lines()
	if err != nil {
		return fmt.Errorf("failed to render image: %w", err)
	}

	fmt.Fprintln(w, "Text before image:")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("%w: %w", kittyimg.ErrOutputWrite, err)
		}
	}
	fmt.Fprintln(w, "Text after image")

	if clearAfter {
		time.Sleep(1 * time.Second)
		if err := img.Clear(w); err != nil {
			return fmt.Errorf("failed to clear image: %w", err)
		}
	}

	if img.ResolvedProtocol() == kittyimg.Kitty {
		log.Info("If you see a solid square, it works!")
	}
	return nil
}

func runTUI(img *kittyimg.Image) error {
	if img.ResolvedProtocol() != kittyimg.Kitty {
		return fmt.Errorf("--tui requires the kitty protocol, got %s", img.ResolvedProtocol())
	}
	if err := img.Transmit(os.Stdout); err != nil {
		return fmt.Errorf("failed to transmit image: %w", err)
	}

	grid := img.Grid()
	model := tui.New(grid, fmt.Sprintf("Image %d (%dx%d cells)", grid.ImageID, grid.Columns, grid.Rows))
	if model.Err() != nil {
		return model.Err()
	}
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if clear {
		return img.Clear(os.Stdout)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
