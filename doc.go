/*
Package kittyimg encodes images for the Kitty terminal graphics protocol and
displays them through Unicode placeholders.

Three pieces are composed in order:

  - the image encoder builds a minimal 8-bit truecolor PNG from an RGB raster
  - the Framer base64 encodes the PNG, splits it into 4096 character chunks
    wrapped in APC escape sequences, and declares a virtual placement
  - the placeholder compositor prints U+10EEEE cells whose foreground color
    carries the image id and whose combining diacritic carries the row

Because the image is drawn through ordinary text cells it scrolls, wraps and
survives terminal multiplexers like any other text.

Basic Usage:

	png, err := kittyimg.EncodeSolid(50, 50, 255, 0, 0)
	if err != nil {
	    log.Fatal(err)
	}

	grid := kittyimg.Grid{ImageID: 999, Columns: 10, Rows: 5}
	f := kittyimg.NewFramer(os.Stdout, nil)
	if err := f.Show(png, grid); err != nil {
	    log.Fatal(err)
	}

	fmt.Println("Text before image:")
	grid.WriteTo(os.Stdout)
	fmt.Println("Text after image")

Fluent API:

	raster, _ := kittyimg.NewSolid(50, 50, 0, 128, 255)
	err := kittyimg.New(raster).
	    ID(42).
	    Size(10, 5).
	    Protocol(kittyimg.Auto).
	    Print(os.Stdout)

Terminals without the Kitty protocol fall back to Sixel or Unicode half blocks.

Limitations:

Only eight rows can be addressed, since a row is named by one of eight
diacritics; RenderCell fails with ErrUnsupportedRowIndex beyond that. Image
ids must fit in 24 bits to survive the foreground color encoding.

Tmux Support:

	kittyimg.ForceTmux(true)
	kittyimg.EnableTmuxPassthrough()
	f := kittyimg.NewFramer(os.Stdout, &kittyimg.FramerOptions{Tmux: kittyimg.InTmux()})
*/
package kittyimg
