// internal/cli/preview.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnnspaul/paulander/internal/frame"
	"github.com/dnnspaul/paulander/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview <message.json>",
		Short: "Decode a message file and render it to a PNG",
		Args:  cobra.ExactArgs(1),
		Run:   runPreview,
	}
	cmd.Flags().StringP("out", "o", "preview.png", "Output PNG path")
	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	p := &cfg.Paulander

	raw, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read message", err)
	}

	rec, err := frame.Decode(raw)
	if err != nil {
		exitErr("decode", err)
	}

	faces, err := render.LoadFaces(p.Render.FontPath)
	if err != nil {
		exitErr("load fonts", err)
	}
	composer := render.NewComposer(p.Display.Width, p.Display.Height, p.Render.Variant, faces)

	r := &render.PNGRenderer{Path: out, Composer: composer}
	if err := r.Render(&rec); err != nil {
		exitErr("render", err)
	}

	fmt.Printf("rendered %s (fingerprint=%016x, events=%d)\n", out, rec.Fingerprint, rec.EventCount)
}
