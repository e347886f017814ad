// internal/cli/feed.go
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/goburrow/serial"
	"github.com/spf13/cobra"

	"github.com/dnnspaul/paulander/internal/bus"
	"github.com/dnnspaul/paulander/internal/frame"
)

func init() {
	cmd := &cobra.Command{
		Use:   "feed <message.json>",
		Short: "Send a message file over the bus the way the host bridge does",
		Long:  "Splits the file into sentinel-prefixed chunks and writes them to the configured serial device. Useful for bench testing a controller on the other end.",
		Args:  cobra.ExactArgs(1),
		Run:   runFeed,
	}
	cmd.Flags().String("device", "", "Serial device (default: bus.device from the config)")
	cmd.Flags().Duration("gap", 5*time.Millisecond, "Pause between chunk writes")
	cmd.Flags().Bool("poll", false, "Poll the status byte after sending")
	RootCmd.AddCommand(cmd)
}

func runFeed(cmd *cobra.Command, args []string) {
	device, _ := cmd.Flags().GetString("device")
	gap, _ := cmd.Flags().GetDuration("gap")
	poll, _ := cmd.Flags().GetBool("poll")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	p := &cfg.Paulander

	if device == "" {
		device = p.Bus.Device
	}
	if device == "" {
		exitErr("feed", fmt.Errorf("no serial device configured"))
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read message", err)
	}
	// fail fast on a file the controller would reject anyway
	if _, err := frame.Decode(payload); err != nil {
		exitErr("message invalid", err)
	}

	port, err := serial.Open(&serial.Config{
		Address:  device,
		BaudRate: p.Bus.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  2 * time.Second,
	})
	if err != nil {
		exitErr("serial open", err)
	}
	defer port.Close()

	chunks := 0
	for off := 0; off < len(payload); off += bus.MaxChunk {
		end := off + bus.MaxChunk
		if end > len(payload) {
			end = len(payload)
		}
		chunk := append([]byte{frame.Sentinel}, payload[off:end]...)
		if _, err := port.Write(chunk); err != nil {
			exitErr("write chunk", err)
		}
		chunks++
		time.Sleep(gap)
	}
	fmt.Printf("sent %d bytes in %d chunks\n", len(payload), chunks)

	if !poll {
		return
	}

	if _, err := port.Write([]byte{bus.StatusPoll}); err != nil {
		exitErr("status poll", err)
	}
	reply := make([]byte, 1)
	if _, err := port.Read(reply); err != nil {
		exitErr("status read", err)
	}
	fmt.Printf("status reply: %d\n", reply[0])
}
