package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gavinwade12/odx"
	"github.com/gavinwade12/odx/uds"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

const portSettingName string = "port"

var port string
var sendVariant string
var sendBaudRate int
var sendTimeout time.Duration

func init() {
	rootCmd.PersistentFlags().StringVar(&port, portSettingName, "", "serial port to connect to. Example: /dev/ttyUSB0")

	sendCmd.Flags().StringVar(&sendVariant, "variant", "", "layer whose services are used")
	sendCmd.Flags().IntVar(&sendBaudRate, "baud", 115200, "baud rate of the serial connection")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 2*time.Second, "time to wait for the response")
	sendCmd.MarkFlagRequired("variant")

	rootCmd.AddCommand(sendCmd)
}

// sendCmd writes an encoded request to a serial port and decodes the
// raw bytes that come back. The port is expected to shuttle complete
// diagnostic messages; no transport protocol framing is applied.
var sendCmd = &cobra.Command{
	Use:          "send <pdx-file> <service>",
	Short:        "Send an encoded request over a serial port and decode the response.",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port == "" {
			return errors.New("the port setting is required for sending")
		}

		db, err := loadDatabase(args[0])
		if err != nil {
			return err
		}
		variant, ok := db.LayerByName(sendVariant)
		if !ok {
			return errors.Errorf("database has no layer %q", sendVariant)
		}
		request, err := encodeServiceRequest(variant, args[1], nil)
		if err != nil {
			return err
		}

		sp, err := serial.Open(port, &serial.Mode{
			BaudRate: sendBaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err != nil {
			return errors.Wrapf(err, "opening serial port '%s'", port)
		}
		defer sp.Close()

		if err = sp.SetReadTimeout(sendTimeout); err != nil {
			return errors.Wrap(err, "setting serial port read timeout")
		}
		if err = sp.ResetInputBuffer(); err != nil {
			return errors.Wrap(err, "resetting input buffer")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "-> % X\n", request)
		if _, err := sp.Write(request); err != nil {
			return errors.Wrap(err, "writing request")
		}

		buf := make([]byte, 4096)
		n, err := sp.Read(buf)
		if err != nil {
			return errors.Wrap(err, "reading response")
		}
		if n == 0 {
			return errors.New("no response before the timeout")
		}
		response := buf[:n]
		fmt.Fprintf(w, "<- % X\n", response)

		if description := uds.DescribeNegativeResponse(response); description != "" {
			fmt.Fprintln(w, description)
			return nil
		}
		decoded, err := variant.DecodeMessage(response)
		if err != nil {
			return err
		}
		for _, m := range decoded {
			fmt.Fprintf(w, "%s (%s):\n", m.Service.ShortName, m.Structure.ShortName)
			printValues(w, m.Values)
		}
		return nil
	},
}

func printValues(w io.Writer, values odx.ParameterValueMap) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %v\n", name, values[name])
	}
}
