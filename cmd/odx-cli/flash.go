package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gavinwade12/odx"
	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var flashJobFile string

func init() {
	flashCmd.Flags().StringVar(&flashJobFile, "job", "", "TOML file describing the flash job")
	flashCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(flashCmd)
}

// flashJob is the TOML description of a flash session: the firmware
// image plus the names of the database entities encoding it.
type flashJob struct {
	Variant         string `toml:"variant"`
	HexFile         string `toml:"hex_file"`
	BlockSize       int    `toml:"block_size"`
	RequestDownload string `toml:"request_download"`
	TransferData    string `toml:"transfer_data"`
	TransferExit    string `toml:"transfer_exit"`
}

var flashCmd = &cobra.Command{
	Use:          "flash <pdx-file>",
	Short:        "Encode the flash messages for a firmware image as a hex dump script.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var job flashJob
		if _, err := toml.DecodeFile(flashJobFile, &job); err != nil {
			return errors.Wrap(err, "reading flash job")
		}
		if job.BlockSize <= 0 {
			return errors.New("the flash job needs a positive block_size")
		}
		if job.RequestDownload == "" {
			job.RequestDownload = "request_download"
		}
		if job.TransferData == "" {
			job.TransferData = "transfer_data"
		}
		if job.TransferExit == "" {
			job.TransferExit = "transfer_exit"
		}

		db, err := loadDatabase(args[0])
		if err != nil {
			return err
		}
		variant, ok := db.LayerByName(job.Variant)
		if !ok {
			return errors.Errorf("database has no layer %q", job.Variant)
		}

		segments, err := readHexSegments(job.HexFile)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, segment := range segments {
			fmt.Fprintf(w, "# segment 0x%08X (%d bytes)\n", segment.Address, len(segment.Data))

			msg, err := encodeServiceRequest(variant, job.RequestDownload, odx.ParameterValueMap{
				"memory_size": uint32(len(segment.Data)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "% X\n", msg)

			counter := uint32(1)
			for offset := 0; offset < len(segment.Data); offset += job.BlockSize {
				end := offset + job.BlockSize
				if end > len(segment.Data) {
					end = len(segment.Data)
				}
				msg, err := encodeServiceRequest(variant, job.TransferData, odx.ParameterValueMap{
					"block_counter": counter & 0xFF,
					"data":          segment.Data[offset:end],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "% X\n", msg)
				counter++
			}

			msg, err = encodeServiceRequest(variant, job.TransferExit, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "% X\n", msg)
		}
		return nil
	},
}

func readHexSegments(path string) ([]gohex.DataSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening hex file")
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return nil, errors.Wrap(err, "parsing hex file")
	}
	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, errors.New("the hex file holds no data segments")
	}
	return segments, nil
}

func encodeServiceRequest(variant *odx.DiagLayer, serviceName string, values odx.ParameterValueMap) ([]byte, error) {
	service, ok := findService(variant, serviceName)
	if !ok {
		return nil, errors.Errorf("layer %s has no service %q", variant.ShortName, serviceName)
	}
	request := service.Request()
	if request == nil {
		return nil, errors.Errorf("service %s has no request", serviceName)
	}
	msg, err := request.Encode(values, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", serviceName)
	}
	return msg, nil
}

func findService(variant *odx.DiagLayer, name string) (*odx.DiagService, bool) {
	for _, service := range variant.Services() {
		if service.ShortName == name {
			return service, true
		}
	}
	return nil, false
}
