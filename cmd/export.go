package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oobkit/yaffs/yaffs/reader"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the decoded records of a dump as a CBOR stream",
	Long: `Export walks an image and writes one CBOR-encoded object record per
object chunk, for downstream tooling that wants the decoded structures
without reparsing the dump. Deleted chunks are included and flagged;
file payloads are not exported, only their declared sizes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.PrintErrln("export expects exactly one image")
			os.Exit(1)
		}
		output, _ := cmd.Flags().GetString("output")
		if err := exportOne(args[0], output); err != nil {
			logrus.WithError(err).Error("export failed")
			os.Exit(1)
		}
	},
	Example: "yaffsdump export rootfs.img -o rootfs.cbor",
}

func exportOne(filename, output string) error {
	img, closer, err := openImage(filename)
	if err != nil {
		return err
	}
	defer closer()

	params, err := reader.DetectParams(img)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" && output != "-" {
		out, err = os.Create(output)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	enc := cbor.NewEncoder(out)

	walker := reader.NewWalker(img, params)
	walker.SkipData = true
	for {
		entry, err := walker.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			logrus.WithError(err).Warn("skipping undecodable chunk")
			continue
		}
		record := entry.Chunk.Header.Record()
		record.ObjectID = entry.ObjectID
		record.Deleted = entry.Chunk.Deleted()
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write records to this file instead of stdout")
}
