package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/reader"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Check whether files are YAFFS dumps and report their parameters",
	Long: `Detect probes each file for the YAFFS header signature and, when it
matches, reports the byte order, filesystem version, and chunk geometry
the rest of the tool would use to decode it.`,
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, filename := range args {
			if !detectOne(filename) {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
	Example: "yaffsdump detect rootfs.img",
}

func detectOne(filename string) bool {
	img, closer, err := openImage(filename)
	if err != nil {
		logrus.WithError(err).Error("failed to open image")
		return false
	}
	defer closer()

	prefix, err := img.ReadWindow(0, format.MagicSize)
	if err != nil || !reader.Sniff(prefix) {
		fmt.Printf("%s: not a YAFFS image\n", filename)
		return false
	}

	params, err := reader.DetectParams(img)
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Error("signature matched but parameter detection failed")
		return false
	}

	fmt.Printf("%s: YAFFS%d, %s, page %d + spare %d (%d chunks)\n",
		filename, params.Version, orderName(params.Codec),
		params.Geometry.PageSize, params.Geometry.SpareSize,
		img.Size()/params.Geometry.ChunkSize())
	return true
}

func orderName(codec format.Codec) string {
	if codec.Order == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
