package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/oobkit/yaffs/yaffs/image"
)

// openImage opens a dump file as a random-access image. Dumps with a
// .zst suffix are decompressed into memory first, since the codecs need
// offset addressing the compressed stream cannot give them.
func openImage(path string) (image.Image, func() error, error) {
	fileh, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}

	if strings.HasSuffix(path, ".zst") {
		defer fileh.Close()
		zr, err := zstd.NewReader(fileh)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to open zstd stream in %s", path)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to decompress %s", path)
		}
		return image.Bytes(data), func() error { return nil }, nil
	}

	stat, err := fileh.Stat()
	if err != nil {
		fileh.Close()
		return nil, nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	return image.NewReaderAtImage(fileh, stat.Size()), fileh.Close, nil
}
