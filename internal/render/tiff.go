package render

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/klauspost/compress/zlib"
)

// baseline TIFF tags written for every page
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagXResolution     = 282
	tagYResolution     = 283
	tagPlanarConfig    = 284
	tagResolutionUnit  = 296

	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	compressionNone    = 1
	compressionDeflate = 8
	photometricRGB     = 2
	unitInch           = 2

	ifdEntryCount = 13
)

// TIFFRenderer writes a multi-page RGB TIFF, one strip per page.
type TIFFRenderer struct {
	Compression exportModel.Compression
	loader      *pageLoader
	logger      *logger_i.Logger
}

func (r *TIFFRenderer) Render(ctx context.Context, job Job) (Result, error) {
	defer r.loader.release()
	log := r.logger.FromContext(ctx).With("groupId", job.GroupID)

	var res Result
	partial := partialPath(job.OutputPath)
	if err := removeStale(partial); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	f, err := os.Create(partial)
	if err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	level, deflate := deflateLevel(r.Compression)
	w := &tiffWriter{f: f, deflate: deflate, level: level}

	for _, p := range job.Pages {
		img, err := r.loader.load(p)
		if err != nil {
			log.Warn("skipping page", "pageId", p.Id, "error", err)
			res.skip(p, err)
			continue
		}
		if err := w.writePage(flatten(img), p.Resolution); err != nil {
			f.Close()
			_ = os.Remove(partial)
			return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
		}
		res.PagesWritten++
	}

	if err := f.Close(); err != nil || res.PagesWritten == 0 {
		_ = os.Remove(partial)
		if err != nil {
			return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
		}
		return res, noPagesError(job, res)
	}
	if err := commit(partial, job.OutputPath); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	res.OutputPaths = []string{job.OutputPath}
	return res, nil
}

// deflateLevel maps the template compression to a zlib level. Strips are
// stored uncompressed when deflate is false.
func deflateLevel(c exportModel.Compression) (level int, deflate bool) {
	switch c {
	case exportModel.CompressionNone:
		return 0, false
	case exportModel.CompressionLow:
		return zlib.BestSpeed, true
	case exportModel.CompressionHigh:
		return zlib.BestCompression, true
	}
	return zlib.DefaultCompression, true
}

// tiffWriter appends pages to a little-endian TIFF file. Each page is
// written as strip data, then its out-of-line values, then its IFD; the
// previous IFD's next pointer is patched once the new IFD offset is known.
type tiffWriter struct {
	f        *os.File
	deflate  bool
	level    int
	offset   uint32
	nextLink uint32
}

func (w *tiffWriter) writePage(img *image.NRGBA, dpi int) error {
	if w.offset == 0 {
		header := []byte{'I', 'I', 42, 0, 0, 0, 0, 0}
		if err := w.write(header); err != nil {
			return err
		}
		w.nextLink = 4
	}

	strip, compression, err := w.encodeStrip(img)
	if err != nil {
		return err
	}
	stripOffset := w.offset
	if err := w.write(strip); err != nil {
		return err
	}
	if err := w.pad(); err != nil {
		return err
	}

	if dpi <= 0 {
		dpi = 72
	}
	extraOffset := w.offset
	extra := make([]byte, 0, 22)
	extra = binary.LittleEndian.AppendUint16(extra, 8)
	extra = binary.LittleEndian.AppendUint16(extra, 8)
	extra = binary.LittleEndian.AppendUint16(extra, 8)
	for range 2 {
		extra = binary.LittleEndian.AppendUint32(extra, uint32(dpi))
		extra = binary.LittleEndian.AppendUint32(extra, 1)
	}
	if err := w.write(extra); err != nil {
		return err
	}
	if err := w.pad(); err != nil {
		return err
	}

	b := img.Bounds()
	entries := [ifdEntryCount][4]uint32{
		{tagImageWidth, typeLong, 1, uint32(b.Dx())},
		{tagImageLength, typeLong, 1, uint32(b.Dy())},
		{tagBitsPerSample, typeShort, 3, extraOffset},
		{tagCompression, typeShort, 1, compression},
		{tagPhotometric, typeShort, 1, photometricRGB},
		{tagStripOffsets, typeLong, 1, stripOffset},
		{tagSamplesPerPixel, typeShort, 1, 3},
		{tagRowsPerStrip, typeLong, 1, uint32(b.Dy())},
		{tagStripByteCounts, typeLong, 1, uint32(len(strip))},
		{tagXResolution, typeRational, 1, extraOffset + 6},
		{tagYResolution, typeRational, 1, extraOffset + 14},
		{tagPlanarConfig, typeShort, 1, 1},
		{tagResolutionUnit, typeShort, 1, unitInch},
	}

	ifdOffset := w.offset
	ifd := make([]byte, 0, 2+12*ifdEntryCount+4)
	ifd = binary.LittleEndian.AppendUint16(ifd, ifdEntryCount)
	for _, e := range entries {
		ifd = binary.LittleEndian.AppendUint16(ifd, uint16(e[0]))
		ifd = binary.LittleEndian.AppendUint16(ifd, uint16(e[1]))
		ifd = binary.LittleEndian.AppendUint32(ifd, e[2])
		if e[1] == typeShort && e[2] == 1 {
			// single SHORT values are left-justified in the value field
			ifd = binary.LittleEndian.AppendUint16(ifd, uint16(e[3]))
			ifd = binary.LittleEndian.AppendUint16(ifd, 0)
		} else {
			ifd = binary.LittleEndian.AppendUint32(ifd, e[3])
		}
	}
	ifd = binary.LittleEndian.AppendUint32(ifd, 0)
	if err := w.write(ifd); err != nil {
		return err
	}

	var link [4]byte
	binary.LittleEndian.PutUint32(link[:], ifdOffset)
	if _, err := w.f.WriteAt(link[:], int64(w.nextLink)); err != nil {
		return fmt.Errorf("link ifd: %w", err)
	}
	w.nextLink = ifdOffset + uint32(len(ifd)) - 4
	return nil
}

func (w *tiffWriter) encodeStrip(img *image.NRGBA) ([]byte, uint32, error) {
	b := img.Bounds()
	raw := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			raw = append(raw, row[x], row[x+1], row[x+2])
		}
	}
	if !w.deflate {
		return raw, compressionNone, nil
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, w.level)
	if err != nil {
		return nil, 0, err
	}
	if _, err := io.Copy(zw, bytes.NewReader(raw)); err != nil {
		return nil, 0, err
	}
	if err := zw.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), compressionDeflate, nil
}

func (w *tiffWriter) write(p []byte) error {
	n, err := w.f.Write(p)
	w.offset += uint32(n)
	if err != nil {
		return fmt.Errorf("write tiff: %w", err)
	}
	return nil
}

// pad keeps the next structure on a word boundary.
func (w *tiffWriter) pad() error {
	if w.offset%2 == 0 {
		return nil
	}
	return w.write([]byte{0})
}
