// Package archive unpacks downloaded release and font archives.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/femnad/mare"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/femnad/kur/internal"
)

const (
	bzipMimeType       = "application/x-bzip2"
	dirMode            = 0o755
	fontCollectionType = "font/collection"
	gzipMimeType       = "application/gzip"
	otfMimeType        = "font/otf"
	sevenZipMimeType   = "application/x-7z-compressed"
	tarMimeType        = "application/x-tar"
	ttfMimeType        = "font/ttf"
	xzMimeType         = "application/x-xz"
	zipMimeType        = "application/zip"
	zstdMimeType       = "application/zstd"
)

var (
	ErrUnsupportedType = errors.New("unsupported archive type")

	bareFontExtensions = []string{".otf", ".ttc", ".ttf"}
)

type extractionFn func(src, dest string) error

// safeJoin resolves name under dest, refusing entries that would land outside of it.
func safeJoin(dest, name string) (string, error) {
	dest = filepath.Clean(dest)
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %s escapes extraction dir %s", name, dest)
	}
	return target, nil
}

func writeFile(outputPath string, mode fs.FileMode, reader io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), dirMode); err != nil {
		return err
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm|0o600)
	if err != nil {
		return err
	}

	_, err = io.Copy(file, reader)
	if err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

func writeEntry(dest, name string, info fs.FileInfo, open func() (io.ReadCloser, error)) error {
	outputPath, err := safeJoin(dest, name)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return os.MkdirAll(outputPath, dirMode)
	}

	reader, err := open()
	if err != nil {
		return err
	}
	defer reader.Close()

	return writeFile(outputPath, info.Mode(), reader)
}

func unzip(src, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, f := range reader.File {
		if err = writeEntry(dest, f.Name, f.FileInfo(), f.Open); err != nil {
			return err
		}
	}

	return nil
}

func un7z(src, dest string) error {
	reader, err := sevenzip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, f := range reader.File {
		if err = writeEntry(dest, f.Name, f.FileInfo(), f.Open); err != nil {
			return err
		}
	}

	return nil
}

func getTarReader(reader io.Reader, fileType string) (io.Reader, func(), error) {
	noop := func() {}
	switch fileType {
	case gzipMimeType:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, noop, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case bzipMimeType:
		return bzip2.NewReader(reader), noop, nil
	case tarMimeType:
		return reader, noop, nil
	case xzMimeType:
		xzReader, err := xz.NewReader(reader)
		return xzReader, noop, err
	case zstdMimeType:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, noop, err
		}
		return decoder, decoder.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unable to determine tar reader for file type %s", ErrUnsupportedType,
			fileType)
	}
}

func symlink(dest, name, linkname string) error {
	outputPath, err := safeJoin(dest, name)
	if err != nil {
		return err
	}

	if filepath.IsAbs(linkname) {
		return fmt.Errorf("archive entry %s links to absolute path %s", name, linkname)
	}
	if _, err = safeJoin(dest, filepath.Join(filepath.Dir(name), linkname)); err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(outputPath), dirMode); err != nil {
		return err
	}
	return os.Symlink(linkname, outputPath)
}

func untar(fileType string) extractionFn {
	return func(src, dest string) error {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()

		reader, closer, err := getTarReader(f, fileType)
		if err != nil {
			return err
		}
		defer closer()

		tarReader := tar.NewReader(reader)
		for {
			header, err := tarReader.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			switch header.Typeflag {
			case tar.TypeDir, tar.TypeReg:
				err = writeEntry(dest, header.Name, header.FileInfo(), func() (io.ReadCloser, error) {
					return io.NopCloser(tarReader), nil
				})
			case tar.TypeSymlink:
				err = symlink(dest, header.Name, header.Linkname)
			default:
				internal.Log.Debugf("Skipping tar entry %s of type %c", header.Name, header.Typeflag)
			}
			if err != nil {
				return err
			}
		}
	}
}

func copyBareFile(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeFile(filepath.Join(dest, filepath.Base(src)), 0o644, f)
}

func isBareFont(src string) bool {
	ext := strings.ToLower(filepath.Ext(src))
	return mare.Contains(bareFontExtensions, ext)
}

func getExtractionFn(src, fileType string) (extractionFn, error) {
	switch fileType {
	case zipMimeType:
		return unzip, nil
	case sevenZipMimeType:
		return un7z, nil
	case bzipMimeType, gzipMimeType, tarMimeType, xzMimeType, zstdMimeType:
		return untar(fileType), nil
	case fontCollectionType, otfMimeType, ttfMimeType:
		return copyBareFile, nil
	}

	if isBareFont(src) {
		return copyBareFile, nil
	}

	return nil, fmt.Errorf("%w: %s has type %s", ErrUnsupportedType, src, fileType)
}

// Extract unpacks src into dest according to its detected content type. A bare font file is
// copied into dest as is.
func Extract(src, dest string) error {
	fileType, err := mimetype.DetectFile(src)
	if err != nil {
		return err
	}
	internal.Log.Debugf("Detected type of %s as %s", src, fileType.String())

	extractFn, err := getExtractionFn(src, fileType.String())
	if err != nil {
		return err
	}

	if err = os.MkdirAll(dest, dirMode); err != nil {
		return err
	}

	return extractFn(src, dest)
}
