package romfile

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// entry is the common shape of zip and 7z members.
type entry interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

func firstEntry[E entry](files []E, name func(E) string, exts []string) ([]byte, string, error) {
	for _, f := range files {
		if f.FileInfo().IsDir() || !hasExt(name(f), exts) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", name(f), err)
		}
		data, err := readLimited(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("extract %s: %w", name(f), err)
		}
		return data, filepath.Base(name(f)), nil
	}
	return nil, "", ErrNoROM
}

func fromZip(path string, exts []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()
	return firstEntry(r.File, func(f *zip.File) string { return f.Name }, exts)
}

func from7z(path string, exts []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()
	return firstEntry(r.File, func(f *sevenzip.File) string { return f.Name }, exts)
}

func fromRar(path string, exts []string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open rar: %w", err)
	}
	defer r.Close()
	for {
		h, err := r.Next()
		if err == io.EOF {
			return nil, "", ErrNoROM
		}
		if err != nil {
			return nil, "", fmt.Errorf("read rar: %w", err)
		}
		if h.IsDir || !hasExt(h.Name, exts) {
			continue
		}
		data, err := readLimited(r)
		if err != nil {
			return nil, "", fmt.Errorf("extract %s: %w", h.Name, err)
		}
		return data, filepath.Base(h.Name), nil
	}
}

// fromGzip handles both a single gzipped image and a gzipped tarball.
func fromGzip(r io.Reader, path string, exts []string) ([]byte, string, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("open gzip: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		tr := tar.NewReader(gr)
		for {
			h, err := tr.Next()
			if err == io.EOF {
				return nil, "", ErrNoROM
			}
			if err != nil {
				return nil, "", fmt.Errorf("read tar: %w", err)
			}
			if h.Typeflag != tar.TypeReg || !hasExt(h.Name, exts) {
				continue
			}
			data, err := readLimited(tr)
			if err != nil {
				return nil, "", fmt.Errorf("extract %s: %w", h.Name, err)
			}
			return data, filepath.Base(h.Name), nil
		}
	}

	data, err := readLimited(gr)
	if err != nil {
		return nil, "", fmt.Errorf("decompress gzip: %w", err)
	}
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}
