package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// MainPart is the body text part of a .docx.
const MainPart = "word/document.xml"

func openArchive(buf []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return zr, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadEntry returns the bytes of one archive entry.
func ReadEntry(buf []byte, name string) ([]byte, error) {
	zr, err := openArchive(buf)
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.Name == name {
			return readFile(f)
		}
	}
	return nil, fmt.Errorf("entry %s: %w", name, ErrEntryNotFound)
}

// rewriteFunc returns replacement bytes for an entry, or nil to keep it as is.
type rewriteFunc func(f *zip.File) ([]byte, error)

// rewriteArchive builds a new archive from buf. Untouched entries are copied
// raw, keeping their original compression and order.
func rewriteArchive(buf []byte, fn rewriteFunc) ([]byte, error) {
	zr, err := openArchive(buf)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		data, err := fn(f)
		if err != nil {
			return nil, err
		}
		if data == nil {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return out.Bytes(), nil
}

// Splice returns a copy of buf with entry name replaced by data.
func Splice(buf []byte, name string, data []byte) ([]byte, error) {
	found := false
	out, err := rewriteArchive(buf, func(f *zip.File) ([]byte, error) {
		if f.Name != name {
			return nil, nil
		}
		found = true
		if data == nil {
			return []byte{}, nil
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("entry %s: %w", name, ErrEntryNotFound)
	}
	return out, nil
}
