package imageio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/pixels"
)

type StreamFormat string

const (
	FormatPacked StreamFormat = "packed" // Raw bytes, 8 bits each, last byte zero padded
	FormatText   StreamFormat = "text"   // One ASCII '0' or '1' per bit
)

func ParseStreamFormat(s string) (StreamFormat, error) {
	switch StreamFormat(s) {
	case FormatPacked, FormatText:
		return StreamFormat(s), nil
	}
	return "", fmt.Errorf("unknown stream format '%s' (want %s or %s)", s, FormatPacked, FormatText)
}

func WriteStream(path string, s *huffman.EncodedStream, format StreamFormat) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		switch format {
		case FormatPacked:
			_, err := w.Write(s.Data)
			return err
		case FormatText:
			_, err := io.WriteString(w, s.Text())
			return err
		}
		return fmt.Errorf("unknown stream format '%s'", format)
	})
}

// WriteCodeTable writes a human readable listing of the table, shortest codes
// first. It is for inspection only; nothing reads it back.
func WriteCodeTable(path string, freqs pixels.FrequencyTable, codes huffman.CodeTable) error {
	type row struct {
		value pixels.Value
		code  huffman.BitCode
	}
	rows := make([]row, 0, len(codes))
	for v, c := range codes {
		rows = append(rows, row{v, c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].code.Length != rows[j].code.Length {
			return rows[i].code.Length < rows[j].code.Length
		}
		return rows[i].code.Bits < rows[j].code.Bits
	})
	return writeFileAtomic(path, func(w io.Writer) error {
		for _, r := range rows {
			v := r.value
			if _, err := fmt.Fprintf(w, "%d %d %d %d\t%d\t%s\n", v[0], v[1], v[2], v[3], freqs[v], r.code); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFileAtomic writes into a temp file next to path and renames it over
// path only once fill succeeded. On any error nothing is left behind.
func writeFileAtomic(path string, fill func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	writer := bufio.NewWriter(tmp)
	if err = fill(writer); err != nil {
		return fmt.Errorf("could not write content to file '%s': %w", path, err)
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("could not flush data to file '%s': %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("could not set mode of '%s': %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close file '%s': %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename into '%s': %w", path, err)
	}
	return nil
}
