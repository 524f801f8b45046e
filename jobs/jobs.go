package jobs

import (
	"fmt"
	"sort"
	"time"

	"github.com/KitchenMishap/pudding-pixels/compress"
	"github.com/KitchenMishap/pudding-pixels/config"
	"github.com/KitchenMishap/pudding-pixels/huffman"
	"github.com/KitchenMishap/pudding-pixels/imageio"
	"github.com/KitchenMishap/pudding-pixels/pixels"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// How many of the shortest codes get printed in the report
const REPORT_CODES = 8

// CompressImageToFiles loads the image, Huffman codes its pixels and writes
// the stream, then the optional table listing and JPEG preview.
// If compression fails nothing at all is written.
func CompressImageToFiles(cfg *config.Config) (*compress.Result, error) {
	var startTime = time.Now()
	elapsed := time.Since(startTime)
	fmt.Printf("The time is now: %s\n", startTime.Format(time.TimeOnly))
	fmt.Printf("[%5.1f sec] %s\n", elapsed.Seconds(), "==** Very start **==")

	img, err := imageio.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	px := pixels.FromImage(img)
	p := message.NewPrinter(language.English) // For commas between thousands
	p.Printf("Decoded %s: %d x %d, %d pixels\n", cfg.InputPath, img.Bounds().Dx(), img.Bounds().Dy(), len(px))

	elapsed = time.Since(startTime)
	fmt.Printf("[%5.1f sec] %s\n", elapsed.Seconds(), "==** Huffman coding **==")
	result, err := compress.Compress(px, compress.Options{Workers: cfg.Workers, Verify: cfg.Verify})
	if err != nil {
		return nil, err
	}
	if cfg.Verify {
		fmt.Printf("Round trip verified\n")
	}
	printReport(p, result)

	elapsed = time.Since(startTime)
	fmt.Printf("[%5.1f sec] %s\n", elapsed.Seconds(), "==** Writing files **==")
	if err := imageio.WriteStream(cfg.StreamPath, result.Stream, cfg.Format); err != nil {
		return nil, err
	}
	p.Printf("Stream (%s): %s\n", cfg.Format, cfg.StreamPath)

	if cfg.TablePath != "" {
		if err := imageio.WriteCodeTable(cfg.TablePath, result.Frequencies, result.Codes); err != nil {
			return nil, err
		}
		p.Printf("Code table: %s\n", cfg.TablePath)
	}

	if cfg.PreviewPath != "" {
		err := imageio.SavePreview(img, cfg.PreviewPath, imageio.PreviewOptions{Quality: cfg.Quality, MaxSize: cfg.PreviewMax})
		if err != nil {
			return nil, err
		}
		p.Printf("Preview (quality %d): %s\n", cfg.Quality, cfg.PreviewPath)
	}

	elapsed = time.Since(startTime)
	fmt.Printf("[%5.1f sec] %s\n", elapsed.Seconds(), "==** Finished **==")
	return result, nil
}

func printReport(p *message.Printer, result *compress.Result) {
	stats := result.Stats
	p.Printf("Distinct values: %d\n", stats.DistinctValues)
	p.Printf("Code lengths: %d to %d bits\n", stats.ShortestCode, stats.LongestCode)
	p.Printf("Compressed data length: %d bits (%d bytes)\n", stats.TotalBits, stats.TotalBytes)
	p.Printf("Uncompressed: %d bits\n", stats.RawBits())
	p.Printf("Entropy bound: %.0f bits\n", stats.EntropyBits)
	p.Printf("Mean code length: %.3f bits/pixel, ratio %.2f\n", stats.MeanCodeLength(), stats.Ratio())

	for _, line := range ShortestCodes(result.Frequencies, result.Codes, REPORT_CODES) {
		p.Printf("  %s\n", line)
	}
}

// ShortestCodes describes the n most popular values and their codes
func ShortestCodes(freqs pixels.FrequencyTable, codes huffman.CodeTable, n int) []string {
	entries := freqs.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%v x%d -> %s", e.Value, e.Count, codes[e.Value]))
	}
	return lines
}
