package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/KitchenMishap/pudding-pixels/imageio"
	"github.com/joho/godotenv"
)

const EnvPrefix = "PIXELHUFF_"

// DefaultEnvFile is read if present. A missing file is not an error.
const DefaultEnvFile = ".env"

type Config struct {
	InputPath   string
	StreamPath  string
	Format      imageio.StreamFormat
	TablePath   string // Empty: no code table listing
	PreviewPath string // Empty: no JPEG preview
	Quality     int
	PreviewMax  int
	Workers     int
	Verify      bool
}

func Default() Config {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers -= 2 // Some spare for the OS
	}
	return Config{
		InputPath:   "images.png",
		StreamPath:  "compressed_image.bin",
		Format:      imageio.FormatPacked,
		PreviewPath: "output_image.jpg",
		Quality:     imageio.DefaultQuality,
		Workers:     workers,
	}
}

// Load layers the settings: defaults, then envFile, then the process
// environment, then command line flags. Later layers win.
func Load(args []string, envFile string) (*Config, error) {
	cfg := Default()

	env, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	fset := flag.NewFlagSet("pudding-pixels", flag.ContinueOnError)
	format := string(cfg.Format)
	fset.StringVar(&cfg.InputPath, "In", cfg.InputPath, "Image to compress")
	fset.StringVar(&cfg.StreamPath, "Out", cfg.StreamPath, "Where to write the encoded stream")
	fset.StringVar(&format, "Format", format, "Stream format: packed or text")
	fset.StringVar(&cfg.TablePath, "Table", cfg.TablePath, "Where to write the code table listing (optional)")
	fset.StringVar(&cfg.PreviewPath, "Preview", cfg.PreviewPath, "Where to write the JPEG preview (empty to skip)")
	fset.IntVar(&cfg.Quality, "Quality", cfg.Quality, "JPEG preview quality, 1-100")
	fset.IntVar(&cfg.PreviewMax, "PreviewMax", cfg.PreviewMax, "Shrink the preview to fit this many pixels square (0 keeps size)")
	fset.IntVar(&cfg.Workers, "Workers", cfg.Workers, "Goroutines for counting and encoding (1 for none)")
	fset.BoolVar(&cfg.Verify, "Verify", cfg.Verify, "Decode the stream again and compare before writing")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Format, err = imageio.ParseStreamFormat(format); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	strs := map[string]*string{
		"IN":      &c.InputPath,
		"OUT":     &c.StreamPath,
		"TABLE":   &c.TablePath,
		"PREVIEW": &c.PreviewPath,
	}
	for key, dst := range strs {
		if v, ok := env[EnvPrefix+key]; ok {
			*dst = v
		}
	}
	ints := map[string]*int{
		"QUALITY":     &c.Quality,
		"PREVIEW_MAX": &c.PreviewMax,
		"WORKERS":     &c.Workers,
	}
	for key, dst := range ints {
		if v, ok := env[EnvPrefix+key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}
	if v, ok := env[EnvPrefix+"VERIFY"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sVERIFY: %w", EnvPrefix, err)
		}
		c.Verify = b
	}
	if v, ok := env[EnvPrefix+"FORMAT"]; ok {
		f, err := imageio.ParseStreamFormat(v)
		if err != nil {
			return err
		}
		c.Format = f
	}
	return nil
}

func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("no input image given")
	}
	if c.StreamPath == "" {
		return errors.New("no output path given for the stream")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be 1-100, got %d", c.Quality)
	}
	if c.PreviewMax < 0 {
		return fmt.Errorf("preview size must not be negative, got %d", c.PreviewMax)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
