package docgen

import (
	"archive/zip"
	"path"
	"strings"
)

const (
	MediaDir = "word/media/"
	// DefaultPlaceholder is where the stock template keeps its QR stand-in.
	DefaultPlaceholder = MediaDir + "image1.png"
)

// PlaceholderResolver picks the archive entry to overwrite with the QR
// image. It reports false when it has no opinion.
type PlaceholderResolver func(files []*zip.File) (string, bool)

// FixedPath matches one exact entry name.
func FixedPath(name string) PlaceholderResolver {
	return func(files []*zip.File) (string, bool) {
		for _, f := range files {
			if f.Name == name {
				return name, true
			}
		}
		return "", false
	}
}

// ConfiguredName matches an operator-supplied file name. A bare name such as
// "image3.png" is looked up under word/media/. Empty never matches.
func ConfiguredName(name string) PlaceholderResolver {
	name = strings.TrimSpace(name)
	if name == "" {
		return func([]*zip.File) (string, bool) { return "", false }
	}
	if !strings.Contains(name, "/") {
		name = MediaDir + name
	}
	return FixedPath(name)
}

// LargestPNG picks the biggest PNG under dir. Icons are small; the stand-in
// QR image is usually the richest picture in the template.
func LargestPNG(dir string) PlaceholderResolver {
	return func(files []*zip.File) (string, bool) {
		var best *zip.File
		for _, f := range files {
			if !strings.HasPrefix(f.Name, dir) || !strings.EqualFold(path.Ext(f.Name), ".png") {
				continue
			}
			if best == nil || f.UncompressedSize64 > best.UncompressedSize64 {
				best = f
			}
		}
		if best == nil {
			return "", false
		}
		return best.Name, true
	}
}

// DefaultResolvers is the lookup order used by the generator.
func DefaultResolvers(configured string) []PlaceholderResolver {
	return []PlaceholderResolver{
		FixedPath(DefaultPlaceholder),
		ConfiguredName(configured),
		LargestPNG(MediaDir),
	}
}

// ResolvePlaceholder tries each resolver in order against the archive.
func ResolvePlaceholder(buf []byte, resolvers []PlaceholderResolver) (string, bool) {
	zr, err := openArchive(buf)
	if err != nil {
		return "", false
	}
	for _, resolve := range resolvers {
		if name, ok := resolve(zr.File); ok {
			return name, true
		}
	}
	return "", false
}
