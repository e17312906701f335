package moelist

// Package file check.go contains the sanity checks of read archives.

import (
	"slices"
	"strings"
)

// DefaultTag is the comment label suffix expected on shared archives.
const DefaultTag = "moeshare"

// Warning is a problem found with the read archives.
type Warning string

const (
	WarnNonImage Warning = "存在非图片文件"  // WarnNonImage is an archive containing files that are not images.
	WarnLabel    Warning = "不符合规则的标签" // WarnLabel is an archive comment without the tag.
)

func images() []string {
	return []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tiff", "tif"}
}

// HasNonImageExtension returns true if the archive contains any file
// extension that is not a common image format.
func HasNonImageExtension(info Info) bool {
	img := images()
	for _, x := range info.Exts {
		if !slices.Contains(img, x) {
			return true
		}
	}
	return false
}

// HasProperComment returns true if the lowercase archive comment ends with
// the tag. An empty tag uses DefaultTag.
func HasProperComment(info Info, tag string) bool {
	if tag == "" {
		tag = DefaultTag
	}
	return strings.HasSuffix(strings.ToLower(info.Comment), strings.ToLower(tag))
}

// Check returns the warnings for the infos, each warning is listed once.
func Check(infos []Info, tag string) []Warning {
	warns := []Warning{}
	for _, info := range infos {
		if !slices.Contains(warns, WarnNonImage) && HasNonImageExtension(info) {
			warns = append(warns, WarnNonImage)
		}
	}
	for _, info := range infos {
		if !HasProperComment(info, tag) {
			warns = append(warns, WarnLabel)
			break
		}
	}
	return warns
}
