// Package format writes the summary forum post of read archives.
//
// There are three styles, a plain text preview, the preview wrapped in
// BBCode for posting, and a BBCode table. Every style returns an empty
// string when there are no archives.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Defacto2/moelist"
	"github.com/Defacto2/moelist/bonus"
	"github.com/Defacto2/moelist/tier"
)

// Version is the default program version written in the first line of a post.
const Version = "v0.0.1"

var ErrStyle = errors.New("format style is unknown")

// Style is the format of a post.
type Style string

const (
	PreviewStyle Style = "preview" // PreviewStyle is the plain text preview.
	CodeStyle    Style = "code"    // CodeStyle is the preview wrapped in BBCode.
	TableStyle   Style = "table"   // TableStyle is the BBCode table.
)

// Styles returns the styles in the order they are offered.
func Styles() []Style {
	return []Style{PreviewStyle, CodeStyle, TableStyle}
}

// ParseStyle returns the style of the case-insensitive name.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case PreviewStyle, CodeStyle, TableStyle:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrStyle, name)
}

// Formatter writes posts using the bonus rules.
// The zero value uses the default rules and version.
type Formatter struct {
	Rules   bonus.Rules // Rules for the bonus lines, nil uses [bonus.Default].
	Version string      // Version in the first line, empty uses [Version].
}

func (f Formatter) rules() bonus.Rules {
	if f.Rules == nil {
		return bonus.Default()
	}
	return f.Rules
}

func (f Formatter) version() string {
	if f.Version == "" {
		return Version
	}
	return f.Version
}

// Format returns the post in the style.
// An unknown style returns the preview.
func (f Formatter) Format(s Style, infos []moelist.Info, categories []bonus.Category) string {
	switch s {
	case CodeStyle:
		return f.Code(infos, categories)
	case TableStyle:
		return f.Table(infos, categories)
	case PreviewStyle:
	}
	return f.Preview(infos, categories)
}

const (
	header = "   体积(M) 类型 文件数量                 扩展名           标签                 档案名"
	more   = "..."
)

func divider() string {
	widths := []int{10, 4, 24, 16, 20, 24}
	cols := make([]string, len(widths))
	for i, w := range widths {
		cols[i] = strings.Repeat("-", w)
	}
	return strings.Join(cols, " ")
}

// Preview returns the plain text post.
func (f Formatter) Preview(infos []moelist.Info, categories []bonus.Category) string {
	if len(infos) == 0 {
		return ""
	}
	lines := []string{"moelist " + f.version(), header, divider()}
	for _, info := range infos {
		summary := fmt.Sprintf("%d files, %d folders", info.Files, info.Folders)
		lines = append(lines, fmt.Sprintf("%10s %4s %-24s %-16s %-20s %s",
			Megabytes(info.Size),
			tier.Classify(info.Size),
			summary,
			strings.Join(info.Exts, ", "),
			Truncate(info.Comment, 16),
			info.Name))
	}
	lines = append(lines, divider())
	size, files, folders := totals(infos)
	lines = append(lines, fmt.Sprintf("%10s      %d files, %d folders", Megabytes(size), files, folders))
	for _, item := range f.rules().Total(infos, categories) {
		lines = append(lines, fmt.Sprintf("%sMB奖励: %s + %s", item.Label, ceil(item.Base), ceil(item.Extra)))
	}
	return strings.Join(lines, "\n")
}

// Code returns the preview post wrapped in a BBCode quote,
// with the version highlighted.
func (f Formatter) Code(infos []moelist.Info, categories []bonus.Category) string {
	if len(infos) == 0 {
		return ""
	}
	content := f.Preview(infos, categories)
	content = strings.Replace(content, "moelist "+f.version(), f.title(), 1)
	return strings.Join([]string{"[quote][font=黑体]", content, "[/font][/quote]"}, "\n")
}

func (f Formatter) title() string {
	return "moelist [color=red][b]" + f.version() + "[/b][/color]"
}

// Table returns the BBCode table post.
// It lists the archives, the count of each size tier and the suggested bonus
// with and without the label tag.
func (f Formatter) Table(infos []moelist.Info, categories []bonus.Category) string {
	if len(infos) == 0 {
		return ""
	}
	lines := []string{"[quote]", f.title(), "[table=100%][tr]" +
		"[td]档案[/td]" +
		right("体积(M)") +
		right("体积类型") +
		right("文件数") +
		right("文件夹数") +
		"[td]标签[/td]" +
		"[td]扩展名[/td][/tr]"}
	order := []tier.Tier{}
	count := map[tier.Tier]int{}
	for _, info := range infos {
		t := tier.Classify(info.Size)
		lines = append(lines, "[tr][td]"+info.Name+"[/td]"+
			right(Megabytes(info.Size))+
			right(t.String())+
			right(strconv.Itoa(info.Files))+
			right(strconv.Itoa(info.Folders))+
			"[td]"+Truncate(info.Comment, 30)+"[/td]"+
			"[td]"+strings.Join(info.Exts, ", ")+"[/td][/tr]")
		if count[t] == 0 {
			order = append(order, t)
		}
		count[t]++
	}
	size, files, folders := totals(infos)
	lines = append(lines, "[tr][td]总计[/td]"+
		right(Megabytes(size))+
		"[td][/td]"+
		right(strconv.Itoa(files))+
		right(strconv.Itoa(folders))+
		"[td][/td][td][/td][/tr]",
		"[/table]")

	var tiers strings.Builder
	tiers.WriteString("[table=40%][tr]")
	for _, t := range order {
		tiers.WriteString("[td]" + t.String() + "[/td]")
	}
	tiers.WriteString("[td]总共[/td][/tr][tr]")
	for _, t := range order {
		tiers.WriteString("[td]" + strconv.Itoa(count[t]) + "[/td]")
	}
	tiers.WriteString("[td]" + strconv.Itoa(len(infos)) + "[/td][/tr][/table]")
	lines = append(lines, tiers.String())

	lines = append(lines, "[table=40%][tr][td]MB奖励建议[/td][td]带标签[/td][td]不带标签[/td][/tr]")
	for _, item := range f.rules().Total(infos, categories) {
		lines = append(lines, "[tr][td]"+item.Label+"[/td]"+
			"[td]"+ceil(item.Base+item.Extra)+"[/td]"+
			"[td]"+ceil(item.Base)+"[/td][/tr]")
	}
	lines = append(lines, "[/table]", "[/quote]")
	return strings.Join(lines, "\n")
}

func right(s string) string {
	return "[td][align=right]" + s + "[/align][/td]"
}

func totals(infos []moelist.Info) (int64, int, int) {
	var (
		size           int64
		files, folders int
	)
	for _, info := range infos {
		size += info.Size
		files += info.Files
		folders += info.Folders
	}
	return size, files, folders
}

func ceil(x float64) string {
	return strconv.FormatFloat(math.Ceil(x), 'f', 0, 64)
}

// Megabytes returns the bytes as binary megabytes with two decimal places,
// rounded half up.
func Megabytes(bytes int64) string {
	const half = 1 << 19
	if bytes < 0 {
		return "-" + Megabytes(-bytes)
	}
	cents := (bytes/(1<<20))*100 + ((bytes%(1<<20))*100+half)/(1<<20)
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// Truncate returns the first n characters of s followed by "...",
// or s when it has no more than n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + more
}

// Preview returns the plain text post using the default formatter.
func Preview(infos []moelist.Info, categories []bonus.Category) string {
	return Formatter{}.Preview(infos, categories)
}

// Code returns the BBCode quoted post using the default formatter.
func Code(infos []moelist.Info, categories []bonus.Category) string {
	return Formatter{}.Code(infos, categories)
}

// Table returns the BBCode table post using the default formatter.
func Table(infos []moelist.Info, categories []bonus.Category) string {
	return Formatter{}.Table(infos, categories)
}
