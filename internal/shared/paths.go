package shared

import "strings"

// filenameStripper removes characters that are illegal in file names on at
// least one supported platform.
var filenameStripper = strings.NewReplacer(
	`\`, "", `/`, "", `*`, "", `?`, "", `:`, "",
	`"`, "", `<`, "", `>`, "", `|`, "",
)

// SanitizeFilename strips characters illegal in filenames so a playlist title
// can be used as a folder name. The result may be empty for degenerate titles.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameStripper.Replace(name))
}
