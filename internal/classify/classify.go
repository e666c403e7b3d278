// Package classify maps file names onto semantic file type labels.
package classify

import "strings"

// UnknownFileType is returned for names matching neither table.
const UnknownFileType = "Unknown"

const extensionSeparator = "."

// wellKnownFileNames is consulted before the extension table.
var wellKnownFileNames = map[string]string{
	"package.json":       "Package JSON",
	"next.config.js":     "Next.js Config",
	"tailwind.config.js": "Tailwind Config",
	"three.js":           "Three.js",
}

var extensionFileTypes = map[string]string{
	"js":        "JavaScript",
	"jsx":       "React JavaScript",
	"ts":        "TypeScript",
	"tsx":       "React TypeScript",
	"css":       "CSS",
	"scss":      "SCSS",
	"html":      "HTML",
	"json":      "JSON",
	"md":        "Markdown",
	"py":        "Python",
	"env":       "Environment Variables",
	"gitignore": "Git Ignore",
	"yml":       "YAML",
	"yaml":      "YAML",
}

// Classify returns the file type label for fileName. Exact well-known names win
// over extensions; anything else is UnknownFileType.
func Classify(fileName string) string {
	fileType, _ := lookup(fileName)
	return fileType
}

// IsRecognized reports whether fileName matches either table and therefore
// takes part in a scan.
func IsRecognized(fileName string) bool {
	_, recognized := lookup(fileName)
	return recognized
}

func lookup(fileName string) (string, bool) {
	if fileType, known := wellKnownFileNames[fileName]; known {
		return fileType, true
	}
	if extension := Extension(fileName); extension != "" {
		if fileType, known := extensionFileTypes[extension]; known {
			return fileType, true
		}
	}
	return UnknownFileType, false
}

// Extension returns the substring after the last dot, or an empty string when
// the name contains no dot.
func Extension(fileName string) string {
	separatorIndex := strings.LastIndex(fileName, extensionSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return fileName[separatorIndex+1:]
}
