package syntax

import (
	"path/filepath"
	"strings"
)

// builtins maps a language name to its script.
var builtins = map[string]string{
	"go": `
line_comment = "//"
function indent_after(line) return line:match("[{(%[]%s*$") ~= nil end
function outdent_line(line) return line:match("^%s*[})%]]") ~= nil end
`,
	"c": `
line_comment = "//"
function indent_after(line) return line:match("{%s*$") ~= nil end
function outdent_line(line) return line:match("^%s*}") ~= nil end
`,
	"lua": `
line_comment = "--"
local openers = { "then%s*$", "do%s*$", "else%s*$", "repeat%s*$", "function.*%)%s*$", "{%s*$" }
function indent_after(line)
  for _, p in ipairs(openers) do
    if line:match(p) then return true end
  end
  return false
end
function outdent_line(line)
  return line:match("^%s*end%s*$") ~= nil or line:match("^%s*else") ~= nil
      or line:match("^%s*until") ~= nil or line:match("^%s*}") ~= nil
end
`,
	"python": `
line_comment = "#"
function indent_after(line) return line:match(":%s*$") ~= nil end
`,
	"shell": `
line_comment = "#"
function indent_after(line)
  return line:match("then%s*$") ~= nil or line:match("do%s*$") ~= nil
      or line:match("{%s*$") ~= nil or line:match("else%s*$") ~= nil
end
function outdent_line(line)
  return line:match("^%s*fi%s*$") ~= nil or line:match("^%s*done%s*$") ~= nil
      or line:match("^%s*}") ~= nil or line:match("^%s*else") ~= nil
end
`,
	"toml": `line_comment = "#"`,
	"yaml": `
line_comment = "#"
function indent_after(line) return line:match(":%s*$") ~= nil end
`,
}

var extensions = map[string]string{
	".go":   "go",
	".c":    "c",
	".h":    "c",
	".js":   "c",
	".ts":   "c",
	".rs":   "c",
	".java": "c",
	".lua":  "lua",
	".py":   "python",
	".sh":   "shell",
	".bash": "shell",
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
}

// Languages returns the names of the built-in languages.
func Languages() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

// Builtin loads a built-in language by name.
func Builtin(name string, opts ...Option) (*Script, bool) {
	src, ok := builtins[name]
	if !ok {
		return nil, false
	}
	s, err := Load(name, src, opts...)
	if err != nil {
		return nil, false
	}
	return s, true
}

// ForPath picks a built-in language from a file name.
func ForPath(path string, opts ...Option) (*Script, bool) {
	name, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, false
	}
	return Builtin(name, opts...)
}
