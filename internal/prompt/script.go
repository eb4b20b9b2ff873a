package prompt

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"impltrack/internal/config"
)

// CodeFile is one file in an assistant code response.
type CodeFile struct {
	Filename    string `json:"filename"`
	Filepath    string `json:"filepath"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// CodeResponse is the JSON document the assistant returns for an
// implementation prompt.
type CodeResponse struct {
	Files             []CodeFile `json:"files"`
	Dependencies      []string   `json:"dependencies"`
	InstallationNotes string     `json:"installation_notes"`
}

// ParseCodeResponse parses an assistant code response. Every file needs at
// least a filename and a target path.
func ParseCodeResponse(data []byte) (*CodeResponse, error) {
	var resp CodeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse code response: %w", err)
	}
	if len(resp.Files) == 0 {
		return nil, fmt.Errorf("code response contains no files")
	}
	for i, f := range resp.Files {
		if f.Filename == "" || f.Filepath == "" {
			return nil, fmt.Errorf("file %d: missing filename or filepath", i+1)
		}
	}
	return &resp, nil
}

// ShellScript renders the commands that drop the response files into the
// work directory, in the configured shell dialect.
func ShellScript(workDir string, shell config.ShellType, files []CodeFile) string {
	switch shell {
	case config.ShellBash:
		return bashScript(workDir, files)
	case config.ShellCmd:
		return cmdScript(workDir, files)
	default:
		return powershellScript(workDir, files)
	}
}

func powershellScript(workDir string, files []CodeFile) string {
	var b strings.Builder
	b.WriteString("# Change to the work directory\n")
	fmt.Fprintf(&b, "cd '%s'\n\n", workDir)

	for _, f := range files {
		if dir := path.Dir(f.Filepath); dir != "" && dir != "." {
			fmt.Fprintf(&b, "# Create directory for %s\n", f.Filename)
			fmt.Fprintf(&b, "New-Item -ItemType Directory -Force -Path '%s' | Out-Null\n\n", dir)
		}

		varName := strings.NewReplacer(".", "_", "-", "_").Replace(f.Filename)
		fmt.Fprintf(&b, "# Write %s\n", f.Filename)
		fmt.Fprintf(&b, "$%s = @'\n%s\n'@\n\n", varName, f.Content)
		fmt.Fprintf(&b, "$%s | Out-File -FilePath '%s' -Encoding UTF8\n\n", varName, f.Filepath)
		fmt.Fprintf(&b, "# Check\nGet-Content '%s' | Select-Object -First 10\n\n", f.Filepath)
		b.WriteString("# " + strings.Repeat("-", 50) + "\n\n")
	}

	return b.String()
}

func bashScript(workDir string, files []CodeFile) string {
	var b strings.Builder
	b.WriteString("# Change to the work directory\n")
	fmt.Fprintf(&b, "cd '%s'\n\n", workDir)

	for _, f := range files {
		if dir := path.Dir(f.Filepath); dir != "" && dir != "." {
			fmt.Fprintf(&b, "# Create directory for %s\n", f.Filename)
			fmt.Fprintf(&b, "mkdir -p '%s'\n\n", dir)
		}

		fmt.Fprintf(&b, "# Write %s\n", f.Filename)
		fmt.Fprintf(&b, "cat > '%s' << 'IMPLTRACK_EOF'\n%s\nIMPLTRACK_EOF\n\n", f.Filepath, f.Content)
		fmt.Fprintf(&b, "# Check\nhead -10 '%s'\n\n", f.Filepath)
		b.WriteString("# " + strings.Repeat("-", 50) + "\n\n")
	}

	return b.String()
}

func cmdScript(workDir string, files []CodeFile) string {
	var b strings.Builder
	b.WriteString("REM Change to the work directory\n")
	fmt.Fprintf(&b, "cd /d \"%s\"\n\n", workDir)

	for _, f := range files {
		if dir := path.Dir(f.Filepath); dir != "" && dir != "." {
			fmt.Fprintf(&b, "REM Create directory for %s\n", f.Filename)
			fmt.Fprintf(&b, "if not exist \"%s\" mkdir \"%s\"\n\n", dir, dir)
		}

		fmt.Fprintf(&b, "REM Write %s line by line is impractical in cmd; use the generated file below\n", f.Filename)
		fmt.Fprintf(&b, "REM %s -> %s\n\n", f.Filename, f.Filepath)
	}
	b.WriteString("REM cmd cannot reliably embed multi-line file contents; prefer powershell or bash.\n")

	return b.String()
}
