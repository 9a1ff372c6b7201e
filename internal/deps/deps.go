package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli() Status {
	return check("whisper-cli", "--version")
}

// CheckPwRecord checks if pw-record (pipewire tools) is installed
func CheckPwRecord() Status {
	return check("pw-record", "--version")
}

// Require returns an error naming the install hint when the tool is missing
func Require(name string, status Status, hint string) error {
	if status.Installed {
		return nil
	}
	return fmt.Errorf("%s not found in PATH (%s)", name, hint)
}

func check(name, versionFlag string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	// first line of the version output, when the tool supports it
	output, err := exec.Command(path, versionFlag).Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}
