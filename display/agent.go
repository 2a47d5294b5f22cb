package display

import "os"

// IsAgentEnvironment reports whether biograf is being driven by a coding
// agent or other machine caller rather than a person at a terminal. Agents
// get compact JSON by default; humans get colored text.
func IsAgentEnvironment() bool {
	// Explicit override wins
	if os.Getenv("BIOGRAF_CALLER") == "agent" {
		return true
	}

	// Markers set by common agentic tools
	if os.Getenv("CLAUDECODE") != "" || os.Getenv("CLAUDE_CODE_ENTRYPOINT") != "" {
		return true
	}
	if os.Getenv("CURSOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_COPILOT") != "" {
		return true
	}

	return false
}
