package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/biograf/biograf/config"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/match"
	"github.com/biograf/biograf/persons"
	"github.com/biograf/biograf/version"
)

// McpCmd represents the mcp command
var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve read-only store tools over the Model Context Protocol",
	Long: `Run a Model Context Protocol server on stdio, exposing read-only
tools for agent use: person_show, person_search, and match_score. No
mutating tools are offered.

Examples:
  biograf mcp`,
	RunE: runMcp,
}

func runMcp(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	s := newMCPServer(store, cfg)
	if watcher := setupConfigWatcher(cmd, s); watcher != nil {
		defer watcher.Stop()
	}
	return s.Serve()
}

// mcpServer wraps the person store and exposes it via Model Context Protocol
type mcpServer struct {
	store  *persons.Store
	server *server.MCPServer

	mu  sync.RWMutex
	cfg *config.Config
}

func newMCPServer(store *persons.Store, cfg *config.Config) *mcpServer {
	s := &mcpServer{store: store, cfg: cfg}

	s.server = server.NewMCPServer(
		"biograf",
		version.Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// setupConfigWatcher makes configuration edits apply to subsequent tool
// calls without a server restart. Returns nil when watching is unavailable;
// the server still runs with its startup config.
func setupConfigWatcher(cmd *cobra.Command, s *mcpServer) *config.Watcher {
	log := logger.ComponentLogger(logger.ComponentMCP)

	// An explicit --config file bypasses the cached global config that
	// reloads refresh, so live updates cannot apply to it.
	if path, _ := cmd.Root().PersistentFlags().GetString("config"); path != "" {
		log.Infow("Config watching disabled for explicit --config file", logger.FieldPath, path)
		return nil
	}

	configPath := config.GetViper().ConfigFileUsed()
	if configPath == "" {
		log.Infow("No config file found, using defaults (config watching disabled)")
		return nil
	}

	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		log.Warnw("Failed to create config watcher, manual restart required for config changes",
			logger.FieldError, err)
		return nil
	}
	config.SetGlobalWatcher(watcher)

	watcher.OnReload(func(newCfg *config.Config) error {
		s.setConfig(newCfg)
		log.Infow("Config reloaded",
			logger.FieldThreshold, newCfg.Search.Threshold)
		return nil
	})

	watcher.Start()
	log.Infow("Config watcher started", logger.FieldPath, configPath)
	return watcher
}

func (s *mcpServer) setConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *mcpServer) searchThreshold() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Search.Threshold
}

// Serve starts the MCP server on stdio (blocks until the client disconnects)
func (s *mcpServer) Serve() error {
	return server.ServeStdio(s.server)
}

func (s *mcpServer) registerTools() {
	showTool := mcp.NewTool("person_show",
		mcp.WithDescription("Fetch a person record by its ID"),
		mcp.WithString("person_id",
			mcp.Required(),
			mcp.Description("Person identifier, e.g. I382000000042"),
		),
	)
	s.server.AddTool(showTool, s.handlePersonShow)

	searchTool := mcp.NewTool("person_search",
		mcp.WithDescription("Search person records by name, birth year, location, or gender; returns confidence-scored matches"),
		mcp.WithString("given",
			mcp.Description("Given names to match"),
		),
		mcp.WithString("surname",
			mcp.Description("Surname to match"),
		),
		mcp.WithNumber("birth_year",
			mcp.Description("Birth year to match"),
		),
		mcp.WithString("location",
			mcp.Description("Birth place to match"),
		),
		mcp.WithString("gender",
			mcp.Description("Restrict results to a gender"),
		),
		mcp.WithBoolean("exact",
			mcp.Description("Require exact matches on supplied fields (default: false)"),
		),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum confidence for fuzzy hits (default: configured search threshold)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Stop after this many results (default: 20)"),
		),
	)
	s.server.AddTool(searchTool, s.handlePersonSearch)

	scoreTool := mcp.NewTool("match_score",
		mcp.WithDescription("Score how likely two name/year/place tuples describe the same person, with a per-field breakdown"),
		mcp.WithString("name_a",
			mcp.Required(),
			mcp.Description("Full name of the first person"),
		),
		mcp.WithNumber("year_a",
			mcp.Description("Birth year of the first person"),
		),
		mcp.WithString("place_a",
			mcp.Description("Birth place of the first person"),
		),
		mcp.WithString("name_b",
			mcp.Required(),
			mcp.Description("Full name of the second person"),
		),
		mcp.WithNumber("year_b",
			mcp.Description("Birth year of the second person"),
		),
		mcp.WithString("place_b",
			mcp.Description("Birth place of the second person"),
		),
	)
	s.server.AddTool(scoreTool, s.handleMatchScore)
}

// handlePersonShow handles person_show tool calls
func (s *mcpServer) handlePersonShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	personID, err := request.RequireString("person_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := s.store.Read(personID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read person: %v", err)), nil
	}

	return jsonResult(p)
}

// handlePersonSearch handles person_search tool calls
func (s *mcpServer) handlePersonSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := persons.Criteria{
		GivenNames: request.GetString("given", ""),
		Surname:    request.GetString("surname", ""),
		BirthYear:  request.GetInt("birth_year", 0),
		Location:   request.GetString("location", ""),
		Gender:     request.GetString("gender", ""),
	}
	exact := request.GetBool("exact", false)
	threshold := request.GetInt("threshold", s.searchThreshold())
	limit := request.GetInt("limit", 20)

	var results []persons.SearchResult
	for r := range s.store.Search(criteria, !exact, threshold) {
		results = append(results, r)
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	return jsonResult(map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// handleMatchScore handles match_score tool calls
func (s *mcpServer) handleMatchScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nameA, err := request.RequireString("name_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nameB, err := request.RequireString("name_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a := match.Candidate{
		FullName:   nameA,
		BirthYear:  request.GetInt("year_a", 0),
		BirthPlace: request.GetString("place_a", ""),
	}
	b := match.Candidate{
		FullName:   nameB,
		BirthYear:  request.GetInt("year_b", 0),
		BirthPlace: request.GetString("place_b", ""),
	}

	breakdown := s.store.Matcher().Breakdown(a, b)
	return jsonResult(breakdown)
}

// jsonResult marshals v as a text tool result. Plain encoding/json is used
// here: MCP clients parse the payload themselves, so no display formatting
// applies.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
