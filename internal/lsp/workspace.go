package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/config"
)

// SettingsSection is the key of the server's settings in
// workspace/didChangeConfiguration.
const SettingsSection = "sitter-lsp"

// DidChangeConfiguration applies client settings. Only maxProblems is read:
//
//	{"sitter-lsp": {"maxProblems": 100}}
func DidChangeConfiguration(context *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	srv := current("didChangeConfiguration")
	if srv == nil {
		return nil
	}

	settings, ok := params.Settings.(map[string]any)
	if !ok {
		return nil
	}
	section, ok := settings[SettingsSection].(map[string]any)
	if !ok {
		return nil
	}

	if maxProblems, ok := section["maxProblems"].(float64); ok && maxProblems >= 0 {
		srv.UpdateConfig(func(cfg *config.Config) {
			cfg.Server.MaxProblems = int(maxProblems)
		})
		log.Infof("configuration updated: maxProblems = %d", int(maxProblems))
		publishAll(context, srv)
	}
	return nil
}

// DidChangeWorkspaceFolders indexes added folders. Files of removed folders
// stay known until the server restarts.
func DidChangeWorkspaceFolders(context *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	srv := current("didChangeWorkspaceFolders")
	if srv == nil {
		return nil
	}

	folders := srv.WorkspaceFolders()
	for _, removed := range params.Event.Removed {
		log.Infof("workspace folder removed: %s (%s)", removed.Name, removed.URI)
		for i, f := range folders {
			if f.URI == removed.URI {
				folders = append(folders[:i:i], folders[i+1:]...)
				break
			}
		}
	}
	for _, added := range params.Event.Added {
		log.Infof("workspace folder added: %s (%s)", added.Name, added.URI)
	}
	srv.SetWorkspaceFolders(append(folders, params.Event.Added...))

	if n := srv.IndexWorkspace(params.Event.Added); n > 0 {
		publishAll(context, srv)
	}
	return nil
}
